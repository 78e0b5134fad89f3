// Package carousel finds carousel placeholders in an article, turns each into
// slides and hands them to a renderer together with a bound tracking function.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abcnews/content-carousel/internal/dom"
	"github.com/abcnews/content-carousel/internal/logging"
	"github.com/abcnews/content-carousel/internal/slides"
	"github.com/abcnews/content-carousel/internal/track"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultDecoySelector matches the placeholders the CMS leaves for carousels.
const DefaultDecoySelector = `[data-key="carousel"]`

// Mount is one carousel ready to render.
type Mount struct {
	Index int
	// ID is "<article>__<index+1>", the tracking question.
	ID string
	// Target is the emptied placeholder the carousel renders into.
	Target *html.Node
	Slides []slides.Slide
	Track  track.TrackFunc
}

// Mounter renders a carousel.
type Mounter interface {
	Mount(ctx context.Context, m Mount) error
}

// MounterFunc adapts a function to Mounter.
type MounterFunc func(ctx context.Context, m Mount) error

func (f MounterFunc) Mount(ctx context.Context, m Mount) error {
	return f(ctx, m)
}

// Bootstrapper mounts every carousel in a document.
type Bootstrapper struct {
	parser   *slides.Parser
	registry *track.Registry
	logger   *slog.Logger
	decoy    cascadia.Sel
}

// New creates a Bootstrapper. An empty decoySelector uses DefaultDecoySelector.
func New(parser *slides.Parser, registry *track.Registry, logger *slog.Logger, decoySelector string) (*Bootstrapper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if decoySelector == "" {
		decoySelector = DefaultDecoySelector
	}
	sel, err := dom.Compile(decoySelector)
	if err != nil {
		return nil, fmt.Errorf("invalid decoy selector: %w", err)
	}
	return &Bootstrapper{
		parser:   parser,
		registry: registry,
		logger:   logger,
		decoy:    sel,
	}, nil
}

// Decoys returns the carousel placeholders in doc, in document order.
func (b *Bootstrapper) Decoys(doc *html.Node) []*html.Node {
	return dom.QueryAll(doc, b.decoy)
}

// Run parses every placeholder in doc, empties it and passes it to m. A
// placeholder that fails to parse or mount is left as is and its error is
// joined into the result; the others still mount.
func (b *Bootstrapper) Run(ctx context.Context, doc *html.Node, articleURL string, m Mounter) ([]Mount, error) {
	articleID, ok := ArticleID(articleURL)
	if !ok {
		b.logger.Debug("No article id in URL", "url", articleURL)
	}

	decoys := b.Decoys(doc)
	b.logger.Debug("Found carousels", "count", len(decoys))

	var mounted []Mount
	var errs []error
	for i, decoy := range decoys {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		id := CarouselID(articleID, i)
		cctx := logging.ContextWith(ctx, slog.String("carousel", id))

		parsed, err := b.parser.ParseSlides(decoy)
		if err != nil {
			b.logger.ErrorContext(cctx, "Failed to parse carousel", "error", err)
			errs = append(errs, fmt.Errorf("carousel %s: %w", id, err))
			continue
		}

		dom.RemoveChildren(decoy)

		mount := Mount{
			Index:  i,
			ID:     id,
			Target: decoy,
			Slides: parsed,
			Track:  b.registry.TrackFunc(cctx, id),
		}
		if err := m.Mount(cctx, mount); err != nil {
			b.logger.ErrorContext(cctx, "Failed to mount carousel", "error", err)
			errs = append(errs, fmt.Errorf("carousel %s: %w", id, err))
			continue
		}

		b.logger.InfoContext(cctx, "Mounted carousel", "slides", len(parsed))
		mounted = append(mounted, mount)
	}

	return mounted, errors.Join(errs...)
}
