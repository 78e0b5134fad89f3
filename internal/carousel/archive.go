package carousel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abcnews/content-carousel/internal/model"
	"github.com/abcnews/content-carousel/internal/slides"
	"gorm.io/datatypes"
)

// Deck is the serialisable form of a mounted carousel.
type Deck struct {
	ID     string         `json:"id"`
	Index  int            `json:"index"`
	Slides []slides.Slide `json:"slides"`
}

// DeckOf returns the serialisable form of m.
func DeckOf(m Mount) Deck {
	s := m.Slides
	if s == nil {
		s = []slides.Slide{}
	}
	return Deck{ID: m.ID, Index: m.Index, Slides: s}
}

// DeckSaver persists archived decks.
type DeckSaver interface {
	SaveDeck(ctx context.Context, deck *model.Deck) error
}

// Archive returns a Mounter that stores each carousel's slides under articleID.
func Archive(saver DeckSaver, articleID string) Mounter {
	if articleID == "" {
		articleID = UnknownArticle
	}
	return MounterFunc(func(ctx context.Context, m Mount) error {
		body, err := json.Marshal(DeckOf(m).Slides)
		if err != nil {
			return fmt.Errorf("failed to encode slides: %w", err)
		}
		return saver.SaveDeck(ctx, &model.Deck{
			ArticleID:     articleID,
			CarouselIndex: m.Index,
			SlideCount:    len(m.Slides),
			Slides:        datatypes.JSON(body),
		})
	})
}

// Collect returns a Mounter that appends each deck to out.
func Collect(out *[]Deck) Mounter {
	return MounterFunc(func(_ context.Context, m Mount) error {
		*out = append(*out, DeckOf(m))
		return nil
	})
}

// Multi mounts each carousel with every mounter in turn, stopping at the
// first error.
func Multi(mounters ...Mounter) Mounter {
	return MounterFunc(func(ctx context.Context, m Mount) error {
		for _, mt := range mounters {
			if err := mt.Mount(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}
