package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/abcnews/content-carousel/internal/carousel"
	"github.com/abcnews/content-carousel/internal/config"
	"github.com/abcnews/content-carousel/internal/dom"
	"github.com/abcnews/content-carousel/internal/slides"
	"github.com/spf13/cobra"
)

var (
	parseURL   string
	parseStore bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.html>",
	Short: "Print the slide decks of every carousel in an article",
	Long: `Reads article markup, finds every carousel placeholder and prints the parsed
decks as JSON. Carousel ids are derived from --url.

With --store the decks are also archived in the configured storage backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseURL, "url", "", "article URL, used to derive carousel ids")
	parseCmd.Flags().BoolVar(&parseStore, "store", false, "archive the parsed decks")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runParse(cmd *cobra.Command, args []string) (err error) {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open article: %w", err)
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse article: %w", err)
	}

	parser, err := slides.NewParser(Logger, config.GetParserConfig())
	if err != nil {
		return err
	}

	backend, err := openStorage()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, backend.Close())
	}()

	registry, err := newRegistry(backend)
	if err != nil {
		return err
	}

	b, err := carousel.New(parser, registry, Logger, config.GetCarouselConfig().DecoySelector)
	if err != nil {
		return err
	}

	decks := []carousel.Deck{}
	mounter := carousel.Collect(&decks)
	if parseStore {
		articleID, _ := carousel.ArticleID(parseURL)
		mounter = carousel.Multi(carousel.Archive(backend, articleID), mounter)
	}

	_, runErr := b.Run(commandContext(cmd), doc, parseURL, mounter)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(decks); err != nil {
		return fmt.Errorf("failed to write decks: %w", err)
	}

	return runErr
}
