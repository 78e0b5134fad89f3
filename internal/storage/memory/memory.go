// Package memory keeps behaviour counts and archived decks in process memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abcnews/content-carousel/internal/model"
	"github.com/abcnews/content-carousel/internal/track"
	"github.com/google/uuid"
)

// Backend stores counts and decks in maps guarded by a mutex
type Backend struct {
	counts map[track.Increment]int64
	decks  map[string][]model.Deck // keyed by ArticleID

	mu sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		counts: make(map[track.Increment]int64),
		decks:  make(map[string][]model.Deck),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Increment adds one to the count for inc.
func (b *Backend) Increment(_ context.Context, inc track.Increment) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counts[inc]++
	return nil
}

// Counts returns every answer recorded for question within group.
func (b *Backend) Counts(_ context.Context, group, question string) (map[string]int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]int64)
	for k, v := range b.counts {
		if k.Group == group && k.Question == question {
			out[k.Answer] = v
		}
	}
	return out, nil
}

// SaveDeck stores a copy of deck, assigning an ID and creation time when unset.
func (b *Backend) SaveDeck(_ context.Context, deck *model.Deck) error {
	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}
	if deck.CreatedAt.IsZero() {
		deck.CreatedAt = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.decks[deck.ArticleID] = append(b.decks[deck.ArticleID], *deck)
	return nil
}

// Decks returns the decks archived for articleID ordered by carousel index.
func (b *Backend) Decks(_ context.Context, articleID string) ([]model.Deck, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Deck, len(b.decks[articleID]))
	copy(out, b.decks[articleID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CarouselIndex < out[j].CarouselIndex
	})
	return out, nil
}
