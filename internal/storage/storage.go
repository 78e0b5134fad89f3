package storage

import (
	"context"

	"github.com/abcnews/content-carousel/internal/model"
	"github.com/abcnews/content-carousel/internal/track"
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Behaviour counting. Increment makes Backend a track.Counter.
	Increment(ctx context.Context, inc track.Increment) error
	// Counts returns answer -> total for one question of one group.
	Counts(ctx context.Context, group, question string) (map[string]int64, error)

	// Deck archive. SaveDeck assigns an ID when the deck has none.
	SaveDeck(ctx context.Context, deck *model.Deck) error
	Decks(ctx context.Context, articleID string) ([]model.Deck, error)
}
