// Package gormstorage implements the storage backend on top of GORM.
// Increments are queued and written in aggregated batches by a background
// writer goroutine; decks are written synchronously.
package gormstorage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abcnews/content-carousel/internal/model"
	"github.com/abcnews/content-carousel/internal/queue"
	"github.com/abcnews/content-carousel/internal/track"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultFlushInterval is used when Dependencies.FlushInterval is not positive.
const DefaultFlushInterval = 2 * time.Second

// ErrNoDB is returned by Init when no connection was injected.
var ErrNoDB = errors.New("no database connection")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
}

// Backend writes counts and decks through GORM.
type Backend struct {
	deps    Dependencies
	pending *queue.Queue[track.Increment]

	flushMu   sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	return &Backend{
		deps:    deps,
		pending: queue.New[track.Increment](),
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init runs schema migration and starts the writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return ErrNoDB
	}
	if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

func (b *Backend) setupDB() error {
	log := b.deps.Logger
	log.Info("Migrating schema", "dialect", b.deps.DB.Name())
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database setup complete")
	return nil
}

// Close stops the writer goroutine and writes anything still queued.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.stopChan != nil {
			close(b.stopChan)
			<-b.done
		}
		if b.deps.DB != nil {
			err = b.Flush(context.Background())
		}
	})
	return err
}

func (b *Backend) writeLoop() {
	defer close(b.done)

	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(context.Background()); err != nil {
				b.deps.Logger.Error("Failed to write counts", "error", err)
			}
		}
	}
}

// Increment queues inc for the next flush.
func (b *Backend) Increment(_ context.Context, inc track.Increment) error {
	b.pending.Push(inc)
	return nil
}

// Pending returns the number of increments not yet written.
func (b *Backend) Pending() int {
	return b.pending.Len()
}

// Flush writes queued increments, one upserted row per distinct key.
// On failure the increments are queued again.
func (b *Backend) Flush(ctx context.Context) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	batch := b.pending.Drain()
	if len(batch) == 0 {
		return nil
	}

	totals := make(map[track.Increment]int64, len(batch))
	rows := make([]model.Count, 0, len(batch))
	index := make(map[track.Increment]int, len(batch))
	for _, inc := range batch {
		totals[inc]++
		if _, ok := index[inc]; !ok {
			index[inc] = len(rows)
			rows = append(rows, model.Count{
				GroupName: inc.Group,
				Question:  inc.Question,
				Answer:    inc.Answer,
			})
		}
	}
	for inc, i := range index {
		rows[i].Value = totals[inc]
	}

	err := b.deps.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "group_name"}, {Name: "question"}, {Name: "answer"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      gorm.Expr("counts.value + excluded.value"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&rows).Error
	if err != nil {
		b.pending.Requeue(batch...)
		return fmt.Errorf("failed to upsert %d counts: %w", len(rows), err)
	}

	b.deps.Logger.Debug("Wrote counts", "increments", len(batch), "rows", len(rows))
	return nil
}

// Counts flushes queued increments, then reads the totals for question.
func (b *Backend) Counts(ctx context.Context, group, question string) (map[string]int64, error) {
	if err := b.Flush(ctx); err != nil {
		return nil, err
	}

	var rows []model.Count
	err := b.deps.DB.WithContext(ctx).
		Where("group_name = ? AND question = ?", group, question).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read counts: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Answer] = r.Value
	}
	return out, nil
}

// SaveDeck inserts deck, assigning a UUID when it has no ID.
func (b *Backend) SaveDeck(ctx context.Context, deck *model.Deck) error {
	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}
	if err := b.deps.DB.WithContext(ctx).Create(deck).Error; err != nil {
		return fmt.Errorf("failed to insert deck: %w", err)
	}
	return nil
}

// Decks returns the decks archived for articleID ordered by carousel index.
func (b *Backend) Decks(ctx context.Context, articleID string) ([]model.Deck, error) {
	var decks []model.Deck
	err := b.deps.DB.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("carousel_index, created_at").
		Find(&decks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read decks: %w", err)
	}
	return decks, nil
}
