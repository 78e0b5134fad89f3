// Package dispatcher is the event channel of a carousel: named swipe events
// emitted on an attached target are routed to the handlers registered for
// that name.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/abcnews/content-carousel/internal/dispatcher"

// Event is a named event with its payload.
type Event struct {
	Name      string
	Detail    any
	Timestamp time.Time
}

// HandlerFunc processes an event.
type HandlerFunc func(Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// ErrQueueFull is returned when a non-blocking buffered handler drops an event.
var ErrQueueFull = errors.New("queue full")

type buffer struct {
	name string
	ch   chan Event
}

// Dispatcher routes events to registered handlers.
type Dispatcher struct {
	handlers map[string][]HandlerFunc
	logger   Logger

	// OTEL metrics
	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter

	// Track buffers for gauge callback and Close
	mu      sync.RWMutex
	buffers []buffer
	workers sync.WaitGroup
	closed  bool
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}

	m := otel.Meter(instrumentationName)

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of events in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for _, b := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(len(b.ch)),
					metric.WithAttributes(attribute.String("event", b.name)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the named event with optional configuration.
// Several handlers may listen to the same name; they run in registration order.
func (d *Dispatcher) Register(name string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(name, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = d.withLogging(name, handler)
	}

	d.handlers[name] = append(d.handlers[name], handler)
}

// Dispatch routes an event to every handler registered for its name. Events
// nobody listens to are ignored.
func (d *Dispatcher) Dispatch(e Event) error {
	var errs []error
	for _, h := range d.handlers[e.Name] {
		if err := h(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit dispatches a named event stamped with the current time. Handler errors
// are logged; emitters do not wait for an answer.
func (d *Dispatcher) Emit(name string, detail any) {
	if err := d.Dispatch(Event{Name: name, Detail: detail, Timestamp: time.Now()}); err != nil {
		d.logger.Error("event handler failed", "event", name, "error", err)
	}
}

// HasHandler returns true if a handler is registered for the name.
func (d *Dispatcher) HasHandler(name string) bool {
	return len(d.handlers[name]) > 0
}

// Close stops accepting buffered events and waits until every queued event
// has been processed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, b := range d.buffers {
		close(b.ch)
	}
	d.mu.Unlock()

	d.workers.Wait()
}

func (d *Dispatcher) withBuffer(name string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	ch := make(chan Event, size)

	d.mu.Lock()
	d.buffers = append(d.buffers, buffer{name: name, ch: ch})
	d.mu.Unlock()

	nameAttr := attribute.String("event", name)

	d.workers.Add(1)
	go func() {
		defer d.workers.Done()
		for e := range ch {
			if err := h(e); err != nil {
				d.logger.Error("buffered handler failed", "event", name, "error", err)
			}
			d.processed.Add(context.Background(), 1, metric.WithAttributes(nameAttr))
		}
	}()

	if blocking {
		return func(e Event) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			if d.closed {
				return fmt.Errorf("dispatcher closed: %s", name)
			}
			ch <- e
			return nil
		}
	}

	return func(e Event) error {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			return fmt.Errorf("dispatcher closed: %s", name)
		}
		select {
		case ch <- e:
			return nil
		default:
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(nameAttr))
			return fmt.Errorf("%w: %s", ErrQueueFull, name)
		}
	}
}

func (d *Dispatcher) withLogging(name string, h HandlerFunc) HandlerFunc {
	return func(e Event) error {
		start := time.Now()
		d.logger.Debug("handling event", "event", name, "detail", e.Detail)

		err := h(e)

		if err != nil {
			d.logger.Error("event failed", "event", name, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "event", name, "duration", time.Since(start))
		}

		return err
	}
}
