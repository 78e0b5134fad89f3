// Package track reports anonymised carousel usage to a counting service.
//
// A Registry is built once at startup and handed to every carousel; each
// carousel gets a TrackFunc bound to its own question id. Counts are keyed by
// (group, question, answer).
package track

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

const (
	// DefaultGroupPrefix namespaces behaviour groups on the counting service.
	DefaultGroupPrefix = "content-carousel_behaviour__"

	previewSuffix = "__PREVIEW"
)

// Increment is one count request.
type Increment struct {
	Group    string
	Question string
	Answer   string
}

// Counter accepts count requests.
type Counter interface {
	Increment(ctx context.Context, inc Increment) error
}

// TrackFunc records that a carousel reported value for the behaviour name.
// It never fails; delivery errors are logged.
type TrackFunc func(name, value string)

// Options configures a Registry.
type Options struct {
	GroupPrefix string `json:"groupPrefix" mapstructure:"groupPrefix"`
	// Preview marks counts coming from the preview tier.
	Preview bool `json:"preview" mapstructure:"preview"`
}

// Client counts answers within one group.
type Client struct {
	group   string
	counter Counter
}

// Group returns the client's group.
func (c *Client) Group() string {
	return c.group
}

// Increment counts answer for question.
func (c *Client) Increment(ctx context.Context, question, answer string) error {
	return c.counter.Increment(ctx, Increment{Group: c.group, Question: question, Answer: answer})
}

// Registry owns one Client per behaviour name.
type Registry struct {
	counter Counter
	logger  *slog.Logger
	opts    Options

	mu      sync.Mutex
	clients map[string]*Client
}

// NewRegistry creates a registry that sends counts to counter.
func NewRegistry(counter Counter, logger *slog.Logger, opts Options) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.GroupPrefix == "" {
		opts.GroupPrefix = DefaultGroupPrefix
	}
	return &Registry{
		counter: counter,
		logger:  logger,
		opts:    opts,
		clients: make(map[string]*Client),
	}
}

// Client returns the client for name, creating it on first use.
func (r *Registry) Client(name string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[name]
	if !ok {
		c = &Client{group: r.opts.GroupPrefix + name, counter: r.counter}
		r.clients[name] = c
	}
	return c
}

// Groups returns the groups of every client created so far, sorted.
func (r *Registry) Groups() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c.group)
	}
	sort.Strings(out)
	return out
}

// Question returns the question a carousel with id reports under.
func (r *Registry) Question(id string) string {
	if r.opts.Preview {
		return id + previewSuffix
	}
	return id
}

// TrackFunc binds a track function to the carousel id.
func (r *Registry) TrackFunc(ctx context.Context, id string) TrackFunc {
	question := r.Question(id)
	return func(name, value string) {
		if err := r.Client(name).Increment(ctx, question, value); err != nil {
			r.logger.Warn("Failed to record behaviour",
				"name", name, "question", question, "answer", value, "error", err)
		}
	}
}

// Multi fans every increment out to all counters. All counters are tried;
// failures are joined.
func Multi(counters ...Counter) Counter {
	valid := make(multi, 0, len(counters))
	for _, c := range counters {
		if c != nil {
			valid = append(valid, c)
		}
	}
	return valid
}

type multi []Counter

func (m multi) Increment(ctx context.Context, inc Increment) error {
	var errs []error
	for _, c := range m {
		if err := c.Increment(ctx, inc); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", inc.Group, err))
		}
	}
	return errors.Join(errs...)
}
