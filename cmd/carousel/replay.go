package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/abcnews/content-carousel/internal/carousel"
	"github.com/abcnews/content-carousel/internal/config"
	"github.com/abcnews/content-carousel/internal/dispatcher"
	"github.com/abcnews/content-carousel/internal/gesture"
	"github.com/abcnews/content-carousel/internal/logging"
	"github.com/abcnews/content-carousel/internal/queue"
	"github.com/abcnews/content-carousel/internal/track"
	"github.com/spf13/cobra"
)

// Trace targets. Input on the window reaches only the window's listeners;
// input on the carousel bubbles up to the window.
const (
	targetCarousel = "carousel"
	targetWindow   = "window"
)

var (
	replayURL   string
	replayIndex int
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace.json>",
	Short: "Feed a recorded input trace through the swipe recognizer",
	Long: `Reads a JSON array of pointer/touch events and dispatches them to a carousel
element inside a window, with the swipe recognizer attached. Prints the swipe
events the recognizer emitted and counts each threshold crossing as a "swipe"
behaviour ("next" or "prev") for carousel --index of the article at --url.

Each event has the fields type, clientX, clientY, touches, button and
cancelable, plus an optional target ("carousel" or "window"). pointerleave
does not bubble: a leave on the carousel does not end the gesture.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayURL, "url", "", "article URL, used to derive the carousel id")
	replayCmd.Flags().IntVar(&replayIndex, "index", 0, "zero-based carousel index within the article")
}

// traceEvent is one recorded input event.
type traceEvent struct {
	gesture.InputEvent
	Target string `json:"target,omitempty"`
}

// emitted is one swipe event as printed by replay.
type emitted struct {
	Event  string `json:"event"`
	Detail any    `json:"detail"`
}

type replayResult struct {
	ID               string    `json:"id"`
	Events           []emitted `json:"events"`
	DefaultPrevented int       `json:"defaultPrevented"`
}

func readTrace(path string) ([]traceEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	var trace []traceEvent
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("failed to decode trace: %w", err)
	}
	for i, ev := range trace {
		if ev.Target != "" && ev.Target != targetCarousel && ev.Target != targetWindow {
			return nil, fmt.Errorf("event %d: unknown target %q", i, ev.Target)
		}
	}
	return trace, nil
}

// direction names the navigation a threshold crossing triggers. Dragging
// content to the left reveals the next slide.
func direction(t gesture.Threshold) string {
	if t.Direction < 0 {
		return "next"
	}
	return "prev"
}

func runReplay(cmd *cobra.Command, args []string) (err error) {
	trace, err := readTrace(args[0])
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

	articleID, _ := carousel.ArticleID(replayURL)
	id := carousel.CarouselID(articleID, replayIndex)
	result, err := replay(trace, id, config.GetGestureConfig(), registry.TrackFunc(commandContext(cmd), id))
	if err != nil {
		return err
	}

	Logger.Info("Replayed trace", "id", id, "input", len(trace), "emitted", len(result.Events))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// replay drives a recognizer attached to a fresh carousel element with trace.
// Tracking runs on a buffered handler and has finished when replay returns.
func replay(trace []traceEvent, id string, cfg gesture.Config, trackFn track.TrackFunc) (replayResult, error) {
	d, err := dispatcher.New(logging.NewDispatcherLogger(SlogManager.ZeroLogger("dispatcher"), id))
	if err != nil {
		return replayResult{}, err
	}

	recorded := queue.New[emitted]()
	for _, name := range []string{gesture.EventStart, gesture.EventMove, gesture.EventThreshold, gesture.EventEnd} {
		d.Register(name, func(e dispatcher.Event) error {
			recorded.Push(emitted{Event: e.Name, Detail: e.Detail})
			return nil
		})
	}
	d.Register(gesture.EventThreshold, func(e dispatcher.Event) error {
		t, ok := e.Detail.(gesture.Threshold)
		if !ok {
			return fmt.Errorf("unexpected threshold detail %T", e.Detail)
		}
		trackFn("swipe", direction(t))
		return nil
	}, dispatcher.Buffered(64), dispatcher.Blocking(), dispatcher.Logged())

	window := gesture.NewElement(nil, nil)
	target := gesture.NewElement(d, window)
	h := gesture.Attach(target, window, cfg)

	prevented := 0
	for i := range trace {
		ev := &trace[i].InputEvent
		if trace[i].Target == targetWindow {
			window.Dispatch(ev)
		} else {
			target.Dispatch(ev)
		}
		if ev.DefaultPrevented() {
			prevented++
		}
	}

	h.Detach()
	d.Close()

	events := recorded.Drain()
	if events == nil {
		events = []emitted{}
	}
	return replayResult{ID: id, Events: events, DefaultPrevented: prevented}, nil
}
