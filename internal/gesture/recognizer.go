// Package gesture recognizes horizontal swipes from pointer and touch input.
//
// A recognizer attached to a target listens for a pointer-down or touch-start,
// decides once per gesture whether the motion is horizontal or vertical, and
// emits swipestart, swipemove, swipethreshold and swipeend on the target.
// Vertical gestures are left alone so the host can scroll.
package gesture

import "math"

// Swipe event names emitted on the target.
const (
	EventStart     = "swipestart"
	EventMove      = "swipemove"
	EventThreshold = "swipethreshold"
	EventEnd       = "swipeend"
)

const (
	DefaultMinDistancePx       = 5
	DefaultThresholdDistancePx = 100
)

// Start is the detail of a swipestart event.
type Start struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Move is the detail of a swipemove event.
type Move struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Threshold is the detail of a swipethreshold event. Direction is 1 for a
// rightward swipe and -1 for a leftward one.
type Threshold struct {
	Direction int `json:"direction"`
}

// End is the detail of a swipeend event.
type End struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config holds the recognizer distances. Non-positive distances fall back to
// the defaults. AlwaysListen keeps move and end listeners registered for the
// lifetime of the attachment instead of per gesture; touch hosts set it so
// fast gestures are not missed.
type Config struct {
	MinDistancePx       float64 `json:"minDistancePx" mapstructure:"minDistancePx"`
	ThresholdDistancePx float64 `json:"thresholdDistancePx" mapstructure:"thresholdDistancePx"`
	AlwaysListen        bool    `json:"alwaysListen" mapstructure:"alwaysListen"`
}

func (c Config) withDefaults() Config {
	if c.MinDistancePx <= 0 {
		c.MinDistancePx = DefaultMinDistancePx
	}
	if c.ThresholdDistancePx <= 0 {
		c.ThresholdDistancePx = DefaultThresholdDistancePx
	}
	return c
}

// Axis is the direction a gesture has been locked to.
type Axis int

const (
	Unlocked Axis = iota
	Horizontal
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unlocked"
	}
}

// State is the recognizer's view of the gesture in progress.
type State struct {
	StartX, StartY float64
	DeltaX, DeltaY float64
	Axis           Axis
	Active         bool
}

// Handle is one attachment of the recognizer to a target. It is not safe for
// concurrent use; all input is expected from a single event loop.
type Handle struct {
	target Target
	scope  Source
	cfg    Config
	state  State

	alwaysListen bool
	attached     bool
	removeStart  []func()
	removeScope  []func()
}

// Attach starts recognizing gestures that begin on target. Move and end input
// is read from scope, usually the window that target lives in; a nil scope
// reads it from target.
func Attach(target Target, scope Source, cfg Config) *Handle {
	if scope == nil {
		scope = target
	}
	h := &Handle{
		target:       target,
		scope:        scope,
		cfg:          cfg.withDefaults(),
		alwaysListen: cfg.AlwaysListen,
		attached:     true,
	}

	for _, t := range startTypes {
		h.removeStart = append(h.removeStart, target.Listen(t, h.handleStart))
	}
	if h.alwaysListen {
		h.listenScope()
	}

	return h
}

// UpdateConfig replaces the distances. A gesture in progress uses the new
// values from its next move. The listening mode is fixed at Attach.
func (h *Handle) UpdateConfig(cfg Config) {
	cfg = cfg.withDefaults()
	cfg.AlwaysListen = h.alwaysListen
	h.cfg = cfg
}

// Config returns the active configuration.
func (h *Handle) Config() Config {
	return h.cfg
}

// State returns a copy of the current gesture state.
func (h *Handle) State() State {
	return h.state
}

// Detach removes every listener. A gesture in progress is dropped without an
// end event.
func (h *Handle) Detach() {
	if !h.attached {
		return
	}
	h.attached = false
	for _, remove := range h.removeStart {
		remove()
	}
	h.removeStart = nil
	h.unlistenScope()
	h.state = State{}
}

func (h *Handle) listenScope() {
	for _, t := range moveTypes {
		h.removeScope = append(h.removeScope, h.scope.Listen(t, h.handleMove))
	}
	for _, t := range endTypes {
		h.removeScope = append(h.removeScope, h.scope.Listen(t, h.handleEnd))
	}
}

func (h *Handle) unlistenScope() {
	for _, remove := range h.removeScope {
		remove()
	}
	h.removeScope = nil
}

func (h *Handle) handleStart(ev *InputEvent) {
	if ev.Type == PointerDown && ev.Button != 0 {
		return
	}
	p, ok := ev.position()
	if !ok {
		return
	}
	if h.state.Active && !h.alwaysListen {
		// a second start without an end; keep a single set of scope listeners
		h.unlistenScope()
	}

	h.state = State{StartX: p.X, StartY: p.Y, Axis: Unlocked, Active: true}
	h.target.Emit(EventStart, Start{X: p.X, Y: p.Y})

	if !h.alwaysListen {
		h.listenScope()
	}
}

func (h *Handle) handleMove(ev *InputEvent) {
	if !h.state.Active {
		return
	}
	p, ok := ev.position()
	if !ok {
		return
	}

	h.state.DeltaX = p.X - h.state.StartX
	h.state.DeltaY = p.Y - h.state.StartY

	adx := math.Abs(h.state.DeltaX)
	ady := math.Abs(h.state.DeltaY)

	if h.state.Axis == Unlocked && math.Max(adx, ady) > h.cfg.MinDistancePx {
		if adx >= ady {
			h.state.Axis = Horizontal
		} else {
			h.state.Axis = Vertical
		}
	}

	if h.state.Axis != Horizontal {
		return
	}

	ev.PreventDefault()
	h.target.Emit(EventMove, Move{X: p.X, Y: p.Y, DX: h.state.DeltaX, DY: h.state.DeltaY})

	if adx > h.cfg.ThresholdDistancePx {
		h.target.Emit(EventThreshold, Threshold{Direction: sign(h.state.DeltaX)})
		h.end(p)
	}
}

func (h *Handle) handleEnd(ev *InputEvent) {
	if !h.state.Active {
		return
	}
	p, ok := ev.position()
	if !ok {
		p = h.current()
	}
	h.end(p)
}

func (h *Handle) end(p Point) {
	h.state = State{}
	if !h.alwaysListen {
		h.unlistenScope()
	}
	h.target.Emit(EventEnd, End{X: p.X, Y: p.Y})
}

// current is the last tracked position of the active gesture.
func (h *Handle) current() Point {
	return Point{X: h.state.StartX + h.state.DeltaX, Y: h.state.StartY + h.state.DeltaY}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
