package gesture

import "strings"

// InputType names a low-level pointer or touch event.
type InputType string

const (
	PointerDown  InputType = "pointerdown"
	PointerMove  InputType = "pointermove"
	PointerUp    InputType = "pointerup"
	PointerLeave InputType = "pointerleave"
	TouchStart   InputType = "touchstart"
	TouchMove    InputType = "touchmove"
	TouchEnd     InputType = "touchend"
	TouchCancel  InputType = "touchcancel"
)

var (
	startTypes = []InputType{PointerDown, TouchStart}
	moveTypes  = []InputType{PointerMove, TouchMove}
	endTypes   = []InputType{PointerUp, PointerLeave, TouchEnd, TouchCancel}
)

// IsTouch reports whether t belongs to the touch event family.
func (t InputType) IsTouch() bool {
	return strings.HasPrefix(string(t), "touch")
}

// Bubbles reports whether events of type t propagate to ancestors.
func (t InputType) Bubbles() bool {
	return t != PointerLeave
}

// Point is a position in viewport coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InputEvent carries the fields of a pointer or touch event the recognizer
// reads. Touch events report positions through Touches, pointer events
// through ClientX and ClientY.
type InputEvent struct {
	Type       InputType `json:"type"`
	ClientX    float64   `json:"clientX"`
	ClientY    float64   `json:"clientY"`
	Touches    []Point   `json:"touches,omitempty"`
	Button     int       `json:"button"`
	Cancelable bool      `json:"cancelable"`

	defaultPrevented bool
}

// PreventDefault suppresses the host's default handling. It has no effect on
// events that are not cancelable.
func (e *InputEvent) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *InputEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// position returns the event position. ok is false for touch events that no
// longer carry any touch point (touchend, touchcancel).
func (e *InputEvent) position() (p Point, ok bool) {
	if e.Type.IsTouch() {
		if len(e.Touches) == 0 {
			return Point{}, false
		}
		return e.Touches[0], true
	}
	return Point{X: e.ClientX, Y: e.ClientY}, true
}

// Listener handles one input event.
type Listener func(*InputEvent)

// Source delivers input events to listeners. The returned func unregisters
// the listener and must be safe to call while events are being delivered.
type Source interface {
	Listen(t InputType, fn Listener) (remove func())
}

// Emitter publishes high-level swipe events on a target's event channel.
type Emitter interface {
	Emit(name string, detail any)
}

// Target is the element a recognizer is attached to.
type Target interface {
	Source
	Emitter
}
