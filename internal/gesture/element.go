package gesture

// Element is an in-memory event target. Input dispatched to an element
// reaches its own listeners first and then bubbles to its parent, the way a
// DOM element bubbles to the window.
type Element struct {
	parent    *Element
	emitter   Emitter
	listeners map[InputType][]*listener
}

type listener struct {
	fn      Listener
	removed bool
}

// NewElement creates an element whose emitted events go to emitter. Either
// argument may be nil.
func NewElement(emitter Emitter, parent *Element) *Element {
	return &Element{
		parent:    parent,
		emitter:   emitter,
		listeners: make(map[InputType][]*listener),
	}
}

// Listen registers fn for events of type t.
func (e *Element) Listen(t InputType, fn Listener) func() {
	l := &listener{fn: fn}
	e.listeners[t] = append(e.listeners[t], l)

	return func() {
		if l.removed {
			return
		}
		l.removed = true
		kept := e.listeners[t][:0]
		for _, other := range e.listeners[t] {
			if other != l {
				kept = append(kept, other)
			}
		}
		e.listeners[t] = kept
	}
}

// ListenerCount returns the number of listeners registered for t.
func (e *Element) ListenerCount(t InputType) int {
	return len(e.listeners[t])
}

// Dispatch delivers ev to the element's listeners and then to its ancestors.
// pointerleave does not bubble. Listeners removed during delivery are skipped.
func (e *Element) Dispatch(ev *InputEvent) {
	for el := e; el != nil; el = el.parent {
		if el != e && !ev.Type.Bubbles() {
			break
		}
		snapshot := append([]*listener(nil), el.listeners[ev.Type]...)
		for _, l := range snapshot {
			if !l.removed {
				l.fn(ev)
			}
		}
	}
}

// Emit forwards a swipe event to the element's emitter.
func (e *Element) Emit(name string, detail any) {
	if e.emitter != nil {
		e.emitter.Emit(name, detail)
	}
}
