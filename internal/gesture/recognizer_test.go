package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	name   string
	detail any
}

type recorder struct {
	events []emitted
}

func (r *recorder) Emit(name string, detail any) {
	r.events = append(r.events, emitted{name, detail})
}

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.name)
	}
	return out
}

func (r *recorder) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e.name == name {
			n++
		}
	}
	return n
}

type fixture struct {
	rec    *recorder
	window *Element
	target *Element
	handle *Handle
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	rec := &recorder{}
	window := NewElement(nil, nil)
	target := NewElement(rec, window)
	return &fixture{
		rec:    rec,
		window: window,
		target: target,
		handle: Attach(target, window, cfg),
	}
}

func pointer(t InputType, x, y float64) *InputEvent {
	return &InputEvent{Type: t, ClientX: x, ClientY: y, Cancelable: true}
}

func touch(t InputType, pts ...Point) *InputEvent {
	return &InputEvent{Type: t, Touches: pts, Cancelable: true}
}

func (f *fixture) down(x, y float64) { f.target.Dispatch(pointer(PointerDown, x, y)) }

func (f *fixture) move(x, y float64) *InputEvent {
	ev := pointer(PointerMove, x, y)
	f.window.Dispatch(ev)
	return ev
}

func (f *fixture) up(x, y float64) { f.window.Dispatch(pointer(PointerUp, x, y)) }

func TestRecognizer_StartMoveEnd(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(100, 100)
	assert.True(t, f.handle.State().Active)

	ev := f.move(110, 102)
	f.move(130, 104)
	f.up(130, 104)

	assert.Equal(t, []string{EventStart, EventMove, EventMove, EventEnd}, f.rec.names())
	assert.Equal(t, Start{X: 100, Y: 100}, f.rec.events[0].detail)
	assert.Equal(t, Move{X: 110, Y: 102, DX: 10, DY: 2}, f.rec.events[1].detail)
	assert.Equal(t, Move{X: 130, Y: 104, DX: 30, DY: 4}, f.rec.events[2].detail)
	assert.Equal(t, End{X: 130, Y: 104}, f.rec.events[3].detail)
	assert.True(t, ev.DefaultPrevented())
	assert.False(t, f.handle.State().Active)
}

func TestRecognizer_NoMoveBelowMinDistance(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(0, 0)
	ev := f.move(5, 0) // not strictly greater than 5
	f.up(5, 0)

	assert.Equal(t, []string{EventStart, EventEnd}, f.rec.names())
	assert.False(t, ev.DefaultPrevented())
}

func TestRecognizer_TieLocksHorizontal(t *testing.T) {
	f := newFixture(t, Config{MinDistancePx: 5})

	f.down(0, 0)
	f.move(6, 6)

	assert.Equal(t, Horizontal, f.handle.State().Axis)
	assert.Equal(t, 1, f.rec.count(EventMove))
}

func TestRecognizer_VerticalLockIsStable(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(0, 0)
	ev := f.move(2, 8)
	assert.Equal(t, Vertical, f.handle.State().Axis)

	// horizontal distance overtakes vertical, even past the threshold
	f.move(50, 9)
	f.move(150, 10)
	f.up(150, 10)

	assert.Equal(t, []string{EventStart, EventEnd}, f.rec.names())
	assert.False(t, ev.DefaultPrevented(), "vertical gestures keep default scrolling")
}

func TestRecognizer_ThresholdEndsGesture(t *testing.T) {
	f := newFixture(t, Config{ThresholdDistancePx: 100})

	f.down(0, 0)
	f.move(50, 0)
	f.move(101, 3)
	f.move(140, 3)
	f.move(160, 3)
	f.up(160, 3)

	assert.Equal(t, []string{EventStart, EventMove, EventMove, EventThreshold, EventEnd}, f.rec.names())
	assert.Equal(t, Threshold{Direction: 1}, f.rec.events[3].detail)
	assert.Equal(t, End{X: 101, Y: 3}, f.rec.events[4].detail)
	assert.Equal(t, 0, f.window.ListenerCount(PointerMove), "scope listeners removed at threshold")
}

func TestRecognizer_ThresholdLeftward(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(300, 0)
	f.move(150, 0)

	require.Equal(t, 1, f.rec.count(EventThreshold))
	assert.Equal(t, Threshold{Direction: -1}, f.rec.events[2].detail)
}

func TestRecognizer_EndWithoutStartIsNoop(t *testing.T) {
	f := newFixture(t, Config{AlwaysListen: true})

	f.up(10, 10)
	f.move(50, 0)
	f.window.Dispatch(touch(TouchCancel))

	assert.Empty(t, f.rec.events)
}

func TestRecognizer_IgnoresSecondaryButton(t *testing.T) {
	f := newFixture(t, Config{})

	ev := pointer(PointerDown, 0, 0)
	ev.Button = 2
	f.target.Dispatch(ev)

	assert.Empty(t, f.rec.events)
	assert.False(t, f.handle.State().Active)
}

func TestRecognizer_StartOutsideTargetIgnored(t *testing.T) {
	f := newFixture(t, Config{})

	f.window.Dispatch(pointer(PointerDown, 0, 0))
	f.move(50, 0)

	assert.Empty(t, f.rec.events)
}

func TestRecognizer_Touch(t *testing.T) {
	f := newFixture(t, Config{})

	f.target.Dispatch(touch(TouchStart, Point{X: 10, Y: 10}))
	f.window.Dispatch(touch(TouchMove, Point{X: 40, Y: 12}))
	f.window.Dispatch(touch(TouchEnd))

	assert.Equal(t, []string{EventStart, EventMove, EventEnd}, f.rec.names())
	assert.Equal(t, End{X: 40, Y: 12}, f.rec.events[2].detail, "touchend reports the last tracked position")
}

func TestRecognizer_NotCancelable(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(0, 0)
	ev := pointer(PointerMove, 20, 0)
	ev.Cancelable = false
	f.window.Dispatch(ev)

	assert.Equal(t, 1, f.rec.count(EventMove))
	assert.False(t, ev.DefaultPrevented())
}

func TestRecognizer_ListenerLifecycle(t *testing.T) {
	t.Run("per gesture", func(t *testing.T) {
		f := newFixture(t, Config{})
		assert.Equal(t, 0, f.window.ListenerCount(PointerMove))

		f.down(0, 0)
		assert.Equal(t, 1, f.window.ListenerCount(PointerMove))
		assert.Equal(t, 1, f.window.ListenerCount(TouchCancel))

		f.up(0, 0)
		assert.Equal(t, 0, f.window.ListenerCount(PointerMove))
		assert.Equal(t, 0, f.window.ListenerCount(TouchCancel))
	})

	t.Run("always listen", func(t *testing.T) {
		f := newFixture(t, Config{AlwaysListen: true})
		assert.Equal(t, 1, f.window.ListenerCount(TouchMove))

		f.down(0, 0)
		f.up(0, 0)
		assert.Equal(t, 1, f.window.ListenerCount(TouchMove))

		f.handle.Detach()
		assert.Equal(t, 0, f.window.ListenerCount(TouchMove))
		assert.Equal(t, 0, f.target.ListenerCount(PointerDown))
	})

	t.Run("repeated start keeps one listener set", func(t *testing.T) {
		f := newFixture(t, Config{})
		f.down(0, 0)
		f.down(5, 5)
		assert.Equal(t, 1, f.window.ListenerCount(PointerMove))
	})
}

func TestRecognizer_Detach(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(0, 0)
	f.handle.Detach()
	f.move(50, 0)
	f.up(50, 0)
	f.down(0, 0)
	f.handle.Detach()

	assert.Equal(t, []string{EventStart}, f.rec.names())
	assert.Equal(t, 0, f.window.ListenerCount(PointerMove))
}

func TestRecognizer_UpdateConfigAppliesToActiveGesture(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(0, 0)
	f.move(20, 0)
	f.handle.UpdateConfig(Config{ThresholdDistancePx: 30})
	f.move(31, 0)

	assert.Equal(t, 1, f.rec.count(EventThreshold))
	assert.Equal(t, float64(DefaultMinDistancePx), f.handle.Config().MinDistancePx)
}

func TestRecognizer_UpdateConfigKeepsListeningMode(t *testing.T) {
	f := newFixture(t, Config{AlwaysListen: true})

	f.handle.UpdateConfig(Config{MinDistancePx: 10})

	assert.True(t, f.handle.Config().AlwaysListen)
	assert.Equal(t, float64(10), f.handle.Config().MinDistancePx)
}

func TestRecognizer_IndependentAttachments(t *testing.T) {
	window := NewElement(nil, nil)
	recA, recB := &recorder{}, &recorder{}
	a := NewElement(recA, window)
	b := NewElement(recB, window)
	Attach(a, window, Config{})
	Attach(b, window, Config{})

	a.Dispatch(pointer(PointerDown, 0, 0))
	window.Dispatch(pointer(PointerMove, 20, 0))
	window.Dispatch(pointer(PointerUp, 20, 0))

	assert.Equal(t, []string{EventStart, EventMove, EventEnd}, recA.names())
	assert.Empty(t, recB.events)
}

func TestAttach_NilScopeUsesTarget(t *testing.T) {
	rec := &recorder{}
	target := NewElement(rec, nil)
	Attach(target, nil, Config{})

	target.Dispatch(pointer(PointerDown, 0, 0))
	target.Dispatch(pointer(PointerMove, 20, 0))
	target.Dispatch(pointer(PointerLeave, 20, 0))

	assert.Equal(t, []string{EventStart, EventMove, EventEnd}, rec.names())
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "unlocked", Unlocked.String())
	assert.Equal(t, "horizontal", Horizontal.String())
	assert.Equal(t, "vertical", Vertical.String())
}

func TestElement_PointerLeaveDoesNotBubble(t *testing.T) {
	window := NewElement(nil, nil)
	target := NewElement(nil, window)

	var reached []string
	target.Listen(PointerLeave, func(*InputEvent) { reached = append(reached, "target") })
	window.Listen(PointerLeave, func(*InputEvent) { reached = append(reached, "window") })
	window.Listen(PointerUp, func(*InputEvent) { reached = append(reached, "window-up") })

	target.Dispatch(pointer(PointerLeave, 0, 0))
	target.Dispatch(pointer(PointerUp, 0, 0))

	assert.Equal(t, []string{"target", "window-up"}, reached)
}

func TestRecognizer_LeavingTargetKeepsGesture(t *testing.T) {
	f := newFixture(t, Config{})

	f.down(100, 100)
	f.move(120, 100)
	f.target.Dispatch(pointer(PointerLeave, 130, 100))
	assert.True(t, f.handle.State().Active)

	f.window.Dispatch(pointer(PointerLeave, 140, 100))
	assert.False(t, f.handle.State().Active)
	assert.Equal(t, []string{EventStart, EventMove, EventEnd}, f.rec.names())
	assert.Equal(t, End{X: 140, Y: 100}, f.rec.events[2].detail)
}
