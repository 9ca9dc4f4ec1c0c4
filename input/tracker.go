// Package input turns pointer and touch events into brush strokes on the
// drawing mask.
package input

import (
	"errors"

	"github.com/esimov/foggy-mirror/brush"
	"github.com/esimov/foggy-mirror/logger"
	"github.com/esimov/foggy-mirror/surface"
)

// ErrAttached is returned when a tracker is attached a second time.
var ErrAttached = errors.New("input: tracker already attached")

// DrawingState records whether the user is currently painting. There is a
// single flag per session, shared by every pointer.
type DrawingState struct {
	drawing bool
}

func (s *DrawingState) Drawing() bool { return s.drawing }
func (s *DrawingState) Set(on bool)   { s.drawing = on }

// Binder subscribes to a native event on the target element. The host
// translates every occurrence into an Event and hands it to Tracker.Handle.
type Binder interface {
	Bind(b Binding)
}

// Probe reports whether the host supports touch events.
type Probe func() bool

// DetectFamily runs the touch probe once. Hosts where the probe is missing
// or fails fall back to mouse events.
func DetectFamily(probe Probe) Family {
	if probe != nil && probe() {
		return Touch
	}
	return Mouse
}

// Tracker stamps the brush onto the drawing mask while the pointer is down.
type Tracker struct {
	state   *DrawingState
	brush   *brush.Stamp
	drawing *surface.Surface

	target   Target
	family   Family
	attached bool
}

// NewTracker returns a tracker painting with b onto drawing.
func NewTracker(state *DrawingState, b *brush.Stamp, drawing *surface.Surface) *Tracker {
	return &Tracker{
		state:   state,
		brush:   b,
		drawing: drawing,
	}
}

// Attach binds the events of a single family to the target. Touch and mouse
// are never bound together; the family is fixed for the tracker's lifetime.
func (t *Tracker) Attach(b Binder, target Target, family Family) error {
	if t.attached {
		return ErrAttached
	}
	for _, bd := range Bindings(family) {
		b.Bind(bd)
	}
	t.target = target
	t.family = family
	t.attached = true

	logger.Logger().Debug("input attached", "family", family.String())
	return nil
}

// Family returns the bound device family.
func (t *Tracker) Family() Family { return t.family }

// Handle applies ev to the drawing state and stamps the brush on move.
func (t *Tracker) Handle(ev *Event) {
	switch ev.Kind {
	case Down:
		t.state.Set(true)
	case Up, Cancel, Out, Leave:
		t.state.Set(false)
	case Move:
		if t.state.Drawing() {
			t.stroke(ev)
		}
	}
	ev.PreventDefault()
}

// stroke centers the brush horizontally on the pointer. The top edge sits
// on the pointer row: no vertical offset is applied.
func (t *Tracker) stroke(ev *Event) {
	x, y := ev.Position(t.target)
	t.brush.Stamp(t.drawing, x-t.brush.Size()/2, y)
}
