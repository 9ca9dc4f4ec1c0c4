package input

// Kind classifies a pointer event independently of the device that produced it.
type Kind int

const (
	Down Kind = iota
	Up
	Cancel
	Out
	Leave
	Move
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	case Out:
		return "out"
	case Leave:
		return "leave"
	case Move:
		return "move"
	}
	return "unknown"
}

// Family is the device family the tracker listens to.
type Family int

const (
	Mouse Family = iota
	Touch
)

func (f Family) String() string {
	if f == Touch {
		return "touch"
	}
	return "mouse"
}

// Binding maps a native event name to the Kind it is translated to.
type Binding struct {
	Name string
	Kind Kind
}

var (
	touchBindings = []Binding{
		{"touchstart", Down},
		{"touchend", Up},
		{"touchcancel", Cancel},
		{"touchmove", Move},
	}
	mouseBindings = []Binding{
		{"mousemove", Move},
		{"mousedown", Down},
		{"mouseup", Up},
		{"mouseout", Out},
		{"mouseleave", Leave},
	}
)

// Bindings returns the native events listened to for the family.
func Bindings(f Family) []Binding {
	if f == Touch {
		return append([]Binding(nil), touchBindings...)
	}
	return append([]Binding(nil), mouseBindings...)
}

// Event is a pointer event as delivered by the host.
//
// LayerX/LayerY are relative to the target layer and are preferred when
// non-zero. PageX/PageY are relative to the page and are corrected by the
// target offset otherwise.
type Event struct {
	Kind           Kind
	LayerX, LayerY int
	PageX, PageY   int

	// DefaultPrevented is set once the tracker has handled the event.
	DefaultPrevented bool
}

// PreventDefault suppresses the host's default action for the event.
func (e *Event) PreventDefault() { e.DefaultPrevented = true }

// Target describes the element the tracker is attached to.
type Target struct {
	OffsetLeft, OffsetTop int
}

// Position resolves the event coordinates relative to the target origin.
// Each axis falls back to page coordinates when the layer coordinate is zero.
func (e *Event) Position(t Target) (x, y int) {
	x, y = e.LayerX, e.LayerY
	if x == 0 {
		x = e.PageX - t.OffsetLeft
	}
	if y == 0 {
		y = e.PageY - t.OffsetTop
	}
	return x, y
}
