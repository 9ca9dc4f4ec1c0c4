package input

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esimov/foggy-mirror/brush"
	"github.com/esimov/foggy-mirror/surface"
)

type recordingBinder struct {
	names []string
}

func (r *recordingBinder) Bind(b Binding) { r.names = append(r.names, b.Name) }

// solidBrush returns a loaded brush of solid opaque round ink.
func solidBrush(size int) *brush.Stamp {
	b := brush.New(size)
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	b.Load(img)
	return b
}

func newTracker(t *testing.T, size int) (*Tracker, *DrawingState, *surface.Surface) {
	t.Helper()
	state := &DrawingState{}
	drawing := surface.New(300, 300)
	tr := NewTracker(state, solidBrush(size), drawing)
	require.NoError(t, tr.Attach(&recordingBinder{}, Target{}, Mouse))
	return tr, state, drawing
}

func TestDetectFamily(t *testing.T) {
	assert.Equal(t, Touch, DetectFamily(func() bool { return true }))
	assert.Equal(t, Mouse, DetectFamily(func() bool { return false }))
	assert.Equal(t, Mouse, DetectFamily(nil))
}

func TestAttachBindsOneFamily(t *testing.T) {
	for _, tc := range []struct {
		family Family
		want   []string
	}{
		{Touch, []string{"touchstart", "touchend", "touchcancel", "touchmove"}},
		{Mouse, []string{"mousemove", "mousedown", "mouseup", "mouseout", "mouseleave"}},
	} {
		t.Run(tc.family.String(), func(t *testing.T) {
			b := &recordingBinder{}
			tr := NewTracker(&DrawingState{}, brush.New(0), surface.New(1, 1))
			require.NoError(t, tr.Attach(b, Target{}, tc.family))
			assert.Equal(t, tc.want, b.names)
			assert.Equal(t, tc.family, tr.Family())

			assert.ErrorIs(t, tr.Attach(b, Target{}, tc.family), ErrAttached)
			assert.Len(t, b.names, len(tc.want))
		})
	}
}

func TestDrawingStateTransitions(t *testing.T) {
	tr, state, _ := newTracker(t, 10)

	for _, k := range []Kind{Up, Cancel, Out, Leave} {
		tr.Handle(&Event{Kind: Down})
		assert.True(t, state.Drawing())
		tr.Handle(&Event{Kind: k})
		assert.False(t, state.Drawing(), "after %v", k)
	}
}

func TestEveryEventIsPrevented(t *testing.T) {
	tr, _, _ := newTracker(t, 10)
	for _, k := range []Kind{Down, Move, Up, Cancel, Out, Leave} {
		ev := &Event{Kind: k, LayerX: 5, LayerY: 5}
		tr.Handle(ev)
		assert.True(t, ev.DefaultPrevented, "%v", k)
	}
}

func TestMoveWithoutDrawingLeavesMaskEmpty(t *testing.T) {
	tr, _, drawing := newTracker(t, 10)
	tr.Handle(&Event{Kind: Move, LayerX: 100, LayerY: 100})
	assert.Equal(t, make([]uint8, len(drawing.Pixels())), drawing.Pixels())
}

func TestBrushStampingOffsets(t *testing.T) {
	tr, _, drawing := newTracker(t, 50)

	tr.Handle(&Event{Kind: Down})
	tr.Handle(&Event{Kind: Move, LayerX: 100, LayerY: 100})

	img := drawing.Image()
	// Horizontally centred on x=100, top edge on y=100.
	assert.Equal(t, uint8(255), img.NRGBAAt(100, 101).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(76, 125).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(123, 125).A)
	assert.Equal(t, uint8(255), img.NRGBAAt(100, 140).A)
	assert.Zero(t, img.NRGBAAt(74, 125).A)
	assert.Zero(t, img.NRGBAAt(125, 125).A)
	assert.Zero(t, img.NRGBAAt(100, 99).A)
	assert.Zero(t, img.NRGBAAt(100, 150).A)
	// A vertically centred brush would have covered this pixel.
	assert.Zero(t, img.NRGBAAt(100, 80).A)
}

func TestStrokeOriginIsHalfABrushLeft(t *testing.T) {
	tr, _, drawing := newTracker(t, 50)

	tr.Handle(&Event{Kind: Down})
	tr.Handle(&Event{Kind: Move, LayerX: 100, LayerY: 100})

	// The stamp's top-left corner is (75,100). It is not (50,100): the
	// brush is shifted by half its size on x only, never by a full size.
	img := drawing.Image()
	assert.Equal(t, uint8(255), img.NRGBAAt(100, 125).A, "ink centre")
	assert.Zero(t, img.NRGBAAt(55, 125).A, "a stamp at (50,100) would cover this pixel")
	assert.Zero(t, img.NRGBAAt(60, 110).A, "a stamp at (50,100) would cover this pixel")

	inked := image.Rectangle{Min: image.Pt(300, 300)}
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			if img.NRGBAAt(x, y).A == 0 {
				continue
			}
			inked.Min.X = min(inked.Min.X, x)
			inked.Min.Y = min(inked.Min.Y, y)
			inked.Max.X = max(inked.Max.X, x+1)
			inked.Max.Y = max(inked.Max.Y, y+1)
		}
	}
	assert.Equal(t, image.Rect(75, 100, 125, 150), inked)
}

func TestMoveBeforeBrushLoadIsNoop(t *testing.T) {
	state := &DrawingState{}
	drawing := surface.New(50, 50)
	tr := NewTracker(state, brush.New(10), drawing)
	require.NoError(t, tr.Attach(&recordingBinder{}, Target{}, Touch))

	tr.Handle(&Event{Kind: Down})
	tr.Handle(&Event{Kind: Move, LayerX: 20, LayerY: 20})
	assert.Equal(t, make([]uint8, len(drawing.Pixels())), drawing.Pixels())
}

func TestPositionFallback(t *testing.T) {
	target := Target{OffsetLeft: 10, OffsetTop: 20}

	x, y := (&Event{LayerX: 5, LayerY: 6, PageX: 100, PageY: 100}).Position(target)
	assert.Equal(t, 5, x)
	assert.Equal(t, 6, y)

	x, y = (&Event{PageX: 100, PageY: 100}).Position(target)
	assert.Equal(t, 90, x)
	assert.Equal(t, 80, y)

	x, y = (&Event{LayerX: 7, PageX: 100, PageY: 100}).Position(target)
	assert.Equal(t, 7, x)
	assert.Equal(t, 80, y)
}

func TestPageCoordinatesStamp(t *testing.T) {
	state := &DrawingState{}
	drawing := surface.New(100, 100)
	tr := NewTracker(state, solidBrush(10), drawing)
	require.NoError(t, tr.Attach(&recordingBinder{}, Target{OffsetLeft: 20, OffsetTop: 30}, Mouse))

	tr.Handle(&Event{Kind: Down})
	tr.Handle(&Event{Kind: Move, PageX: 70, PageY: 80})
	// (70-20, 80-30) = (50, 50); brush spans x 45..54, y 50..59.
	assert.Equal(t, uint8(255), drawing.Image().NRGBAAt(46, 55).A)
	assert.Zero(t, drawing.Image().NRGBAAt(44, 55).A)
}
