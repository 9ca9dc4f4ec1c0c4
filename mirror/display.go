//go:build js && wasm

package mirror

import (
	"syscall/js"

	"github.com/esimov/foggy-mirror/input"
	"github.com/esimov/foggy-mirror/session"
	"github.com/esimov/foggy-mirror/surface"
)

// Present paints the surface onto the canvas registered under name. The
// canvas follows the surface dimensions.
func (c *Canvas) Present(name string, s *surface.Surface) {
	cv, ctx := c.stage, c.stageCtx
	if name != session.LayerStage {
		var ok bool
		if cv, ok = c.debug[name]; !ok {
			return
		}
		ctx = cv.Call("getContext", "2d")
	}
	width, height := s.Width(), s.Height()
	if width == 0 || height == 0 {
		return
	}
	if cv.Get("width").Int() != width || cv.Get("height").Int() != height {
		cv.Set("width", width)
		cv.Set("height", height)
	}

	pixels := s.Pixels()
	uint8Arr := js.Global().Get("Uint8Array").New(len(pixels))
	js.CopyBytesToJS(uint8Arr, pixels)
	uint8Clamped := js.Global().Get("Uint8ClampedArray").New(uint8Arr)
	rawData := js.Global().Get("ImageData").New(uint8Clamped, width, height)
	ctx.Call("putImageData", rawData, 0, 0)
}

// Bind listens for the native pointer event on the stage canvas and hands
// the translated event to the session.
func (c *Canvas) Bind(b input.Binding) {
	kind := b.Kind
	handler := c.funcOf(func(this js.Value, args []js.Value) interface{} {
		e := args[0]
		e.Call("preventDefault")

		ev := input.Event{Kind: kind}
		if touches := e.Get("touches"); !touches.IsUndefined() {
			// touchend and touchcancel carry no active touch.
			if touches.Length() > 0 {
				t := touches.Index(0)
				ev.PageX, ev.PageY = t.Get("pageX").Int(), t.Get("pageY").Int()
			}
		} else {
			ev.LayerX, ev.LayerY = intProp(e, "layerX"), intProp(e, "layerY")
			ev.PageX, ev.PageY = e.Get("pageX").Int(), e.Get("pageY").Int()
		}
		c.session.Dispatch(ev)
		return nil
	})
	c.stage.Call("addEventListener", b.Name, handler)
}

func (c *Canvas) target() input.Target {
	return input.Target{
		OffsetLeft: c.stage.Get("offsetLeft").Int(),
		OffsetTop:  c.stage.Get("offsetTop").Int(),
	}
}

// touchSupported tries to create a touch event. Browsers without touch
// support throw, which is reported as false.
func (c *Canvas) touchSupported() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	c.doc.Call("createEvent", "TouchEvent")
	return true
}

func intProp(v js.Value, name string) int {
	p := v.Get(name)
	if p.Type() != js.TypeNumber {
		return 0
	}
	return p.Int()
}
