//go:build js && wasm

package mirror

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/esimov/foggy-mirror/session"
	"github.com/esimov/foggy-mirror/surface"
)

// GetUserMedia asks the browser for the webcam stream. It blocks until the
// returned promise settles or ctx is done.
func (c *Canvas) GetUserMedia(ctx context.Context, cons session.Constraints) (session.Stream, error) {
	succCh := make(chan js.Value, 1)
	errCh := make(chan error, 1)

	success := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		succCh <- args[0]
		return nil
	})
	defer success.Release()

	failure := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		errCh <- fmt.Errorf("getUserMedia: %s", args[0].Call("toString").String())
		return nil
	})
	defer failure.Release()

	devices := c.window.Get("navigator").Get("mediaDevices")
	if devices.IsUndefined() {
		return nil, fmt.Errorf("getUserMedia: media devices not available")
	}

	opts := js.Global().Get("Object").New()
	videoOpts := js.Global().Get("Object").New()
	videoOpts.Set("facingMode", cons.Video.FacingMode)
	opts.Set("video", videoOpts)
	opts.Set("audio", cons.Audio)

	promise := devices.Call("getUserMedia", opts)
	promise.Call("then", success, failure)

	select {
	case stream := <-succCh:
		return stream, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// video wraps the <video> element the webcam stream plays in.
type video struct {
	c  *Canvas
	el js.Value

	// Scratch canvas the current frame is drawn to before reading it back.
	scratch    js.Value
	scratchCtx js.Value
	data       []byte
}

func newVideo(c *Canvas) *video {
	v := &video{c: c}
	v.el = c.query("video")
	if v.el.IsNull() {
		v.el = c.doc.Call("createElement", "video")
		// If we don't do this, the stream will not be played.
		v.el.Set("autoplay", 1)
		v.el.Set("playsinline", 1) // important for iPhones
		v.el.Set("width", 0)
		v.el.Set("height", 0)
		c.body.Call("appendChild", v.el)
	}
	v.el.Set("muted", true)

	v.scratch = c.doc.Call("createElement", "canvas")
	v.scratchCtx = v.scratch.Call("getContext", "2d", map[string]interface{}{"willReadFrequently": true})

	events := map[string]session.VideoEvent{
		"loadedmetadata": session.MetadataLoaded,
		"play":           session.Play,
		"pause":          session.Pause,
		"ended":          session.Ended,
	}
	for name, ev := range events {
		ev := ev
		v.el.Call("addEventListener", name, c.funcOf(func(this js.Value, args []js.Value) interface{} {
			c.session.Notify(ev)
			return nil
		}))
	}
	return v
}

func (v *video) SetSource(s session.Stream) {
	v.el.Set("srcObject", s.(js.Value))
}

func (v *video) Play() error {
	v.el.Call("play")
	return nil
}

func (v *video) Width() int   { return v.el.Get("videoWidth").Int() }
func (v *video) Height() int  { return v.el.Get("videoHeight").Int() }
func (v *video) Paused() bool { return v.el.Get("paused").Bool() }
func (v *video) Ended() bool  { return v.el.Get("ended").Bool() }

// Frame draws the current video frame into dst.
func (v *video) Frame(dst *surface.Surface) error {
	width, height := dst.Width(), dst.Height()
	if v.scratch.Get("width").Int() != width || v.scratch.Get("height").Int() != height {
		v.scratch.Set("width", width)
		v.scratch.Set("height", height)
		v.data = make([]byte, width*height*4)
	}
	v.scratchCtx.Call("drawImage", v.el, 0, 0, width, height)
	rgba := v.scratchCtx.Call("getImageData", 0, 0, width, height).Get("data")

	// Convert the rgba value of type Uint8ClampedArray to Uint8Array in order to
	// be able to transfer it from Javascript to Go via the js.CopyBytesToGo function.
	uint8Arr := js.Global().Get("Uint8Array").New(rgba.Get("buffer"))
	js.CopyBytesToGo(v.data, uint8Arr)

	return dst.WritePixels(v.data)
}
