//go:build js && wasm

// Package mirror runs the foggy mirror in the browser. It implements the
// session collaborators on top of the DOM: the webcam video element, the
// stage canvas, pointer events and the fallback message.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"syscall/js"

	"github.com/esimov/foggy-mirror/logger"
	"github.com/esimov/foggy-mirror/session"
)

// Canvas holds the Javascript objects the mirror draws to and listens on.
type Canvas struct {
	// DOM elements
	window    js.Value
	doc       js.Value
	body      js.Value
	container js.Value
	oops      js.Value

	// Canvas properties
	stage    js.Value
	stageCtx js.Value
	debug    map[string]js.Value

	// Webcam properties
	video *video

	cfg     session.Config
	session *session.Session
	funcs   []js.Func
}

// NewCanvas looks up the page elements and prepares the session. The stage
// canvas is #stage when the page provides one, otherwise it is created.
func NewCanvas() (*Canvas, error) {
	var c Canvas
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.body = c.doc.Get("body")
	c.container = c.query("#mirror")
	c.oops = c.query(".oh-no")

	c.stage = c.query("#stage")
	if c.stage.IsNull() {
		c.stage = c.doc.Call("createElement", "canvas")
		c.stage.Set("id", "stage")
		c.body.Call("appendChild", c.stage)
	}
	c.stageCtx = c.stage.Call("getContext", "2d")

	search := strings.TrimPrefix(c.window.Get("location").Get("search").String(), "?")
	q, err := url.ParseQuery(search)
	if err != nil {
		return &c, fmt.Errorf("invalid query string: %w", err)
	}
	c.cfg, err = session.FromQuery(q)
	if err != nil {
		return &c, err
	}
	c.installLogger()

	c.debug = make(map[string]js.Value)
	if c.cfg.Debug {
		for _, name := range []string{session.LayerDrawing, session.LayerClean} {
			cv := c.doc.Call("createElement", "canvas")
			cv.Set("id", name)
			c.body.Call("appendChild", cv)
			c.debug[name] = cv
		}
	}
	c.video = newVideo(&c)

	c.session, err = session.New(c.cfg, session.Host{
		Devices:    &c,
		Video:      c.video,
		Display:    &c,
		Errors:     &c,
		Binder:     &c,
		Target:     c.target(),
		TouchProbe: c.touchSupported,
		Brush:      c.brushLoader(),
	})
	if err != nil {
		return &c, err
	}
	return &c, nil
}

// Run starts the webcam and blocks until ctx is done or the camera fails.
func (c *Canvas) Run(ctx context.Context) error {
	defer c.release()

	c.detectKeyPress()
	return c.session.Run(ctx)
}

// PresentError hides the mirror and shows the fallback message.
func (c *Canvas) PresentError(err error) {
	c.Log(err.Error())
	if c.oops.IsNull() || c.container.IsNull() {
		c.Alert("Webcam not detected!")
		return
	}
	c.oops.Call("removeAttribute", "hidden")
	c.container.Call("setAttribute", "hidden", "")
}

// detectKeyPress listen for the keypress event and retrieves the key code.
func (c *Canvas) detectKeyPress() {
	keyEventHandler := c.funcOf(func(this js.Value, args []js.Value) interface{} {
		keyCode := args[0].Get("key")
		switch keyCode.String() {
		case "]":
			go c.session.AdjustBlur(1)
		case "[":
			go c.session.AdjustBlur(-1)
		case "c":
			go c.session.ClearDrawing()
		case "p":
			if c.session.State() == session.Playing {
				go c.session.Pause()
			} else {
				go c.session.Resume()
			}
		case "s":
			go c.snapshot()
		}
		return nil
	})
	c.doc.Call("addEventListener", "keypress", keyEventHandler)
}

func (c *Canvas) query(sel string) js.Value {
	return c.doc.Call("querySelector", sel)
}

// funcOf wraps fn and keeps it for release once the mirror stops.
func (c *Canvas) funcOf(fn func(this js.Value, args []js.Value) interface{}) js.Func {
	f := js.FuncOf(fn)
	c.funcs = append(c.funcs, f)
	return f
}

func (c *Canvas) release() {
	for _, f := range c.funcs {
		f.Release()
	}
	c.funcs = nil
}

func (c *Canvas) installLogger() {
	level := slog.LevelInfo
	if c.cfg.Debug {
		level = slog.LevelDebug
	}
	w := consoleWriter{console: c.window.Get("console")}
	logger.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// consoleWriter sends every write to console.log.
type consoleWriter struct {
	console js.Value
}

func (w consoleWriter) Write(p []byte) (int, error) {
	w.console.Call("log", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Log calls the `console.log` Javascript function
func (c *Canvas) Log(args ...interface{}) {
	c.window.Get("console").Call("log", args...)
}

// Alert calls the `alert` Javascript function
func (c *Canvas) Alert(args ...interface{}) {
	alert := c.window.Get("alert")
	alert.Invoke(args...)
}
