// Package session binds the camera to the fog pipeline: it acquires the
// stream, sizes the layers, wires pointer input and drives the render loop.
//
// A session is owned by the goroutine running Run. Every other entry point
// (Dispatch, Notify, AdjustBlur, ...) posts a message to that goroutine, so
// the layers are never touched concurrently.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/esimov/foggy-mirror/brush"
	"github.com/esimov/foggy-mirror/fog"
	"github.com/esimov/foggy-mirror/input"
	"github.com/esimov/foggy-mirror/logger"
	"github.com/esimov/foggy-mirror/pixels"
	"github.com/esimov/foggy-mirror/render"
	"github.com/esimov/foggy-mirror/surface"
)

// ErrSourceAcquisition wraps every failure to obtain the camera stream.
var ErrSourceAcquisition = errors.New("failed initialising the camera")

// State is the session lifecycle state.
type State int32

const (
	AwaitingPermission State = iota
	AwaitingMetadata
	Playing
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingPermission:
		return "awaiting-permission"
	case AwaitingMetadata:
		return "awaiting-metadata"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Layer names passed to Display.Present.
const (
	LayerStage   = "stage"
	LayerDrawing = "drawing"
	LayerClean   = "clean"
)

// Session is one mirror instance.
type Session struct {
	id    string
	cfg   Config
	host  Host
	log   *slog.Logger
	state atomic.Int32

	inbox chan any
	done  chan struct{}

	// Owned by the Run goroutine.
	capture *surface.Surface
	layers  fog.Layers
	proc    *fog.Processor
	brush   *brush.Stamp
	drawing input.DrawingState
	tracker *input.Tracker
	loop    *render.Loop
	bound   bool
}

// New validates cfg and prepares an unsized session.
func New(cfg Config, host Host) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if host.Devices == nil || host.Video == nil {
		return nil, errors.New("session: host needs media devices and a video")
	}
	if host.Brush == nil {
		host.Brush = brush.InkLoader{Size: cfg.BrushSize}
	}

	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		host:    host,
		inbox:   make(chan any, 256),
		done:    make(chan struct{}),
		capture: surface.New(0, 0),
		layers:  fog.NewLayers(),
		brush:   brush.New(cfg.BrushSize),
	}
	s.log = logger.Logger().With("session", s.id)
	s.proc = fog.NewProcessor(s.layers, fog.StackBlur{}, cfg.BlurRadius)
	s.tracker = input.NewTracker(&s.drawing, s.brush, s.layers.Drawing)
	s.loop = render.NewLoop(host.Video, s.frame, render.FrameRate(cfg.FrameRate))

	return s, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle state. It is safe for concurrent use.
func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) {
	if prev := State(s.state.Swap(int32(st))); prev != st {
		s.log.Debug("session state", "from", prev.String(), "to", st.String())
	}
}

// Surfaces returns every surface sized to the video, by name. The
// surfaces belong to the Run goroutine; inspect them only once Run returned.
func (s *Session) Surfaces() map[string]*surface.Surface {
	return map[string]*surface.Surface{
		"capture":    s.capture,
		"fog":        s.layers.Fog,
		LayerDrawing: s.layers.Drawing,
		LayerClean:   s.layers.Clean,
		LayerStage:   s.layers.Stage,
	}
}

// Brush returns the session brush. Like Surfaces, it belongs to Run.
func (s *Session) Brush() *brush.Stamp { return s.brush }

type (
	streamResult struct {
		stream Stream
		err    error
	}
	brushLoaded struct {
		img image.Image
		err error
	}
	videoEvent struct{ ev VideoEvent }
	inputEvent struct{ ev input.Event }
	adjustBlur struct{ delta int }
	clearMask  struct{}
	pauseLoop  struct{}
	resumeLoop struct{}
)

type call struct {
	fn   func()
	done chan struct{}
}

// post hands msg to the Run goroutine. It gives up once the session is done.
func (s *Session) post(ctx context.Context, msg any) bool {
	select {
	case s.inbox <- msg:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// offer queues msg without blocking. Host callbacks call it directly, so
// messages keep the order the host produced them in. It reports false if
// the message was dropped because the inbox is full or the session ended.
func (s *Session) offer(msg any) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.inbox <- msg:
		return true
	default:
		s.log.Warn("inbox full, event dropped", "event", fmt.Sprintf("%T", msg))
		return false
	}
}

// Notify forwards a video element event. It never blocks and may be called
// from the host's event callbacks.
func (s *Session) Notify(ev VideoEvent) bool { return s.offer(videoEvent{ev}) }

// Dispatch forwards a pointer event from the stage. Like Notify, it never
// blocks.
func (s *Session) Dispatch(ev input.Event) bool { return s.offer(inputEvent{ev}) }

// AdjustBlur changes the fog blur radius by delta, within the allowed range.
func (s *Session) AdjustBlur(delta int) { s.post(context.Background(), adjustBlur{delta}) }

// ClearDrawing wipes the drawing mask, fogging the whole mirror again.
func (s *Session) ClearDrawing() { s.post(context.Background(), clearMask{}) }

// Pause suspends rendering until Resume.
func (s *Session) Pause() { s.post(context.Background(), pauseLoop{}) }

// Resume restarts rendering after Pause or after the video stopped.
func (s *Session) Resume() { s.post(context.Background(), resumeLoop{}) }

// do runs fn on the Run goroutine and waits for it to return. It reports
// false if the session ended first.
func (s *Session) do(fn func()) bool {
	c := call{fn: fn, done: make(chan struct{})}
	if !s.post(context.Background(), c) {
		return false
	}
	select {
	case <-c.done:
		return true
	case <-s.done:
		return false
	}
}

// Snapshot returns a copy of the stage as last composited.
func (s *Session) Snapshot() (*image.NRGBA, error) {
	var (
		snap *image.NRGBA
		err  error
	)
	ok := s.do(func() {
		stage := s.layers.Stage
		if stage.Empty() {
			err = fog.ErrNotReady
			return
		}
		snap, err = pixels.PixToImage(stage.Pixels(), stage.Width(), stage.Height())
	})
	if !ok {
		return nil, errors.New("session: not running")
	}
	return snap, err
}

// Run acquires the camera and processes events until ctx is done. A camera
// failure is reported to the host's ErrorPresenter once and returned
// wrapped in ErrSourceAcquisition; the pipeline never starts in that case.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	defer func() {
		cancel()
		close(s.done)
		_ = g.Wait()
	}()

	s.setState(AwaitingPermission)
	constraints := Constraints{Video: VideoConstraints{FacingMode: s.cfg.FacingMode}}

	g.Go(func() error {
		stream, err := s.host.Devices.GetUserMedia(gctx, constraints)
		s.post(gctx, streamResult{stream, err})
		return nil
	})
	g.Go(func() error {
		img, err := s.host.Brush.LoadBrush(gctx)
		s.post(gctx, brushLoaded{img, err})
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-s.inbox:
			if err := s.handle(msg); err != nil {
				return err
			}
		case <-s.loop.C():
			if err := s.loop.Tick(); err != nil {
				s.setState(Stopped)
				return err
			}
			if s.loop.State() == render.Stopped {
				s.setState(Stopped)
			}
		}
	}
}

func (s *Session) handle(msg any) error {
	switch m := msg.(type) {
	case streamResult:
		if m.err != nil {
			err := fmt.Errorf("%w: %v", ErrSourceAcquisition, m.err)
			s.setState(Failed)
			s.log.Error("camera unavailable", "error", m.err)
			if s.host.Errors != nil {
				s.host.Errors.PresentError(err)
			}
			return err
		}
		s.log.Info("camera granted")
		s.host.Video.SetSource(m.stream)
		s.setState(AwaitingMetadata)
	case brushLoaded:
		if m.err != nil {
			s.log.Warn("brush not loaded, strokes are ignored", "error", m.err)
			return nil
		}
		s.brush.Load(m.img)
	case videoEvent:
		s.handleVideo(m.ev)
	case inputEvent:
		if s.bound {
			s.tracker.Handle(&m.ev)
		}
	case adjustBlur:
		r := s.proc.SetRadius(s.proc.Radius() + m.delta)
		s.log.Debug("blur radius", "radius", r)
	case clearMask:
		s.layers.Drawing.Clear()
	case pauseLoop:
		if s.loop.Pause() {
			s.setState(Stopped)
		}
	case resumeLoop:
		if s.loop.Resume() {
			s.setState(Playing)
		}
	case call:
		m.fn()
		close(m.done)
	}
	return nil
}

func (s *Session) handleVideo(ev VideoEvent) {
	switch ev {
	case MetadataLoaded:
		if s.State() != AwaitingMetadata {
			return
		}
		if err := s.host.Video.Play(); err != nil {
			s.log.Warn("video play failed", "error", err)
		}
	case Play:
		if !s.bound {
			if s.State() == AwaitingMetadata {
				s.bind()
			}
			return
		}
		if s.loop.Resume() {
			s.setState(Playing)
		}
	case Pause, Ended:
		// The loop notices on its next tick.
		s.log.Info("video stopped", "event", ev.String())
	}
}

// bind sizes every surface to the stream, mirrors the fog and clean layers,
// attaches input to the stage and starts the loop. It runs once.
func (s *Session) bind() {
	w, h := s.host.Video.Width(), s.host.Video.Height()
	s.SyncDimensions(w, h)
	s.layers.Fog.ApplyMirror()
	s.layers.Clean.ApplyMirror()

	if s.host.Binder != nil {
		family := input.DetectFamily(s.host.TouchProbe)
		if err := s.tracker.Attach(s.host.Binder, s.host.Target, family); err != nil {
			s.log.Warn("input not attached", "error", err)
		}
	}
	s.bound = true
	s.loop.Start()
	s.setState(Playing)
	s.log.Info("mirror playing", "width", w, "height", h)
}

// SyncDimensions resizes the capture, fog, drawing, clean and stage
// surfaces to width×height, clearing them. It must run on the Run
// goroutine, or before Run starts.
func (s *Session) SyncDimensions(width, height int) {
	for _, sf := range []*surface.Surface{s.capture, s.layers.Fog, s.layers.Drawing, s.layers.Clean, s.layers.Stage} {
		sf.Resize(width, height)
	}
}

// frame is the render loop callback.
func (s *Session) frame() error {
	if s.capture.Empty() {
		return nil
	}
	if err := s.host.Video.Frame(s.capture); err != nil {
		return fmt.Errorf("failed grabbing the video frame: %w", err)
	}
	err := s.proc.Process(s.capture.Image())
	if errors.Is(err, fog.ErrNotReady) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.host.Display != nil {
		s.host.Display.Present(LayerStage, s.layers.Stage)
		if s.cfg.Debug {
			s.host.Display.Present(LayerDrawing, s.layers.Drawing)
			s.host.Display.Present(LayerClean, s.layers.Clean)
		}
	}
	return nil
}
