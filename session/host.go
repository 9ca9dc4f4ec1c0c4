package session

import (
	"context"

	"github.com/esimov/foggy-mirror/brush"
	"github.com/esimov/foggy-mirror/input"
	"github.com/esimov/foggy-mirror/surface"
)

// Constraints is the media request sent to the host, mirroring the
// getUserMedia constraints object.
type Constraints struct {
	Video VideoConstraints
	Audio bool
}

type VideoConstraints struct {
	FacingMode string
}

// Stream is an opaque camera stream handle produced by MediaDevices and
// consumed by Video.
type Stream any

// MediaDevices grants access to the camera.
type MediaDevices interface {
	GetUserMedia(ctx context.Context, c Constraints) (Stream, error)
}

// VideoEvent is a playback notification emitted by the video element.
type VideoEvent int

const (
	MetadataLoaded VideoEvent = iota
	Play
	Pause
	Ended
)

func (e VideoEvent) String() string {
	switch e {
	case MetadataLoaded:
		return "loadedmetadata"
	case Play:
		return "play"
	case Pause:
		return "pause"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// Video is the element the camera stream plays in.
type Video interface {
	SetSource(s Stream)
	Play() error
	// Width and Height are the native stream dimensions, valid once
	// the metadata has loaded.
	Width() int
	Height() int
	Paused() bool
	Ended() bool
	// Frame draws the current frame into dst at its native resolution.
	Frame(dst *surface.Surface) error
}

// Display shows a layer to the user. The stage is presented after every
// frame; the drawing and clean layers only in debug mode.
type Display interface {
	Present(name string, s *surface.Surface)
}

// ErrorPresenter shows the fallback UI when the mirror cannot start.
type ErrorPresenter interface {
	PresentError(err error)
}

// Host bundles the collaborators a session runs against.
type Host struct {
	Devices MediaDevices
	Video   Video
	Display Display
	Errors  ErrorPresenter

	// Binder subscribes pointer events on the stage; Target is the stage
	// element's page offset.
	Binder input.Binder
	Target input.Target
	// TouchProbe detects touch support. Nil selects mouse events.
	TouchProbe input.Probe

	// Brush loads the ink image. Nil selects the built-in ink.
	Brush brush.Loader
}
