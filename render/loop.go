// Package render drives the frame pipeline at a fixed cadence.
package render

import (
	"context"
	"time"

	"github.com/esimov/foggy-mirror/logger"
)

// DefaultInterval is the delay between two frames: 30 frames per second.
const DefaultInterval = time.Second / 30

// State is the loop state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Source reports the playback status of the video feeding the loop.
type Source interface {
	Paused() bool
	Ended() bool
}

// FrameFunc renders one frame.
type FrameFunc func() error

// Loop schedules FrameFunc invocations with a fixed delay between the end
// of a frame and the start of the next. The loop is not safe for concurrent
// use: a single goroutine owns it and receives from C.
type Loop struct {
	interval time.Duration
	source   Source
	frame    FrameFunc

	state State
	timer *time.Timer
	armed bool
	ticks int
}

// NewLoop returns an idle loop. A non-positive interval selects DefaultInterval.
func NewLoop(src Source, frame FrameFunc, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		source:   src,
		frame:    frame,
	}
}

// FrameRate converts a frame rate to the loop interval.
func FrameRate(fps int) time.Duration {
	if fps <= 0 {
		return DefaultInterval
	}
	return time.Second / time.Duration(fps)
}

func (l *Loop) State() State            { return l.state }
func (l *Loop) Interval() time.Duration { return l.interval }

// Ticks returns the number of frames rendered so far.
func (l *Loop) Ticks() int { return l.ticks }

// C fires when the next frame is due. It is nil while nothing is scheduled,
// which blocks forever in a select.
func (l *Loop) C() <-chan time.Time {
	if !l.armed {
		return nil
	}
	return l.timer.C
}

// Start moves an idle loop to Running and schedules the first frame
// immediately. It reports false if the loop was not idle.
func (l *Loop) Start() bool {
	if l.state != Idle {
		return false
	}
	l.state = Running
	l.schedule(0)

	logger.Logger().Debug("render loop started", "interval", l.interval)
	return true
}

// Pause suspends a running loop. The pending frame is cancelled.
func (l *Loop) Pause() bool {
	if l.state != Running {
		return false
	}
	l.disarm()
	l.state = Paused
	return true
}

// Resume restarts a paused or stopped loop with an immediate frame.
func (l *Loop) Resume() bool {
	if l.state != Paused && l.state != Stopped {
		return false
	}
	l.state = Running
	l.schedule(0)

	logger.Logger().Debug("render loop resumed")
	return true
}

// Tick handles a receive from C. When the source is paused or ended the
// loop stops without rescheduling. Otherwise the frame is rendered and the
// next one is scheduled once it returns.
func (l *Loop) Tick() error {
	l.armed = false
	if l.state != Running {
		return nil
	}
	if l.source.Paused() || l.source.Ended() {
		l.state = Stopped
		logger.Logger().Debug("render loop stopped", "ticks", l.ticks)
		return nil
	}
	l.ticks++
	if err := l.frame(); err != nil {
		return err
	}
	l.schedule(l.interval)
	return nil
}

// Run drives the loop from the calling goroutine until it stops, the frame
// function fails or ctx is done. An idle loop is started first.
func (l *Loop) Run(ctx context.Context) error {
	l.Start()
	defer l.disarm()

	for l.state == Running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.C():
			if err := l.Tick(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loop) schedule(d time.Duration) {
	if l.timer == nil {
		l.timer = time.NewTimer(d)
	} else {
		l.disarm()
		l.timer.Reset(d)
	}
	l.armed = true
}

func (l *Loop) disarm() {
	if l.timer == nil {
		return
	}
	if !l.timer.Stop() && l.armed {
		select {
		case <-l.timer.C:
		default:
		}
	}
	l.armed = false
}
