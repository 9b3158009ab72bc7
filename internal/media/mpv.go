package media

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gen2brain/go-mpv"
)

// MPVEngine drives a libmpv instance. mpv paints into its own window, so
// Frame always returns nil and the compositor draws background only; the
// scrub loop still owns the playback position.
type MPVEngine struct {
	m    *mpv.Mpv
	path string

	mu     sync.Mutex
	loaded bool
	closed bool

	events chan Event
	stop   chan struct{}
}

func NewMPVEngine(path string) (*MPVEngine, error) {
	m := mpv.New()

	m.SetOptionString("pause", "yes")
	m.SetOptionString("keep-open", "yes")
	m.SetOptionString("hr-seek", "yes")
	m.SetOptionString("osc", "no")
	m.SetOptionString("input-default-bindings", "no")

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize mpv: %w", err)
	}

	e := &MPVEngine{
		m:      m,
		path:   path,
		events: make(chan Event, 16),
		stop:   make(chan struct{}),
	}
	go e.pump()
	return e, nil
}

// pump translates mpv events into engine notifications.
func (e *MPVEngine) pump() {
	for {
		select {
		case <-e.stop:
			return
		default:
		}

		ev := e.m.WaitEvent(0.1)
		if ev == nil {
			continue
		}
		switch ev.EventID {
		case mpv.EventFileLoaded:
			e.mu.Lock()
			e.loaded = true
			e.mu.Unlock()
			emit(e.events, Event{Kind: EventLoadedData})
		case mpv.EventPlaybackRestart:
			// Fires once decoding resumes at the new position, i.e. the
			// seek has taken effect.
			emit(e.events, Event{Kind: EventSeeked})
		case mpv.EventEnd:
			emit(e.events, Event{Kind: EventError, Err: fmt.Errorf("mpv: playback of %s ended unexpectedly", e.path)})
		case mpv.EventShutdown:
			return
		}
	}
}

func (e *MPVEngine) Load() error {
	return e.m.CommandString(fmt.Sprintf("loadfile %q", e.path))
}

func (e *MPVEngine) Play() error {
	return e.m.SetProperty("pause", mpv.FormatFlag, false)
}

func (e *MPVEngine) Pause() error {
	return e.m.SetProperty("pause", mpv.FormatFlag, true)
}

func (e *MPVEngine) CurrentTime() float64 {
	val, err := e.m.GetProperty("time-pos", mpv.FormatDouble)
	if err != nil || val == nil {
		return 0
	}
	return val.(float64)
}

func (e *MPVEngine) SetCurrentTime(t float64) error {
	return e.m.SetProperty("time-pos", mpv.FormatDouble, t)
}

func (e *MPVEngine) Duration() float64 {
	val, err := e.m.GetProperty("duration", mpv.FormatDouble)
	if err != nil || val == nil {
		return math.NaN()
	}
	return val.(float64)
}

func (e *MPVEngine) FrameSize() (int, int) {
	w, errW := e.m.GetProperty("dwidth", mpv.FormatInt64)
	h, errH := e.m.GetProperty("dheight", mpv.FormatInt64)
	if errW != nil || errH != nil || w == nil || h == nil {
		return 0, 0
	}
	return int(w.(int64)), int(h.(int64))
}

func (e *MPVEngine) ReadyState() ReadyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return HaveEnoughData
	}
	return HaveNothing
}

func (e *MPVEngine) Frame() image.Image {
	return nil
}

func (e *MPVEngine) Events() <-chan Event {
	return e.events
}

func (e *MPVEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	close(e.stop)
	e.m.TerminateDestroy()
	return nil
}

var _ Engine = (*MPVEngine)(nil)
