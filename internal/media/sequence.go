package media

import (
	"fmt"
	"image"
	"math"
	"sync"
)

// SequenceEngine exposes a Source as a seekable media engine with a fixed
// frame rate. It never free-runs: Play and Pause only track the paused flag,
// and the position moves when SetCurrentTime is called.
type SequenceEngine struct {
	src Source
	fps float64

	mu      sync.Mutex
	loaded  bool
	paused  bool
	ready   ReadyState
	current float64
	index   int
	frame   image.Image
	width   int
	height  int
	onFrame func()
	events  chan Event
	closed  bool
}

func NewSequenceEngine(src Source, fps float64) *SequenceEngine {
	if fps <= 0 {
		fps = 30
	}
	return &SequenceEngine{
		src:    src,
		fps:    fps,
		paused: true,
		index:  -1,
		events: make(chan Event, 16),
	}
}

// Load decodes the first frame and reports readiness. One-shot; repeated
// calls are no-ops.
func (e *SequenceEngine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return nil
	}
	if e.src.FrameCount() == 0 {
		err := fmt.Errorf("sequence source has no frames")
		emit(e.events, Event{Kind: EventError, Err: err})
		return err
	}

	frame, err := e.src.Frame(0)
	if err != nil {
		emit(e.events, Event{Kind: EventError, Err: err})
		return err
	}
	b := frame.Bounds()
	e.frame = frame
	e.index = 0
	e.width, e.height = b.Dx(), b.Dy()
	e.loaded = true
	e.ready = HaveEnoughData
	emit(e.events, Event{Kind: EventLoadedData})
	return nil
}

func (e *SequenceEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return fmt.Errorf("play before load")
	}
	e.paused = false
	return nil
}

func (e *SequenceEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return fmt.Errorf("pause before load")
	}
	e.paused = true
	return nil
}

func (e *SequenceEngine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// SetCurrentTime seeks to t, decoding the frame at floor(t*fps). The seek is
// acknowledged with an EventSeeked; a position change additionally emits an
// EventTimeUpdate.
func (e *SequenceEngine) SetCurrentTime(t float64) error {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return fmt.Errorf("seek before load")
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		e.mu.Unlock()
		return fmt.Errorf("seek to non-finite time %v", t)
	}

	duration := float64(e.src.FrameCount()) / e.fps
	if t < 0 {
		t = 0
	}
	if t > duration {
		t = duration
	}

	index := int(t * e.fps)
	if index >= e.src.FrameCount() {
		index = e.src.FrameCount() - 1
	}

	moved := e.current != t
	e.current = t

	var hook func()
	if index != e.index {
		frame, err := e.src.Frame(index)
		if err != nil {
			e.mu.Unlock()
			emit(e.events, Event{Kind: EventError, Err: err})
			return err
		}
		e.frame = frame
		e.index = index
		hook = e.onFrame
	}
	e.mu.Unlock()

	emit(e.events, Event{Kind: EventSeeked})
	if moved {
		emit(e.events, Event{Kind: EventTimeUpdate})
	}
	if hook != nil {
		hook()
	}
	return nil
}

func (e *SequenceEngine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return math.NaN()
	}
	return float64(e.src.FrameCount()) / e.fps
}

func (e *SequenceEngine) FrameSize() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

func (e *SequenceEngine) ReadyState() ReadyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

func (e *SequenceEngine) Frame() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

func (e *SequenceEngine) Events() <-chan Event {
	return e.events
}

// OnFrame registers the per-decoded-frame hook.
func (e *SequenceEngine) OnFrame(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFrame = fn
}

func (e *SequenceEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.src.Close()
}

var _ Engine = (*SequenceEngine)(nil)
var _ FrameNotifier = (*SequenceEngine)(nil)
