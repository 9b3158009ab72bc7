package media

import "image"

// ReadyState mirrors the decode-readiness ladder of a media element. Frames
// may be drawn once the engine reports HaveCurrentData or better.
type ReadyState int

const (
	HaveNothing ReadyState = iota
	HaveMetadata
	HaveCurrentData
	HaveFutureData
	HaveEnoughData
)

func (s ReadyState) String() string {
	switch s {
	case HaveNothing:
		return "nothing"
	case HaveMetadata:
		return "metadata"
	case HaveCurrentData:
		return "current-data"
	case HaveFutureData:
		return "future-data"
	case HaveEnoughData:
		return "enough-data"
	}
	return "unknown"
}

// EventKind identifies an engine notification.
type EventKind int

const (
	// EventLoadedData fires once, when enough data is decoded to start.
	EventLoadedData EventKind = iota
	// EventSeeked fires when a requested seek has taken effect. The decoded
	// frame may sit on a nearby keyframe rather than the exact request.
	EventSeeked
	// EventTimeUpdate fires when the playback position changes on its own.
	EventTimeUpdate
	// EventError carries a decode failure.
	EventError
)

// Event is an engine notification delivered over Events().
type Event struct {
	Kind EventKind
	Err  error
}

// Engine is a media decode engine: load, play/pause, position get/set,
// duration, frame dimensions, readiness, and notifications. SetCurrentTime
// is fire-and-forget; completion is signalled by an EventSeeked.
type Engine interface {
	Load() error
	Play() error
	Pause() error
	CurrentTime() float64
	SetCurrentTime(t float64) error
	// Duration returns NaN until metadata is known.
	Duration() float64
	FrameSize() (w, h int)
	ReadyState() ReadyState
	// Frame returns the current decoded frame, nil if none yet. Engines that
	// render through their own output path (mpv) always return nil.
	Frame() image.Image
	Events() <-chan Event
	Close() error
}

// FrameNotifier is an optional Engine extension: fn runs after every decoded
// frame. Callers must register at most once.
type FrameNotifier interface {
	OnFrame(fn func())
}

// emit sends without blocking; when the buffer is full the oldest event is
// dropped so the channel always holds the freshest notifications.
func emit(ch chan Event, ev Event) {
	select {
	case ch <- ev:
	default:
		select {
		case <-ch:
			ch <- ev
		default:
		}
	}
}
