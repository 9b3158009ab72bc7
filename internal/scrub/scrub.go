// Package scrub keeps a displayed video frame consistent with scroll
// position: viewport progress maps to a target playback time, an exponential
// filter chases it, and a throttled, dead-zoned seek policy drives the media
// engine without overwhelming its decoder.
package scrub

import (
	"math"
	"time"

	"github.com/dami/heroscrub/internal/config"
	"github.com/dami/heroscrub/internal/logger"
	"github.com/dami/heroscrub/internal/media"
	"github.com/dami/heroscrub/internal/renderer"
)

// Viewport supplies the scroll geometry, read-only. ContainerTop is the
// intro container's top edge relative to the viewport (negative once
// scrolled past).
type Viewport interface {
	ContainerTop() float64
	ContainerHeight() float64
	ViewportWidth() float64
	ViewportHeight() float64
	DevicePixelRatio() float64
}

// State is the synchronizer lifecycle phase.
type State int

const (
	// StateUnstarted: engine created, nothing loaded, surface unsized.
	StateUnstarted State = iota
	// StateLoading: load requested, waiting for enough decoded data.
	StateLoading
	// StatePriming: one-shot play-then-pause to unlock seeking on engines
	// that reject programmatic seeks before a play attempt.
	StatePriming
	// StateRunning: the per-frame loop drives seeks and redraws.
	StateRunning
)

// SeekOutcome reports what the seek policy did with a request. Step discards
// it on purpose: a rejected or failed seek self-corrects on the next tick.
type SeekOutcome int

const (
	SeekApplied SeekOutcome = iota
	// SeekThrottled: under the minimum interval since the last accepted seek.
	SeekThrottled
	// SeekDeadZone: too close to the last requested time.
	SeekDeadZone
	// SeekSettled: engine already sits within tolerance of the request.
	SeekSettled
	// SeekFailed: the engine rejected the position write.
	SeekFailed
)

// Synchronizer owns all scrub state. Construct one per page view; every
// method takes explicit timestamps so tests can drive it synthetically. Not
// goroutine-safe: one goroutine serializes Step and HandleEvent.
type Synchronizer struct {
	tuning config.Tuning
	engine media.Engine
	canvas renderer.Canvas
	comp   *renderer.Compositor
	view   Viewport
	log    logger.Logger

	onReady func(bool)

	state    State
	smoothed float64
	ready    bool

	lastTick time.Time
	ticked   bool

	lastSeekAt    time.Time
	seeked        bool
	lastRequested float64
	requested     bool

	frameHooked bool
}

func New(t config.Tuning, eng media.Engine, canvas renderer.Canvas, view Viewport, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		tuning: t,
		engine: eng,
		canvas: canvas,
		comp:   renderer.NewCompositor(t, canvas),
		view:   view,
		log:    log,
	}
}

// OnReadyChange registers the presentation toggle fired whenever the ready
// flag flips, in either direction.
func (s *Synchronizer) OnReadyChange(fn func(bool)) {
	s.onReady = fn
}

// Start begins loading, or, with SkipIntro set, flips the ready flag and
// leaves the engine and surface untouched.
func (s *Synchronizer) Start() error {
	if s.tuning.SkipIntro {
		s.setReady(true)
		return nil
	}
	s.state = StateLoading
	s.Resize()
	return s.engine.Load()
}

// Progress returns the normalized scroll position in [0,1]. A non-positive
// scrollable span yields 0.
func (s *Synchronizer) Progress() float64 {
	span := s.view.ContainerHeight() - s.view.ViewportHeight()
	if span <= 0 {
		return 0
	}
	p := -s.view.ContainerTop() / span
	return clamp(p, 0, 1)
}

// TargetTime is the playback position implied by the current progress.
func (s *Synchronizer) TargetTime() float64 {
	return s.Progress() * s.tuning.FreezeTime
}

// Step runs one loop iteration: fresh target, smoothing, ready flag, seek,
// redraw. Returns true while the host should keep scheduling it.
func (s *Synchronizer) Step(now time.Time) bool {
	if s.tuning.SkipIntro {
		return false
	}
	if s.state != StateRunning {
		return true
	}

	target := s.TargetTime()

	var dt float64
	if !s.ticked {
		dt = s.tuning.NominalDeltaT
		s.ticked = true
	} else {
		dt = now.Sub(s.lastTick).Seconds()
		if dt < 0 {
			dt = 0
		}
		if dt > s.tuning.MaxDeltaT {
			dt = s.tuning.MaxDeltaT
		}
	}
	s.lastTick = now

	// First-order exponential chase: the fraction of the gap closed per
	// wall-clock second is constant regardless of frame cadence.
	s.smoothed += (target - s.smoothed) * (1 - math.Exp(-s.tuning.DecayRate*dt))

	s.setReady(s.smoothed >= s.tuning.FreezeTime-s.tuning.ScrollSlop)

	// Outcome discarded: the next tick recomputes and re-requests.
	s.Seek(s.smoothed, now)

	s.Render()
	return true
}

// Seek applies the rate-limit and dead-zone policy before writing the
// engine's playback position.
func (s *Synchronizer) Seek(t float64, now time.Time) (SeekOutcome, error) {
	minInterval := time.Duration(float64(time.Second) / s.tuning.SeekFPS)
	if s.seeked && now.Sub(s.lastSeekAt) < minInterval {
		return SeekThrottled, nil
	}

	half := s.tuning.MinTimeStep / 2
	if s.requested && math.Abs(t-s.lastRequested) < half {
		return SeekDeadZone, nil
	}
	if math.Abs(s.engine.CurrentTime()-t) < half {
		return SeekSettled, nil
	}

	ceiling := s.tuning.FreezeTime
	if d := s.engine.Duration(); !math.IsNaN(d) && !math.IsInf(d, 0) && d < ceiling {
		ceiling = d
	}
	t = clamp(t, 0, ceiling)

	s.lastSeekAt = now
	s.seeked = true
	s.lastRequested = t
	s.requested = true

	if err := s.engine.SetCurrentTime(t); err != nil {
		return SeekFailed, err
	}
	return SeekApplied, nil
}

// Render composites the current frame. No-op while the engine has no
// decoded dimensions or not enough data.
func (s *Synchronizer) Render() bool {
	return s.comp.Render(s.engine)
}

// Resize recomputes the surface device size from the viewport and pixel
// ratio (capped), then redraws immediately so the surface never shows stale
// content until the next tick.
func (s *Synchronizer) Resize() {
	dpr := math.Min(s.view.DevicePixelRatio(), s.tuning.MaxPixelRatio)
	w := int(math.Floor(s.view.ViewportWidth() * dpr))
	h := int(math.Floor(s.view.ViewportHeight() * dpr))
	s.canvas.Resize(w, h)
	s.canvas.SetTransform(dpr)
	s.Render()
}

// HandleEvent dispatches an engine notification.
func (s *Synchronizer) HandleEvent(ev media.Event, now time.Time) {
	if s.tuning.SkipIntro {
		return
	}
	switch ev.Kind {
	case media.EventLoadedData:
		if s.state == StateLoading {
			s.prime()
			s.run(now)
		}
	case media.EventSeeked, media.EventTimeUpdate:
		// The decoded frame may have snapped to a keyframe near the request;
		// redraw from what the engine actually holds.
		s.Render()
	case media.EventError:
		s.log.Errorf("media decode failed: asset=%s err=%v", s.tuning.AssetPath, ev.Err)
	}
}

// prime attempts the play-then-pause probe. Failures are discarded: seeking
// works without a successful play on most engines.
func (s *Synchronizer) prime() {
	s.state = StatePriming
	if err := s.engine.Play(); err == nil {
		_ = s.engine.Pause()
	}
}

// run enters the steady state: smoothed time starts at the current target
// (no transition animation) and one seek+redraw lands before the first tick.
func (s *Synchronizer) run(now time.Time) {
	s.state = StateRunning
	s.smoothed = s.TargetTime()
	s.setReady(s.smoothed >= s.tuning.FreezeTime-s.tuning.ScrollSlop)

	if fn, ok := s.engine.(media.FrameNotifier); ok && !s.frameHooked {
		fn.OnFrame(func() { s.Render() })
		s.frameHooked = true
	}

	s.Seek(s.smoothed, now)
	s.Render()
}

// State returns the lifecycle phase.
func (s *Synchronizer) State() State {
	return s.state
}

// Ready reports whether the smoothed time has reached the freeze ceiling
// within the configured slack.
func (s *Synchronizer) Ready() bool {
	return s.ready
}

// SmoothedTime returns the filtered playback position driving seeks.
func (s *Synchronizer) SmoothedTime() float64 {
	return s.smoothed
}

func (s *Synchronizer) setReady(v bool) {
	if v == s.ready {
		return
	}
	s.ready = v
	if s.onReady != nil {
		s.onReady(v)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
