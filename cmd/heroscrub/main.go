package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dami/heroscrub/internal/config"
	"github.com/dami/heroscrub/internal/logger"
	"github.com/dami/heroscrub/internal/loop"
	"github.com/dami/heroscrub/internal/media"
	"github.com/dami/heroscrub/internal/renderer"
	"github.com/dami/heroscrub/internal/scrub"
	"github.com/dami/heroscrub/internal/system"
)

func main() {
	inputPtr := flag.String("input", "synthetic", "Media asset: PDF, image directory/file, video file (mpv), or 'synthetic'")
	configPtr := flag.String("config", "", "Tuning YAML (defaults when empty)")
	widthPtr := flag.Float64("width", 1280, "Viewport width, logical px")
	heightPtr := flag.Float64("height", 720, "Viewport height, logical px")
	dprPtr := flag.Float64("dpr", 2.0, "Device pixel ratio")
	screensPtr := flag.Float64("screens", 4, "Intro container height in viewport heights")
	fpsPtr := flag.Float64("fps", 30, "Frame rate for sequence sources")
	framesPtr := flag.Int("frames", 210, "Frame count for the synthetic source")
	ratePtr := flag.Float64("rate", 60, "Tick rate, Hz (display refresh stand-in)")
	scrollPtr := flag.Float64("scroll-duration", 6, "Seconds the simulated scroll takes to cross the intro")
	runPtr := flag.Float64("run-duration", 10, "Total seconds to run")
	skipPtr := flag.Bool("skip-intro", false, "Skip the intro entirely")
	statsPtr := flag.Bool("stats", false, "Log process CPU/memory while running")
	outPtr := flag.String("out", "", "Directory for PNG canvas snapshots (none when empty)")
	snapshotPtr := flag.Float64("snapshot-every", 1.0, "Seconds between snapshots")
	levelPtr := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	log := logger.NewLogger(*levelPtr)

	tuning := config.DefaultTuning()
	if *configPtr != "" {
		var err error
		tuning, err = config.ReadTuning(*configPtr)
		if err != nil {
			log.Errorf("read tuning: %v", err)
			os.Exit(1)
		}
	}
	tuning.AssetPath = *inputPtr
	tuning.SkipIntro = tuning.SkipIntro || *skipPtr

	eng, err := openEngine(*inputPtr, *fpsPtr, *framesPtr)
	if err != nil {
		log.Errorf("open engine: %v", err)
		os.Exit(1)
	}
	defer eng.Close()

	view := newScrollSim(*widthPtr, *heightPtr, *dprPtr, *screensPtr, time.Duration(*scrollPtr*float64(time.Second)))
	canvas := renderer.NewImageCanvas(1, 1)

	sc := scrub.New(tuning, eng, canvas, view, log)
	sc.OnReadyChange(func(ready bool) {
		log.Infof("site-ready=%v smoothed=%.3f", ready, sc.SmoothedTime())
	})

	if *outPtr != "" {
		if err := os.MkdirAll(*outPtr, 0755); err != nil {
			log.Errorf("create snapshot dir: %v", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*runPtr*float64(time.Second)))
	defer cancel()

	if err := sc.Start(); err != nil {
		// Load failures degrade silently on the page; here they are at least
		// worth a line before the loop takes over.
		log.Warnf("load: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if *statsPtr {
		reporter, err := system.NewStatsReporter(log, 2*time.Second)
		if err != nil {
			log.Warnf("stats unavailable: %v", err)
		} else {
			g.Go(func() error {
				err := reporter.Run(ctx)
				if err == context.Canceled || err == context.DeadlineExceeded {
					return nil
				}
				return err
			})
		}
	}

	g.Go(func() error {
		interval := time.Duration(float64(time.Second) / *ratePtr)
		view.start = time.Now()
		var lastSnap time.Time
		snapInterval := time.Duration(*snapshotPtr * float64(time.Second))
		snapIndex := 0

		err := loop.Run(ctx, interval, func(now time.Time) bool {
			// Engine notifications and ticks share one goroutine.
		drain:
			for {
				select {
				case ev := <-eng.Events():
					sc.HandleEvent(ev, now)
				default:
					break drain
				}
			}
			view.advance(now)
			cont := sc.Step(now)

			if *outPtr != "" && now.Sub(lastSnap) >= snapInterval {
				lastSnap = now
				path := filepath.Join(*outPtr, fmt.Sprintf("scrub_%03d.png", snapIndex))
				snapIndex++
				if err := writeSnapshot(canvas, path); err != nil {
					log.Warnf("snapshot: %v", err)
				}
			}
			return cont
		})
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Errorf("run: %v", err)
		os.Exit(1)
	}

	log.Infof("done: ready=%v smoothed=%.3f progress=%.3f", sc.Ready(), sc.SmoothedTime(), sc.Progress())
}

// openEngine picks an engine implementation from the asset type.
func openEngine(input string, fps float64, frames int) (media.Engine, error) {
	if input == "" || input == "synthetic" {
		return media.NewSequenceEngine(media.NewSyntheticSource(1280, 720, frames), fps), nil
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".pdf":
		src, err := media.NewFitzSource(input)
		if err != nil {
			return nil, err
		}
		return media.NewSequenceEngine(src, fps), nil
	case ".mp4", ".webm", ".mkv", ".mov":
		return media.NewMPVEngine(input)
	default:
		src, err := media.NewImageSource(input)
		if err != nil {
			return nil, err
		}
		return media.NewSequenceEngine(src, fps), nil
	}
}

func writeSnapshot(canvas *renderer.ImageCanvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, canvas.Image())
}

// scrollSim plays a scripted scroll session: the offset eases across the
// scrollable span over a fixed duration, then holds.
type scrollSim struct {
	width, height float64
	dpr           float64
	screens       float64
	duration      time.Duration

	start  time.Time
	offset float64
}

func newScrollSim(width, height, dpr, screens float64, duration time.Duration) *scrollSim {
	return &scrollSim{width: width, height: height, dpr: dpr, screens: screens, duration: duration}
}

func (s *scrollSim) advance(now time.Time) {
	if s.start.IsZero() || s.duration <= 0 {
		return
	}
	t := now.Sub(s.start).Seconds() / s.duration.Seconds()
	if t > 1 {
		t = 1
	}
	span := s.ContainerHeight() - s.ViewportHeight()
	s.offset = easeInOutCubic(t) * span
}

func (s *scrollSim) ContainerTop() float64     { return -s.offset }
func (s *scrollSim) ContainerHeight() float64  { return s.height * s.screens }
func (s *scrollSim) ViewportWidth() float64    { return s.width }
func (s *scrollSim) ViewportHeight() float64   { return s.height }
func (s *scrollSim) DevicePixelRatio() float64 { return s.dpr }

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
