package renderer

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dami/heroscrub/internal/config"
	"github.com/dami/heroscrub/internal/media"
)

type stubEngine struct {
	width, height int
	ready         media.ReadyState
	frame         image.Image
}

func (e *stubEngine) Load() error                  { return nil }
func (e *stubEngine) Play() error                  { return nil }
func (e *stubEngine) Pause() error                 { return nil }
func (e *stubEngine) CurrentTime() float64         { return 0 }
func (e *stubEngine) SetCurrentTime(float64) error { return nil }
func (e *stubEngine) Duration() float64            { return math.NaN() }
func (e *stubEngine) FrameSize() (int, int)        { return e.width, e.height }
func (e *stubEngine) ReadyState() media.ReadyState { return e.ready }
func (e *stubEngine) Frame() image.Image           { return e.frame }
func (e *stubEngine) Events() <-chan media.Event   { return nil }
func (e *stubEngine) Close() error                 { return nil }

func TestFrameRectFitsAndCenters(t *testing.T) {
	tuning := config.DefaultTuning()
	canvas := NewImageCanvas(1000, 500)
	comp := NewCompositor(tuning, canvas)

	// 100x50 frame in a 1000x500 surface: exact-fit scale is 10, shrunk to 8.6.
	r := comp.FrameRect(100, 50)
	assert.InDelta(t, 860.0, r.W, 1e-9)
	assert.InDelta(t, 430.0, r.H, 1e-9)
	assert.InDelta(t, 70.0, r.X, 1e-9)
	assert.InDelta(t, 35.0, r.Y, 1e-9)
}

func TestFrameRectUniformScale(t *testing.T) {
	tuning := config.DefaultTuning()
	canvas := NewImageCanvas(1000, 500)
	comp := NewCompositor(tuning, canvas)

	// A tall frame is height-bound; aspect ratio must survive.
	r := comp.FrameRect(100, 400)
	assert.InDelta(t, r.W/r.H, 0.25, 1e-9)
	assert.InDelta(t, 500*tuning.FrameScale, r.H, 1e-9)
}

func TestBandRectSpansFullWidth(t *testing.T) {
	tuning := config.DefaultTuning()
	canvas := NewImageCanvas(1000, 500)
	comp := NewCompositor(tuning, canvas)

	frame := comp.FrameRect(100, 50)
	band := comp.BandRect(frame)

	assert.Equal(t, 0.0, band.X)
	assert.InDelta(t, 1000.0, band.W, 1e-9)
	assert.InDelta(t, frame.Y+tuning.BandStart*frame.H, band.Y, 1e-9)
	assert.InDelta(t, frame.Y+frame.H, band.Y+band.H, 1e-9)
}

func TestRenderRequiresDecodedData(t *testing.T) {
	tuning := config.DefaultTuning()
	canvas := NewImageCanvas(200, 100)
	comp := NewCompositor(tuning, canvas)

	eng := &stubEngine{}
	assert.False(t, comp.Render(eng), "no dimensions, no draw")

	eng.width, eng.height = 160, 90
	eng.ready = media.HaveMetadata
	assert.False(t, comp.Render(eng), "metadata alone is not drawable")

	eng.ready = media.HaveCurrentData
	assert.True(t, comp.Render(eng))
}

func TestRenderPaintsGradientAndBand(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.GradientTop = config.Color{R: 10, G: 10, B: 10}
	tuning.GradientBottom = config.Color{R: 200, G: 200, B: 200}
	tuning.BandColor = config.Color{R: 1, G: 2, B: 3}

	canvas := NewImageCanvas(200, 100)
	comp := NewCompositor(tuning, canvas)
	eng := &stubEngine{width: 160, height: 90, ready: media.HaveEnoughData}

	require.True(t, comp.Render(eng))
	buf := canvas.Image()

	// Top row carries the top gradient color.
	r, g, b, _ := buf.At(100, 0).RGBA()
	assert.Equal(t, uint32(10), r>>8)
	assert.Equal(t, uint32(10), g>>8)
	assert.Equal(t, uint32(10), b>>8)

	// A pixel inside the band region carries the band color.
	frame := comp.FrameRect(160, 90)
	band := comp.BandRect(frame)
	y := int(band.Y + band.H/2)
	r, g, b, _ = buf.At(5, y).RGBA()
	assert.Equal(t, uint32(1), r>>8)
	assert.Equal(t, uint32(2), g>>8)
	assert.Equal(t, uint32(3), b>>8)
}

func TestImageCanvasResizeAndTransform(t *testing.T) {
	canvas := NewImageCanvas(100, 50)
	w, h := canvas.DeviceSize()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)

	canvas.SetTransform(2)
	lw, lh := canvas.LogicalSize()
	assert.Equal(t, 50.0, lw)
	assert.Equal(t, 25.0, lh)

	canvas.Resize(300, 200)
	w, h = canvas.DeviceSize()
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)

	// Same-size resize keeps the buffer.
	before := canvas.Image()
	canvas.Resize(300, 200)
	assert.Same(t, before, canvas.Image())
}
