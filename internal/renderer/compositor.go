package renderer

import (
	"image/color"
	"math"

	"github.com/dami/heroscrub/internal/config"
	"github.com/dami/heroscrub/internal/media"
)

// Compositor paints one scrub frame: background gradient, the current media
// frame scaled to fit (shrunk by FrameScale, centered), and a solid band
// over the lower part of the frame extended to full width. The band blends a
// letterboxed source asset into the page background.
type Compositor struct {
	tuning config.Tuning
	canvas Canvas
}

func NewCompositor(t config.Tuning, c Canvas) *Compositor {
	return &Compositor{tuning: t, canvas: c}
}

// Render draws the current engine frame. Returns false (and leaves the
// surface untouched) while the engine has no decoded dimensions or not
// enough decoded data.
func (c *Compositor) Render(eng media.Engine) bool {
	fw, fh := eng.FrameSize()
	if fw <= 0 || fh <= 0 || eng.ReadyState() < media.HaveCurrentData {
		return false
	}

	w, h := c.canvas.LogicalSize()
	c.canvas.FillVerticalGradient(Rect{X: 0, Y: 0, W: w, H: h},
		rgba(c.tuning.GradientTop), rgba(c.tuning.GradientBottom))

	frame := c.FrameRect(fw, fh)
	if img := eng.Frame(); img != nil {
		c.canvas.DrawImageScaled(img, frame)
	}

	c.canvas.FillRect(c.BandRect(frame), rgba(c.tuning.BandColor))
	return true
}

// FrameRect computes the destination of a fw×fh frame: uniform scale to fit
// the logical viewport, shrunk by FrameScale, centered.
func (c *Compositor) FrameRect(fw, fh int) Rect {
	w, h := c.canvas.LogicalSize()
	scale := math.Min(w/float64(fw), h/float64(fh)) * c.tuning.FrameScale
	dw := float64(fw) * scale
	dh := float64(fh) * scale
	return Rect{X: (w - dw) / 2, Y: (h - dh) / 2, W: dw, H: dh}
}

// BandRect computes the blend band: from BandStart of the frame's height to
// the frame's bottom edge, across the full surface width.
func (c *Compositor) BandRect(frame Rect) Rect {
	w, _ := c.canvas.LogicalSize()
	top := frame.Y + c.tuning.BandStart*frame.H
	return Rect{X: 0, Y: top, W: w, H: frame.Y + frame.H - top}
}

func rgba(c config.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
