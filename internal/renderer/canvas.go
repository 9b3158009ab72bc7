package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/dami/heroscrub/internal/system"
)

// Rect is an axis-aligned rectangle in logical coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Canvas is the drawing surface contract: logical-coordinate fills, a
// vertical gradient, scaled image blits and a logical→device scale factor.
type Canvas interface {
	// DeviceSize returns the backing size in device pixels.
	DeviceSize() (w, h int)
	// LogicalSize returns the drawable size in logical units.
	LogicalSize() (w, h float64)
	// Resize reallocates the backing store to the given device size.
	Resize(w, h int)
	SetTransform(scale float64)
	FillRect(r Rect, c color.RGBA)
	FillVerticalGradient(r Rect, top, bottom color.RGBA)
	DrawImageScaled(img image.Image, dst Rect)
}

// ImageCanvas renders into an in-memory RGBA buffer. Buffers are recycled
// through the system image pool across resizes.
type ImageCanvas struct {
	buf   *image.RGBA
	scale float64
}

func NewImageCanvas(w, h int) *ImageCanvas {
	c := &ImageCanvas{scale: 1}
	c.Resize(w, h)
	return c
}

// Resize swaps the backing buffer for one of the given device size. The old
// buffer goes back to the pool.
func (c *ImageCanvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if c.buf != nil {
		b := c.buf.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return
		}
		system.PutImage(c.buf)
	}
	c.buf = system.GetImage(image.Rect(0, 0, w, h))
}

func (c *ImageCanvas) DeviceSize() (int, int) {
	b := c.buf.Bounds()
	return b.Dx(), b.Dy()
}

func (c *ImageCanvas) LogicalSize() (float64, float64) {
	b := c.buf.Bounds()
	return float64(b.Dx()) / c.scale, float64(b.Dy()) / c.scale
}

func (c *ImageCanvas) SetTransform(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	c.scale = scale
}

// Image exposes the backing frame for snapshots and tests.
func (c *ImageCanvas) Image() *image.RGBA {
	return c.buf
}

func (c *ImageCanvas) device(r Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X*c.scale)),
		int(math.Floor(r.Y*c.scale)),
		int(math.Ceil((r.X+r.W)*c.scale)),
		int(math.Ceil((r.Y+r.H)*c.scale)),
	).Intersect(c.buf.Bounds())
}

func (c *ImageCanvas) FillRect(r Rect, col color.RGBA) {
	draw.Draw(c.buf, c.device(r), &image.Uniform{col}, image.Point{}, draw.Src)
}

// FillVerticalGradient fills r with a per-row lerp from top to bottom.
func (c *ImageCanvas) FillVerticalGradient(r Rect, top, bottom color.RGBA) {
	dr := c.device(r)
	if dr.Empty() {
		return
	}
	rows := dr.Dy()
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		t := 0.0
		if rows > 1 {
			t = float64(y-dr.Min.Y) / float64(rows-1)
		}
		row := color.RGBA{
			R: lerp8(top.R, bottom.R, t),
			G: lerp8(top.G, bottom.G, t),
			B: lerp8(top.B, bottom.B, t),
			A: 255,
		}
		draw.Draw(c.buf, image.Rect(dr.Min.X, y, dr.Max.X, y+1), &image.Uniform{row}, image.Point{}, draw.Src)
	}
}

func (c *ImageCanvas) DrawImageScaled(img image.Image, dst Rect) {
	dr := c.device(dst)
	if dr.Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(c.buf, dr, img, img.Bounds(), xdraw.Over, nil)
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

var _ Canvas = (*ImageCanvas)(nil)
