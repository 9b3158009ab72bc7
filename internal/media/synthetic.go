package media

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// SyntheticSource generates frames on the fly: a brightness ramp over time
// plus a QR code stamp encoding the frame index. Scrub an asset built from
// it and a phone camera tells you exactly which frame the seek landed on.
type SyntheticSource struct {
	width, height int
	count         int
}

func NewSyntheticSource(width, height, count int) *SyntheticSource {
	if count < 1 {
		count = 1
	}
	return &SyntheticSource{width: width, height: height, count: count}
}

func (s *SyntheticSource) FrameCount() int {
	return s.count
}

func (s *SyntheticSource) FrameSize(index int) (int, int, error) {
	if index < 0 || index >= s.count {
		return 0, 0, fmt.Errorf("frame %d out of range [0, %d)", index, s.count)
	}
	return s.width, s.height, nil
}

func (s *SyntheticSource) Frame(index int) (image.Image, error) {
	if index < 0 || index >= s.count {
		return nil, fmt.Errorf("frame %d out of range [0, %d)", index, s.count)
	}

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))

	// Background brightness tracks progress through the sequence.
	t := float64(index) / float64(s.count)
	bg := color.RGBA{
		R: uint8(20 + 120*t),
		G: uint8(24 + 80*t),
		B: uint8(40 + 160*t),
		A: 255,
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	// Sweeping marker bar.
	barX := int(t * float64(s.width))
	barW := s.width / 50
	if barW < 2 {
		barW = 2
	}
	bar := image.Rect(barX, 0, barX+barW, s.height)
	draw.Draw(img, bar.Intersect(img.Bounds()), &image.Uniform{color.RGBA{R: 240, G: 200, B: 60, A: 255}}, image.Point{}, draw.Src)

	// QR stamp with the frame index, bottom-left.
	qr, err := qrcode.New(fmt.Sprintf("frame:%d", index), qrcode.Medium)
	if err != nil {
		return nil, err
	}
	stampSize := s.height / 5
	if stampSize < 32 {
		stampSize = 32
	}
	stamp := qr.Image(stampSize)
	dst := image.Rect(8, s.height-stampSize-8, 8+stampSize, s.height-8)
	draw.Draw(img, dst.Intersect(img.Bounds()), stamp, stamp.Bounds().Min, draw.Src)

	return img, nil
}

func (s *SyntheticSource) Close() error {
	return nil
}
