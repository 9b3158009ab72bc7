package system

import (
	"image"
	"testing"
)

func TestImagePoolReusesBuffers(t *testing.T) {
	rect := image.Rect(0, 0, 64, 64)

	img := GetImage(rect)
	if img.Bounds() != rect {
		t.Fatalf("expected bounds %v, got %v", rect, img.Bounds())
	}
	PutImage(img)

	again := GetImage(rect)
	if again.Bounds() != rect {
		t.Fatalf("expected bounds %v, got %v", rect, again.Bounds())
	}
}

func TestImagePoolSeparatesSizes(t *testing.T) {
	small := GetImage(image.Rect(0, 0, 8, 8))
	large := GetImage(image.Rect(0, 0, 256, 256))

	if small.Bounds() == large.Bounds() {
		t.Fatal("pools for different sizes must not mix")
	}

	PutImage(small)
	PutImage(large)
	PutImage(nil) // must not panic
}
