package fx

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// gradient returns an opaque w×h image whose pixels all differ.
func gradient(t *testing.T, w, h int) *Image {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / max(1, w-1)), G: uint8(y * 255 / max(1, h-1)), B: 0x80, A: 0xff})
		}
	}
	img, err := NewImage(m)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}

func renderFrame(t *testing.T, c *Canvas, src *Image, s Settings, index int) *image.RGBA {
	t.Helper()
	c.Reset()
	if err := Render(c, src, s, index, DefaultFrameRate); err != nil {
		t.Fatalf("Render(%v, frame %d): %v", s.Kind(), index, err)
	}
	return c.Snapshot()
}

func samePixels(a, b *image.RGBA) bool {
	return a.Rect == b.Rect && bytes.Equal(a.Pix, b.Pix)
}

func blank(m *image.RGBA) bool {
	for _, v := range m.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

func mustTimeline(t *testing.T, s Settings) Timeline {
	t.Helper()
	tl, err := DeriveTimeline(s, DefaultFrameRate)
	if err != nil {
		t.Fatalf("DeriveTimeline: %v", err)
	}
	return tl
}

// drawnBounds returns the smallest rectangle holding every pixel that is not
// fully transparent.
func drawnBounds(m *image.RGBA) image.Rectangle {
	var r image.Rectangle
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.RGBAAt(x, y).A != 0 {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
