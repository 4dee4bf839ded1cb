package fx

import (
	"image"
	"math"
)

// WaveShift returns the displacement in whole pixels of a slice at normalized
// position pos at time offset t (radians).
func WaveShift(s WaveSettings, pos, t float64) int {
	return int(math.Round(math.Sin(pos*s.Count*2*math.Pi+t) * s.Amplitude * s.Distortion))
}

// renderWave cuts the fitted image into strips, or square cells for circular
// waves, and draws each one displaced along the wave.  All offsets are whole
// pixels so a flat wave reproduces the image exactly.
func renderWave(c *Canvas, src *Image, s WaveSettings, f Frame) {
	fitted := src.Fitted(c.Width(), c.Height(), FillDefault)
	if fitted == nil {
		return
	}
	sub := fitted.(subImager)
	b := fitted.Bounds()
	fw, fh := b.Dx(), b.Dy()
	t := 2 * math.Pi * f.Progress()
	slice := max(1, s.Slice)

	// piece draws the part r of the fitted image, given relative to its
	// top-left corner, displaced by (dx, dy).
	ox, oy := -(fw / 2), -(fh / 2)
	piece := func(r image.Rectangle, dx, dy int) {
		r = r.Add(b.Min)
		c.DrawImage(sub.SubImage(r), float64(ox+r.Min.X-b.Min.X+dx), float64(oy+r.Min.Y-b.Min.Y+dy), float64(r.Dx()), float64(r.Dy()))
	}

	defer c.Save()()
	centerOrigin(c)
	switch s.Type {
	case WaveVertical:
		for x := 0; x < fw; x += slice {
			w := min(slice, fw-x)
			pos := (float64(x) + float64(w)/2) / float64(fw)
			piece(image.Rect(x, 0, x+w, fh), 0, WaveShift(s, pos, t))
		}
	case WaveCircular:
		cell := 2 * slice
		cx, cy := float64(fw)/2, float64(fh)/2
		reach := math.Hypot(cx, cy)
		for y := 0; y < fh; y += cell {
			for x := 0; x < fw; x += cell {
				w, h := min(cell, fw-x), min(cell, fh-y)
				px := float64(x) + float64(w)/2 - cx
				py := float64(y) + float64(h)/2 - cy
				r := math.Hypot(px, py)
				var dx, dy int
				if r > 0 {
					off := float64(WaveShift(s, r/reach, t))
					dx, dy = int(math.Round(px/r*off)), int(math.Round(py/r*off))
				}
				piece(image.Rect(x, y, x+w, y+h), dx, dy)
			}
		}
	default:
		for y := 0; y < fh; y += slice {
			h := min(slice, fh-y)
			pos := (float64(y) + float64(h)/2) / float64(fh)
			piece(image.Rect(0, y, fw, y+h), WaveShift(s, pos, t), 0)
		}
	}
}
