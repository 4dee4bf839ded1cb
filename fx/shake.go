package fx

import "math"

// ShakeOffset returns the displacement of the image at frame f.  The shake
// period is rate·speed/frequency frames, rounded so that a whole number of
// periods fits the loop and the animation repeats without a seam.
func ShakeOffset(s ShakeSettings, f Frame) (dx, dy float64) {
	if s.Intensity == 0 || f.Timeline.Frames <= 0 {
		return 0, 0
	}
	period := float64(f.Rate) * s.Speed / s.Frequency
	cycles := math.Max(1, math.Round(float64(f.Timeline.Frames)/period))
	phase := 2 * math.Pi * cycles * f.Progress()
	switch s.Direction {
	case ShakeVertical:
		return 0, math.Sin(phase) * s.Intensity
	case ShakeBoth:
		return math.Sin(phase) * s.Intensity, math.Cos(phase) * s.Intensity
	default:
		return math.Sin(phase) * s.Intensity, 0
	}
}

func renderShake(c *Canvas, src *Image, s ShakeSettings, f Frame) {
	fitted := src.Fitted(c.Width(), c.Height(), FillDefault)
	if fitted == nil {
		return
	}
	dx, dy := ShakeOffset(s, f)

	defer c.Save()()
	centerOrigin(c)
	c.Translate(dx, dy)
	drawScaled(c, fitted, 1)
}
