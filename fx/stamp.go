package fx

import "math"

// StampScale returns the scale of the falling stamp at frame a of the descent
// phase.  It eases from InitialScale down to exactly 1 on the last descent
// frame.
func StampScale(s StampSettings, ph StampPhases, a int) float64 {
	p := 1.0
	if ph.Descent > 1 {
		p = Clamp01(float64(a) / float64(ph.Descent-1))
	}
	return s.InitialScale - (s.InitialScale-1)*EaseOutCubic(p)
}

// StampGhost returns the scale and opacity of the echo drawn at frame b of
// the bounce phase.  The echo swells to BounceScale at the middle of the
// phase and shrinks back while fading out linearly.
func StampGhost(s StampSettings, ph StampPhases, b int) (scale, alpha float64) {
	q := Clamp01(float64(b) / float64(ph.Bounce))
	if q < 0.5 {
		scale = 1 + (s.BounceScale-1)*(q*2)
	} else {
		scale = s.BounceScale - (s.BounceScale-1)*((q-0.5)*2)
	}
	return scale, 1 - q
}

func renderStamp(c *Canvas, src *Image, s StampSettings, f Frame) {
	ph := PhasesOf(s, f.Rate)
	if f.Index < ph.Empty {
		return
	}
	fitted := src.Fitted(c.Width(), c.Height(), FillStamp)
	if fitted == nil {
		return
	}
	a := f.Index - ph.Empty

	defer c.Save()()
	centerOrigin(c)
	c.Rotate(s.Angle * math.Pi / 180)
	switch {
	case a < ph.Descent:
		drawScaled(c, fitted, StampScale(s, ph, a))
	case a < ph.Descent+ph.Bounce:
		drawScaled(c, fitted, 1)
		scale, alpha := StampGhost(s, ph, a-ph.Descent)
		c.SetAlpha(alpha)
		drawScaled(c, fitted, scale)
	default:
		drawScaled(c, fitted, 1)
	}
}
