package fx

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// BrightnessFactor returns the brightness factor of the brightness mode at
// loop progress t.  It rises from 1 to intensity and back once per loop.
func BrightnessFactor(s GlowSettings, t float64) float64 {
	return 1 + (s.Intensity-1)*RaisedCosine(t)
}

// GlowOpacity returns the opacity of the pulse mode at loop progress t.
func GlowOpacity(s GlowSettings, t float64) float64 {
	return Lerp(s.MinOpacity, s.MaxOpacity, RaisedSine(t))
}

// glowWash returns the strength of the colored wash added while the pulse is
// in the lower half of its swing, and zero otherwise.
func glowWash(t float64) float64 {
	level := RaisedSine(t)
	if level >= 0.5 {
		return 0
	}
	return (1 - 2*level) * 0.5
}

func renderGlow(c *Canvas, src *Image, s GlowSettings, f Frame) {
	fitted := src.Fitted(c.Width(), c.Height(), FillDefault)
	if fitted == nil {
		return
	}
	t := f.Progress()

	defer c.Save()()
	centerOrigin(c)
	switch s.Mode {
	case GlowRainbow:
		drawScaled(c, hueRotate(fitted, 360*t), 1)
	case GlowPulse:
		c.SetAlpha(GlowOpacity(s, t))
		drawScaled(c, fitted, 1)
		if wash := glowWash(t); wash > 0 {
			c.SetAlpha(wash)
			c.SetComposite(CompositeLighter)
			drawScaled(c, tint(fitted, s.Color), 1)
		}
	default:
		drawScaled(c, brighten(fitted, BrightnessFactor(s, t)), 1)
	}
}

// brighten multiplies the color channels of img by k.
func brighten(img image.Image, k float64) image.Image {
	if k == 1 {
		return img
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = clampChannel(float64(c.R) * k)
		c.G = clampChannel(float64(c.G) * k)
		c.B = clampChannel(float64(c.B) * k)
		return c
	})
}

// hueRotate turns the hue of img by deg degrees using the same linear
// approximation as the CSS hue-rotate filter.
func hueRotate(img image.Image, deg float64) image.Image {
	deg = math.Mod(deg, 360)
	if deg == 0 {
		return img
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	m := [9]float64{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072,
	}
	return imaging.AdjustFunc(img, func(px color.NRGBA) color.NRGBA {
		r, g, b := float64(px.R), float64(px.G), float64(px.B)
		px.R = clampChannel(m[0]*r + m[1]*g + m[2]*b)
		px.G = clampChannel(m[3]*r + m[4]*g + m[5]*b)
		px.B = clampChannel(m[6]*r + m[7]*g + m[8]*b)
		return px
	})
}

// tint replaces the color of every pixel of img with col, keeping its alpha.
func tint(img image.Image, col RGB) image.Image {
	return imaging.AdjustFunc(img, func(px color.NRGBA) color.NRGBA {
		return color.NRGBA{R: col.R, G: col.G, B: col.B, A: px.A}
	})
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
