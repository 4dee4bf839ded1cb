package fx

import (
	"image"
	"math"
)

// centerOrigin moves the origin of c to the middle of the canvas, rounded
// down to a whole pixel.
func centerOrigin(c *Canvas) {
	c.Translate(float64(c.Width()/2), float64(c.Height()/2))
}

// drawScaled draws img centered on the origin at k times its pixel size.  The
// top-left corner is rounded down to a whole pixel, so at scale 1 with an
// untransformed origin the image is copied without resampling.
func drawScaled(c *Canvas, img image.Image, k float64) {
	b := img.Bounds()
	w, h := float64(b.Dx())*k, float64(b.Dy())*k
	c.DrawImage(img, -math.Floor(w/2), -math.Floor(h/2), w, h)
}
