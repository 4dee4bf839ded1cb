package fx

import "math"

// RotationAngle returns the rotation in radians of frame f.  The angle grows
// linearly to one full turn over the loop and is negated for the left and up
// directions.
func RotationAngle(dir RotateDirection, f Frame) float64 {
	angle := f.Progress() * 2 * math.Pi
	if dir == RotateLeft || dir == RotateUp {
		angle = -angle
	}
	return angle
}

// FlipScale returns the vertical scale of the up and down card flips at the
// given signed angle.
func FlipScale(angle float64) float64 {
	sy := math.Abs(math.Cos(angle))
	if math.Sin(angle) > 1e-9 {
		sy = -sy
	}
	return sy
}

// renderRotate spins the image in the plane for left and right.  Up and down
// fake a card flip around the horizontal axis: the height is scaled by
// |cos angle| and the image is mirrored vertically while the sine of the
// signed angle is positive.  The two directions mirror in opposite halves of
// the loop.
func renderRotate(c *Canvas, src *Image, s RotateSettings, f Frame) {
	if s.Background == BackgroundCustom {
		c.Fill(s.Color.NRGBA())
	}
	fitted := src.Fitted(c.Width(), c.Height(), FillDefault)
	if fitted == nil {
		return
	}
	angle := RotationAngle(s.Direction, f)

	defer c.Save()()
	centerOrigin(c)
	switch s.Direction {
	case RotateUp, RotateDown:
		c.Scale(1, FlipScale(angle))
	default:
		c.Rotate(angle)
	}
	drawScaled(c, fitted, 1)
}
