package preview

import (
	"image"
	"math"
)

// sizeRect returns a point with dimensions less than or equal to the
// corresponding dimensions of width and height and having the aspect ratio of
// size once stretched for fontAspect.  sizeRect always returns the largest
// such coordinates.  A non-positive width or height leaves that dimension
// unconstrained.  In particular this means the following expression evaluates
// true
//
//	sizeRect(size, 0, 0, fontAspect) == sizeNormal(size, fontAspect)
func sizeRect(size image.Point, width, height int, fontAspect float64) image.Point {
	size = sizeNormal(size, fontAspect)
	if width <= 0 && height <= 0 {
		return size
	}
	if width <= 0 {
		return sizeHeight(size, height)
	}
	if height <= 0 {
		return sizeWidth(size, width)
	}
	aspectSize := float64(size.X) / float64(size.Y)
	aspectRect := float64(width) / float64(height)
	if aspectSize > aspectRect {
		// the image is wider than the given dimensions and cannot fill them
		// vertically.
		return sizeWidth(size, width)
	}
	return sizeHeight(size, height)
}

// sizeWidth returns a point with X equal to width and the same aspect ratio
// as size.
func sizeWidth(size image.Point, width int) image.Point {
	aspect := float64(size.X) / float64(size.Y)
	return image.Pt(width, max(1, int(round(float64(width)/aspect))))
}

// sizeHeight returns a point with Y equal to height and the same aspect ratio
// as size.
func sizeHeight(size image.Point, height int) image.Point {
	aspect := float64(size.X) / float64(size.Y)
	return image.Pt(max(1, int(round(float64(height)*aspect))), height)
}

// sizeNormal scales size according to aspect ratio fontAspect and returns the
// new size.  Terminal cells are taller than they are wide, so the image is
// stretched horizontally.
func sizeNormal(size image.Point, fontAspect float64) image.Point {
	aspect := float64(size.X) / float64(size.Y)
	return image.Pt(int(round(float64(size.Y)*aspect/fontAspect)), size.Y)
}

// round x to the nearest integer biased toward +Inf.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}
