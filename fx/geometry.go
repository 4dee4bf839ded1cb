package fx

import "math"

// Fill fractions used when fitting the source image inside the canvas.  The
// stamp effect reserves extra margin for its overscaled bounce.
const (
	FillDefault = 0.8
	FillStamp   = 0.6
)

// Fit returns the size of the image scaled so that it fits inside the canvas
// with the longer relative dimension covering fill of the canvas.  The aspect
// ratio of the image is preserved.  Fit returns zero sizes if any dimension is
// not positive.
func Fit(imageW, imageH, canvasW, canvasH int, fill float64) (w, h float64) {
	if imageW <= 0 || imageH <= 0 || canvasW <= 0 || canvasH <= 0 || fill <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(canvasW)/float64(imageW), float64(canvasH)/float64(imageH)) * fill
	return float64(imageW) * scale, float64(imageH) * scale
}

// FittedSize is like Fit but rounds the result to whole pixels.  A non-empty
// image never rounds down to zero pixels.
func FittedSize(imageW, imageH, canvasW, canvasH int, fill float64) (w, h int) {
	fw, fh := Fit(imageW, imageH, canvasW, canvasH, fill)
	if fw == 0 || fh == 0 {
		return 0, 0
	}
	return max(1, int(math.Round(fw))), max(1, int(math.Round(fh)))
}

// CanvasSize returns the canvas dimensions used to render an image.  The
// canvas has the dimensions of the image, scaled down so that neither side
// exceeds limit.  If square is true the canvas is limit×limit regardless of
// the image.
func CanvasSize(imageW, imageH, limit int, square bool) (w, h int) {
	if square {
		return limit, limit
	}
	if imageW <= 0 || imageH <= 0 {
		return 0, 0
	}
	w, h = imageW, imageH
	if limit > 0 && (w > limit || h > limit) {
		scale := math.Min(float64(limit)/float64(w), float64(limit)/float64(h))
		w = max(1, int(math.Floor(float64(w)*scale)))
		h = max(1, int(math.Floor(float64(h)*scale)))
	}
	return w, h
}
