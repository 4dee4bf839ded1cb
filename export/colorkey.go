package export

import (
	"image"
	"image/color"
)

// KeyColor replaces transparent pixels in GIF exports.  The GIF encoder maps
// it to the transparent palette entry.
var KeyColor = color.RGBA{G: 0xff, A: 0xff}

// ColorKey replaces every fully transparent pixel of img with key and returns
// the number of pixels replaced.  Partially transparent pixels are left alone.
func ColorKey(img *image.RGBA, key color.RGBA) int {
	n := 0
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):][:4*b.Dx()]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] != 0 {
				continue
			}
			row[i], row[i+1], row[i+2], row[i+3] = key.R, key.G, key.B, key.A
			n++
		}
	}
	return n
}
