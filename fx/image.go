package fx

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	_ "github.com/deepteams/webp"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// maxResampled bounds the number of resampled copies an Image keeps.
const maxResampled = 8

// subImager is implemented by every image type of the standard library and
// by the images nfnt/resize returns.
type subImager interface {
	image.Image
	SubImage(r image.Rectangle) image.Image
}

// Image is an immutable decoded source image.  It is safe for concurrent
// use; preview and export may share one Image.
type Image struct {
	src    image.Image
	format string

	mu        sync.Mutex
	resampled map[image.Point]image.Image
}

// NewImage wraps a decoded image.  Images that cannot be sliced with
// SubImage are copied into an NRGBA image.
func NewImage(m image.Image) (*Image, error) {
	if m == nil {
		return nil, ErrNoImage
	}
	if m.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	src, ok := m.(subImager)
	if !ok {
		src = imaging.Clone(m)
	}
	return &Image{src: src, resampled: make(map[image.Point]image.Image)}, nil
}

// Decode reads an image in any registered format: GIF, JPEG, PNG, BMP, TIFF
// or WebP.  Animated inputs contribute their first frame.
func Decode(r io.Reader) (*Image, error) {
	m, format, err := image.Decode(r)
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	img, err := NewImage(m)
	if err != nil {
		return nil, err
	}
	img.format = format
	return img, nil
}

// Load reads an image from a file.
func Load(filename string) (*Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer f.Close()
	return Decode(f)
}

func (m *Image) Width() int  { return m.src.Bounds().Dx() }
func (m *Image) Height() int { return m.src.Bounds().Dy() }

// Format returns the name of the format the image was decoded from, if any.
func (m *Image) Format() string { return m.format }

// Source returns the decoded image.  Callers must not modify it.  Source,
// Resampled and Fitted always return images supporting SubImage.
func (m *Image) Source() image.Image { return m.src }

// Resampled returns the image scaled to w×h pixels.  Results are cached, so
// repeated frames of an animation resample the source once.  Resampled
// returns nil if either dimension is not positive.
func (m *Image) Resampled(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return nil
	}
	if w == m.Width() && h == m.Height() {
		return m.src
	}
	key := image.Pt(w, h)

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resampled[key]; ok {
		return r
	}
	if len(m.resampled) >= maxResampled {
		clear(m.resampled)
	}
	r := resize.Resize(uint(w), uint(h), m.src, resize.Lanczos3)
	m.resampled[key] = r
	return r
}

// Fitted returns the image resampled to its fitted size inside a canvas.
func (m *Image) Fitted(canvasW, canvasH int, fill float64) image.Image {
	w, h := FittedSize(m.Width(), m.Height(), canvasW, canvasH, fill)
	return m.Resampled(w, h)
}
