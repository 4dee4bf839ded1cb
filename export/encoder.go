package export

import (
	"fmt"
	"image/color"
	"io"
)

// EncodeOptions are passed to an Encoder along with the frames.
type EncodeOptions struct {
	Width, Height int

	// LoopCount is the number of times the animation repeats.  Zero loops
	// forever.
	LoopCount int

	// Key, if not nil, is the color that stands for transparency.  Only the
	// GIF encoder uses it.
	Key color.Color

	Quality  int
	Lossless bool

	// Progress, if not nil, is called after each frame is encoded.
	Progress func(done, total int)
}

func (o EncodeOptions) progress(done, total int) {
	if o.Progress != nil {
		o.Progress(done, total)
	}
}

// Encoder writes a sequence of frames as one animated image.
type Encoder interface {
	Encode(w io.Writer, frames []Frame, opts EncodeOptions) error
}

// An encoder may depend on a codec registered at run time.
type availabler interface {
	available() error
}

var encoders = map[Format]Encoder{
	GIF:  gifEncoder{},
	APNG: apngEncoder{},
	WebP: webpEncoder{},
}

// EncoderFor returns the encoder of format f.  It returns an error wrapping
// ErrExportUnavailable if the format is unknown or its codec is missing.
func EncoderFor(f Format) (Encoder, error) {
	enc, ok := encoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: no encoder for %q", ErrExportUnavailable, f)
	}
	if a, ok := enc.(availabler); ok {
		if err := a.available(); err != nil {
			return nil, err
		}
	}
	return enc, nil
}
