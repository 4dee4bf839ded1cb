package export

import (
	"io"

	"github.com/disintegration/imaging"
	"github.com/kettek/apng"
)

type apngEncoder struct{}

// Encode writes true-color frames.  Every frame covers the whole canvas and
// replaces the previous one, so partial transparency survives.
func (apngEncoder) Encode(w io.Writer, frames []Frame, opts EncodeOptions) error {
	a := apng.APNG{LoopCount: uint(max(0, opts.LoopCount))}
	for i, f := range frames {
		a.Frames = append(a.Frames, apng.Frame{
			Image:            imaging.Clone(f.Image),
			DelayNumerator:   uint16(min(f.DelayMs, 0xffff)),
			DelayDenominator: 1000,
			DisposeOp:        apng.DISPOSE_OP_NONE,
			BlendOp:          apng.BLEND_OP_SOURCE,
		})
		opts.progress(i+1, len(frames))
	}
	return apng.Encode(w, a)
}
