package export

import (
	"fmt"
	"io"
	"time"

	_ "github.com/deepteams/webp"
	"github.com/deepteams/webp/animation"
)

type webpEncoder struct{}

func (webpEncoder) available() error {
	if animation.FrameEncoderFunc == nil {
		return fmt.Errorf("%w: no webp frame encoder registered", ErrExportUnavailable)
	}
	return nil
}

func (webpEncoder) Encode(w io.Writer, frames []Frame, opts EncodeOptions) error {
	enc := animation.NewEncoder(w, opts.Width, opts.Height, &animation.EncodeOptions{
		LoopCount: opts.LoopCount,
		Quality:   min(100, max(0, opts.Quality)),
		Lossless:  opts.Lossless,
	})
	for i, f := range frames {
		if err := enc.AddFrame(f.Image, time.Duration(f.DelayMs)*time.Millisecond); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		opts.progress(i+1, len(frames))
	}
	return enc.Close()
}
