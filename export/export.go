// Package export renders every frame of an effect and encodes the sequence
// as a looping animated image.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bmatsuo/img2anim/fx"
)

// Share of the progress range spent rendering frames.  Encoding takes the
// rest.
const renderShare = 0.8

const (
	DefaultMaxSize = 800
	DefaultQuality = 90
)

// Options control an export.
type Options struct {
	Format    Format
	FrameRate int

	// MaxSize bounds the longer side of the canvas.  With Square the canvas
	// is MaxSize×MaxSize.
	MaxSize int
	Square  bool

	// Quality and Lossless apply to WebP only.
	Quality  int
	Lossless bool

	// Progress, if not nil, receives strictly increasing values in (0, 1].
	// The final call always reports 1.
	Progress func(float64)

	Logger *log.Logger
}

// DefaultOptions returns the options used when nothing else is configured.
func DefaultOptions() Options {
	return Options{
		Format:    GIF,
		FrameRate: fx.DefaultFrameRate,
		MaxSize:   DefaultMaxSize,
		Quality:   DefaultQuality,
	}
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = GIF
	}
	if o.FrameRate == 0 {
		o.FrameRate = fx.DefaultFrameRate
	}
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Frame is one rendered frame ready for encoding.
type Frame struct {
	Image   *image.RGBA
	DelayMs int
}

// Animation is an encoded animation.
type Animation struct {
	Format   Format
	Kind     fx.Kind
	Timeline fx.Timeline
	Width    int
	Height   int
	Data     []byte
}

// Filename returns the name under which the animation is saved at time t.
func (a *Animation) Filename(t time.Time) string {
	return fmt.Sprintf("animation-%s-%d%s", a.Kind, t.UnixMilli(), a.Format.Ext())
}

// WriteFile saves the animation in dir under Filename(t) and returns the
// path written.  The file appears complete or not at all.
func (a *Animation) WriteFile(dir string, t time.Time) (string, error) {
	name := filepath.Join(dir, a.Filename(t))
	f, err := os.CreateTemp(dir, ".animation-*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	fail := func(err error) (string, error) {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if _, err := f.Write(a.Data); err != nil {
		return fail(err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return name, nil
}

// Render draws every frame of one loop of the effect.  For GIF output of a
// transparent effect the frames are color keyed.
func Render(src *fx.Image, s fx.Settings, opts Options) ([]Frame, fx.Timeline, error) {
	return render(src, s, opts.withDefaults(), nil)
}

func render(src *fx.Image, s fx.Settings, opts Options, progress func(done, total int)) ([]Frame, fx.Timeline, error) {
	if src == nil {
		return nil, fx.Timeline{}, fx.ErrNoImage
	}
	tl, err := fx.DeriveTimeline(s, opts.FrameRate)
	if err != nil {
		return nil, fx.Timeline{}, err
	}
	c := fx.NewCanvas(canvasSize(src, opts))
	keyed := keyFor(s, opts) != nil
	frames := make([]Frame, 0, tl.Frames)
	for i := 0; i < tl.Frames; i++ {
		c.Reset()
		if err := fx.Render(c, src, s, i, opts.FrameRate); err != nil {
			return nil, fx.Timeline{}, err
		}
		img := c.Snapshot()
		if keyed {
			ColorKey(img, KeyColor)
		}
		frames = append(frames, Frame{Image: img, DelayMs: tl.DelayMs})
		if progress != nil {
			progress(i+1, tl.Frames)
		}
	}
	return frames, tl, nil
}

func canvasSize(src *fx.Image, opts Options) (w, h int) {
	return fx.CanvasSize(src.Width(), src.Height(), opts.MaxSize, opts.Square)
}

// Export renders the effect and encodes it.  Nothing is encoded if the image
// or settings are invalid or the format has no encoder.
func Export(src *fx.Image, s fx.Settings, opts Options) (*Animation, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	if src == nil {
		return nil, fx.ErrNoImage
	}
	if s == nil {
		return nil, fmt.Errorf("%w: no settings", fx.ErrInvalidSettings)
	}
	tl, err := fx.DeriveTimeline(s, opts.FrameRate)
	if err != nil {
		return nil, err
	}
	enc, err := EncoderFor(opts.Format)
	if err != nil {
		return nil, err
	}

	p := &progress{fn: opts.Progress}
	w, h := canvasSize(src, opts)
	logger.Info("exporting", "effect", s.Kind(), "format", opts.Format, "size", fmt.Sprintf("%dx%d", w, h), "frames", tl.Frames)

	start := time.Now()
	frames, tl, err := render(src, s, opts, func(done, total int) {
		p.report(renderShare * float64(done) / float64(total))
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("rendered frames", "frames", tl.Frames, "delay_ms", tl.DelayMs, "elapsed", time.Since(start))

	start = time.Now()
	var buf bytes.Buffer
	err = enc.Encode(&buf, frames, EncodeOptions{
		Width:    w,
		Height:   h,
		Key:      keyFor(s, opts),
		Quality:  opts.Quality,
		Lossless: opts.Lossless,
		Progress: func(done, total int) {
			p.report(renderShare + (1-renderShare)*float64(done)/float64(total+1))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncoding, opts.Format, err)
	}
	logger.Debug("encoded frames", "format", opts.Format, "bytes", buf.Len(), "elapsed", time.Since(start))
	p.report(1)

	return &Animation{
		Format:   opts.Format,
		Kind:     s.Kind(),
		Timeline: tl,
		Width:    w,
		Height:   h,
		Data:     buf.Bytes(),
	}, nil
}

func keyFor(s fx.Settings, opts Options) color.Color {
	if opts.Format == GIF && s.Transparent() {
		return KeyColor
	}
	return nil
}

// progress forwards only increasing values.
type progress struct {
	fn   func(float64)
	last float64
}

func (p *progress) report(v float64) {
	if p.fn == nil || v <= p.last {
		return
	}
	p.last = v
	p.fn(v)
}
