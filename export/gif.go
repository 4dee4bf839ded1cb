package export

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

type gifEncoder struct{}

func (gifEncoder) Encode(w io.Writer, frames []Frame, opts EncodeOptions) error {
	g := &gif.GIF{
		LoopCount: opts.LoopCount,
		Config:    image.Config{Width: opts.Width, Height: opts.Height},
	}
	for i, f := range frames {
		g.Image = append(g.Image, palettize(f.Image, opts.Key))
		g.Delay = append(g.Delay, centiseconds(f.DelayMs))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
		opts.progress(i+1, len(frames))
	}
	return gif.EncodeAll(w, g)
}

// centiseconds converts a frame delay to GIF units.  GIF cannot express
// delays shorter than 10ms, so a positive delay never rounds to zero.
func centiseconds(ms int) int {
	if ms <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(ms)/10)))
}

// palettize converts a frame to at most 256 colors chosen by median cut.
// When key is not nil, palette index 0 is reserved for it and pixels matching
// key exactly take that index, which holds the transparent color.  Frames
// without a key are dithered.
func palettize(m *image.RGBA, key color.Color) *image.Paletted {
	b := m.Bounds()
	src := opaque(m)
	q := quantize.MedianCutQuantizer{}
	if key == nil {
		pal := q.Quantize(make(color.Palette, 0, 256), src)
		p := image.NewPaletted(b, pal)
		draw.FloydSteinberg.Draw(p, b, src, b.Min)
		return p
	}

	k := color.NRGBAModel.Convert(key).(color.NRGBA)
	rest := q.Quantize(make(color.Palette, 0, 255), src)
	pal := append(color.Palette{color.NRGBA{}}, rest...)
	p := image.NewPaletted(b, pal)
	if len(rest) == 0 {
		return p
	}
	memo := make(map[color.NRGBA]uint8)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.NRGBAAt(x, y)
			if c == k {
				continue
			}
			i, ok := memo[c]
			if !ok {
				i = uint8(rest.Index(c) + 1)
				memo[c] = i
			}
			p.SetColorIndex(x, y, i)
		}
	}
	return p
}

// opaque returns the colors of m without premultiplication and with full
// alpha.  GIF has no partial transparency.
func opaque(m *image.RGBA) *image.NRGBA {
	n := image.NewNRGBA(m.Rect)
	for i := 0; i < len(m.Pix); i += 4 {
		r, g, b, a := m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]
		if a != 0 && a != 0xff {
			r = uint8(min(0xff, int(r)*0xff/int(a)))
			g = uint8(min(0xff, int(g)*0xff/int(a)))
			b = uint8(min(0xff, int(b)*0xff/int(a)))
		}
		n.Pix[i], n.Pix[i+1], n.Pix[i+2], n.Pix[i+3] = r, g, b, 0xff
	}
	return n
}
