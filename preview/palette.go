package preview

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
)

// AlphaThreshold is the 16-bit alpha below which a pixel is drawn as the
// terminal background.
const AlphaThreshold = 0x8000

const ansiClear = "\033[0m"

// IsTransparent reports whether c is less opaque than threshold.
func IsTransparent(c color.Color, threshold uint32) bool {
	_, _, _, a := c.RGBA()
	return a < threshold
}

// Palette maps colors to ANSI escape sequences setting the background color
// of a terminal cell.
type Palette interface {
	ANSI(color.Color) string
}

var palettes = map[string]Palette{
	"256":       new(Palette256Precise),
	"256-color": new(Palette256Precise),
	"256-fast":  new(Palette256),
	"8":         DefaultPalette8,
	"8-color":   DefaultPalette8,
	"gray":      new(PaletteGray),
	"grayscale": new(PaletteGray),
	"grey":      new(PaletteGray),
	"greyscale": new(PaletteGray),
}

// Palettes returns the names accepted by LookupPalette, sorted.
func Palettes() []string {
	var names []string
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LookupPalette(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("color palette %q not one of %q", name, Palettes())
	}
	return p, nil
}

// PaletteGray is a Palette that maps colors to one of twenty four grayscale
// values.
type PaletteGray struct{}

func (p *PaletteGray) ANSI(c color.Color) string {
	const begin = 0xe8
	const ratio = 23.0 / 255.0
	if IsTransparent(c, AlphaThreshold) {
		return ansiClear
	}
	gray := color.GrayModel.Convert(c).(color.Gray).Y
	return bg256(int(round(ratio*float64(gray))) + begin)
}

// Color8 represents the set of colors in an 8-color palette.
type Color8 uint

const (
	Black Color8 = iota
	Red
	Green
	Orange // or brown or yellow
	Blue
	Magenta
	Cyan
	Gray
)

// Palette8 is a Palette that maps colors to one of 8 color indexes by
// minimizing euclidean RGB distance.
type Palette8 [8]color.Color

var DefaultPalette8 = &Palette8{
	Black:   color.RGBA{R: 0, G: 0, B: 0, A: 0xff},
	Red:     color.RGBA{R: 191, G: 25, B: 25, A: 0xff},
	Green:   color.RGBA{R: 25, G: 184, B: 25, A: 0xff},
	Orange:  color.RGBA{R: 188, G: 110, B: 25, A: 0xff},
	Blue:    color.RGBA{R: 25, G: 25, B: 184, A: 0xff},
	Magenta: color.RGBA{R: 186, G: 25, B: 186, A: 0xff},
	Cyan:    color.RGBA{R: 25, G: 187, B: 187, A: 0xff},
	Gray:    color.RGBA{R: 178, G: 178, B: 178, A: 0xff},
}

func (p *Palette8) ANSI(c color.Color) string {
	if IsTransparent(c, AlphaThreshold) {
		return ansiClear
	}
	return "\033[4" + strconv.Itoa(color.Palette(p[:]).Index(opaqueColor(c))) + "m"
}

// Palette256 is a Palette that maps colors onto the 6×6×6 color cube of
// 256-color terminals by rounding each channel.
type Palette256 struct{}

func (p *Palette256) ANSI(c color.Color) string {
	const begin = 16
	const ratio = 5.0 / (1<<16 - 1)
	rf, gf, bf, af := c.RGBA()
	if af < AlphaThreshold {
		return ansiClear
	}
	r := int(round(ratio * float64(rf)))
	g := int(round(ratio * float64(gf)))
	b := int(round(ratio * float64(bf)))
	return bg256(r*6*6 + g*6 + b + begin)
}

// Palette256Precise is a Palette that picks the nearest of the 240 fixed
// colors of 256-color terminals.  The 16 system colors are skipped because
// terminal themes redefine them.
type Palette256Precise struct{}

func (p *Palette256Precise) ANSI(c color.Color) string {
	if IsTransparent(c, AlphaThreshold) {
		return ansiClear
	}
	return bg256(palette256.Index(opaqueColor(c)) + 16)
}

// palette256 holds the colors 16 through 255 of the xterm palette.
var palette256 = func() color.Palette {
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	p := make(color.Palette, 0, 240)
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				p = append(p, color.RGBA{R: r, G: g, B: b, A: 0xff})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		p = append(p, color.RGBA{R: v, G: v, B: v, A: 0xff})
	}
	return p
}()

// opaqueColor drops the alpha of c so that partially transparent pixels are
// matched by hue rather than darkened.
func opaqueColor(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

func bg256(i int) string {
	return "\033[48;5;" + strconv.Itoa(i) + "m"
}
