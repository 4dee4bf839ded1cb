package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
)

// Replay composites the frames of a decoded GIF onto a virtual screen the way
// a viewer shows them and returns a copy of the screen after each frame.
func Replay(g *gif.GIF) []*image.RGBA {
	r := newReplayer(g)
	for r.next() {
	}
	return r.frames
}

type replayer struct {
	gif    *gif.GIF
	bounds image.Rectangle
	screen *image.RGBA
	saved  *image.RGBA
	frames []*image.RGBA
	index  int
}

func newReplayer(g *gif.GIF) *replayer {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Rect
	}
	return &replayer{
		gif:    g,
		bounds: bounds,
		screen: image.NewRGBA(bounds),
		index:  -1,
	}
}

func (r *replayer) next() bool {
	i := r.index + 1
	if i >= len(r.gif.Image) {
		return false
	}
	if i > 0 {
		r.dispose(i - 1)
	}
	r.index = i
	r.draw(i)
	return true
}

// dispose prepares the screen for the frame following frame i.  Unspecified
// disposal and DisposalNone are handled the same way, leaving the screen as
// it is.
func (r *replayer) dispose(i int) {
	rect := r.gif.Image[i].Rect.Intersect(r.bounds)
	switch r.disposal(i) {
	case gif.DisposalBackground:
		draw.Draw(r.screen, rect, image.NewUniform(r.background()), image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		if r.saved != nil {
			draw.Draw(r.screen, rect, r.saved, rect.Min, draw.Src)
		}
	}
}

func (r *replayer) draw(i int) {
	m := r.gif.Image[i]
	if r.disposal(i) == gif.DisposalPrevious {
		r.saved = clone(r.screen)
	}

	// Transparency is checked directly instead of blending because GIF has
	// binary transparency.
	trans := -1
	for j, c := range m.Palette {
		if _, _, _, a := c.RGBA(); a == 0 {
			trans = j
			break
		}
	}
	rect := m.Rect.Intersect(r.bounds)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			ci := m.ColorIndexAt(x, y)
			if int(ci) == trans || int(ci) >= len(m.Palette) {
				continue
			}
			r.screen.Set(x, y, m.Palette[ci])
		}
	}
	r.frames = append(r.frames, clone(r.screen))
}

func (r *replayer) disposal(i int) byte {
	if i < len(r.gif.Disposal) {
		return r.gif.Disposal[i]
	}
	return 0
}

// background returns the color restored by DisposalBackground.  Without a
// global palette the screen becomes transparent, which is what browsers do.
func (r *replayer) background() color.Color {
	p, ok := r.gif.Config.ColorModel.(color.Palette)
	if !ok || int(r.gif.BackgroundIndex) >= len(p) {
		return color.Transparent
	}
	return p[r.gif.BackgroundIndex]
}

func clone(m *image.RGBA) *image.RGBA {
	c := image.NewRGBA(m.Rect)
	copy(c.Pix, m.Pix)
	return c
}
