package fx

import (
	"image"
	"image/color"
	"math"
	"slices"

	"golang.org/x/image/draw"
)

// Composite selects how drawn pixels combine with the canvas.
type Composite int

const (
	// CompositeSourceOver draws pixels over the canvas.
	CompositeSourceOver Composite = iota
	// CompositeLighter adds drawn pixels to the canvas, saturating each
	// channel.
	CompositeLighter
)

type canvasState struct {
	m     Affine
	alpha float64
	comp  Composite
}

var initialState = canvasState{m: Identity(), alpha: 1, comp: CompositeSourceOver}

// Canvas is a raster surface with a current transformation, global alpha and
// composite mode, in the manner of an HTML canvas 2D context.  State changes
// made after Save are undone by the function Save returns.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	img   *image.RGBA
	layer *image.RGBA
	state canvasState
	stack []canvasState
}

// NewCanvas returns a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, max(0, width), max(0, height))),
		state: initialState,
	}
}

func (c *Canvas) Width() int  { return c.img.Rect.Dx() }
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Image returns the pixels of the canvas.  The image is reused by subsequent
// drawing; use Snapshot to keep a frame.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	return &image.RGBA{
		Pix:    slices.Clone(c.img.Pix),
		Stride: c.img.Stride,
		Rect:   c.img.Rect,
	}
}

// Clear makes every pixel transparent.  The drawing state is unchanged.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// Reset clears the canvas and discards all saved drawing state.
func (c *Canvas) Reset() {
	c.Clear()
	c.state = initialState
	c.stack = c.stack[:0]
}

// Fill paints the whole canvas with col, ignoring the current transformation.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// Save pushes the drawing state and returns a function restoring it.  The
// restore function may be called more than once; calls after the first have
// no effect.  Restoring also discards any state saved after this call.
//
//	defer c.Save()()
func (c *Canvas) Save() (restore func()) {
	depth := len(c.stack)
	c.stack = append(c.stack, c.state)
	return func() {
		if len(c.stack) <= depth {
			return
		}
		c.state = c.stack[depth]
		c.stack = c.stack[:depth]
	}
}

// Depth returns the number of saved states.
func (c *Canvas) Depth() int {
	return len(c.stack)
}

// Transform returns the current transformation.
func (c *Canvas) Transform() Affine {
	return c.state.m
}

func (c *Canvas) Translate(x, y float64) {
	c.state.m = c.state.m.Mul(Translation(x, y))
}

func (c *Canvas) Rotate(angle float64) {
	c.state.m = c.state.m.Mul(Rotation(angle))
}

func (c *Canvas) Scale(sx, sy float64) {
	c.state.m = c.state.m.Mul(Scaling(sx, sy))
}

// SetAlpha sets the opacity applied to subsequent drawing.
func (c *Canvas) SetAlpha(a float64) {
	c.state.alpha = Clamp01(a)
}

func (c *Canvas) SetComposite(op Composite) {
	c.state.comp = op
}

// DrawImage draws src into the rectangle with top-left corner (x, y) and size
// w×h in the current coordinate space.  Sources that land on whole pixels at
// their natural size are copied exactly; everything else is resampled
// bilinearly.  Nothing is drawn when the destination has no area.
func (c *Canvas) DrawImage(src image.Image, x, y, w, h float64) {
	if src == nil {
		return
	}
	sb := src.Bounds()
	if sb.Empty() || w == 0 || h == 0 || c.state.alpha <= 0 {
		return
	}
	m := c.state.m.
		Mul(Translation(x, y)).
		Mul(Scaling(w/float64(sb.Dx()), h/float64(sb.Dy()))).
		Mul(Translation(-float64(sb.Min.X), -float64(sb.Min.Y)))
	if m.Singular() {
		return
	}
	r := c.deviceBounds(m, sb)
	if r.Empty() {
		return
	}

	if c.state.alpha >= 1 && c.state.comp == CompositeSourceOver {
		drawAffine(c.img, m, src, sb, draw.Over)
		return
	}

	layer := c.scratch()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := layer.PixOffset(r.Min.X, y)
		clear(layer.Pix[i : i+4*r.Dx()])
	}
	drawAffine(layer, m, src, sb, draw.Src)
	switch c.state.comp {
	case CompositeLighter:
		addInto(c.img, layer, r, c.state.alpha)
	default:
		mask := image.NewUniform(color.Alpha16{A: uint16(math.Round(c.state.alpha * 0xffff))})
		draw.DrawMask(c.img, r, layer, r.Min, mask, image.Point{}, draw.Over)
	}
}

func drawAffine(dst draw.Image, m Affine, src image.Image, sb image.Rectangle, op draw.Op) {
	if dx, dy, ok := m.IntTranslation(); ok {
		draw.Draw(dst, sb.Add(image.Pt(dx, dy)), src, sb.Min, op)
		return
	}
	draw.BiLinear.Transform(dst, m.Aff3(), src, sb, op, nil)
}

// deviceBounds returns the canvas pixels that m may touch when drawing sb.
func (c *Canvas) deviceBounds(m Affine, sb image.Rectangle) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]int{
		{sb.Min.X, sb.Min.Y}, {sb.Max.X, sb.Min.Y},
		{sb.Min.X, sb.Max.Y}, {sb.Max.X, sb.Max.Y},
	} {
		x, y := m.Apply(float64(p[0]), float64(p[1]))
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	// one pixel of slack for the bilinear kernel
	r := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
	return r.Intersect(c.img.Rect)
}

func (c *Canvas) scratch() *image.RGBA {
	if c.layer == nil || c.layer.Rect != c.img.Rect {
		c.layer = image.NewRGBA(c.img.Rect)
	}
	return c.layer
}

// addInto adds alpha-scaled premultiplied pixels of src to dst within r.
func addInto(dst, src *image.RGBA, r image.Rectangle, alpha float64) {
	a := uint32(math.Round(alpha * 256))
	n := 4 * r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.Pix[dst.PixOffset(r.Min.X, y):][:n]
		s := src.Pix[src.PixOffset(r.Min.X, y):][:n]
		for i := range d {
			v := uint32(d[i]) + (uint32(s[i])*a)>>8
			d[i] = uint8(min(v, 0xff))
		}
	}
}
