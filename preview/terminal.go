package preview

import (
	"image"
	"io"
	"os"

	"github.com/nfnt/resize"
)

const (
	cursorHome  = "\033[H"
	eraseLine   = "\033[K"
	eraseBelow  = "\033[J"
	eraseScreen = "\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Fallback terminal size when the output is not a terminal.
const (
	defaultCols = 80
	defaultRows = 24
)

// Terminal is a Surface drawing frames as background colored cells of an
// ANSI terminal.  Each frame is redrawn in place from the top-left corner.
type Terminal struct {
	w          io.Writer
	palette    Palette
	fontAspect float64
	pad        bool
	size       func() (cols, rows int, err error)
	buf        frameBuffer
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

func WithPalette(p Palette) TerminalOption {
	return func(t *Terminal) { t.palette = p }
}

// WithFontAspect sets the width/height ratio of a terminal cell.
func WithFontAspect(aspect float64) TerminalOption {
	return func(t *Terminal) {
		if aspect > 0 {
			t.fontAspect = aspect
		}
	}
}

// WithPadding pads each line on the left with whitespace.
func WithPadding(pad bool) TerminalOption {
	return func(t *Terminal) { t.pad = pad }
}

// WithTermSize overrides how the terminal dimensions are determined.
func WithTermSize(size func() (cols, rows int, err error)) TerminalOption {
	return func(t *Terminal) { t.size = size }
}

// NewTerminal returns a Terminal writing to w.  Unless overridden the
// terminal size is taken from standard output.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		w:          w,
		palette:    new(Palette256Precise),
		fontAspect: 0.5,
		size:       func() (int, int, error) { return TermSize(os.Stdout) },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start clears the screen and hides the cursor.
func (t *Terminal) Start() error {
	_, err := io.WriteString(t.w, eraseScreen+cursorHome+hideCursor)
	return err
}

// Close resets colors and shows the cursor again.
func (t *Terminal) Close() error {
	_, err := io.WriteString(t.w, ansiClear+showCursor+"\r\n")
	return err
}

// Present draws img scaled to fit the terminal.
func (t *Terminal) Present(img image.Image) error {
	cols, rows, err := t.size()
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = defaultCols, defaultRows
	}
	if t.pad {
		cols -= 2
	}
	// the last row is left for the cursor
	cells := sizeRect(img.Bounds().Size(), cols, rows-1, t.fontAspect)
	if cells.X <= 0 || cells.Y <= 0 {
		return nil
	}
	scaled := resize.Resize(uint(cells.X), uint(cells.Y), img, resize.Bilinear)

	t.buf.WriteString(cursorHome)
	t.writePixels(scaled)
	t.buf.WriteString(eraseBelow)
	return t.buf.FlushTo(t.w)
}

func (t *Terminal) writePixels(img image.Image) {
	rect := img.Bounds()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		if t.pad {
			t.buf.WriteString("  ")
		}
		prev := ""
		for x := rect.Min.X; x < rect.Max.X; x++ {
			code := t.palette.ANSI(img.At(x, y))
			if code != prev {
				t.buf.WriteString(code)
				prev = code
			}
			t.buf.WriteString(" ")
		}
		// raw mode does not translate newlines
		t.buf.WriteString(ansiClear + eraseLine + "\r\n")
	}
}
