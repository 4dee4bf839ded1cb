package preview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func uniform(w, h int, c color.Color) image.Image {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, c)
		}
	}
	return m
}

func fixedSize(cols, rows int) TerminalOption {
	return WithTermSize(func() (int, int, error) { return cols, rows, nil })
}

func TestTerminalPresent(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, WithPalette(new(Palette256)), fixedSize(20, 10))
	if err := term.Present(uniform(4, 2, color.RGBA{R: 0xff, A: 0xff})); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.HasPrefix(s, cursorHome) || !strings.HasSuffix(s, eraseBelow) {
		t.Errorf("frame not drawn in place: %q", s)
	}
	if n := strings.Count(s, "\r\n"); n != 5 {
		t.Errorf("%d lines, want 5", n)
	}
	if n := strings.Count(s, "\033[48;5;196m"); n != 5 {
		t.Errorf("red set %d times, want once per line", n)
	}

	out.Reset()
	if err := term.Present(uniform(4, 2, color.Transparent)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "48;5") {
		t.Error("transparent frame set background colors")
	}
}

func TestTerminalPadding(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, WithPadding(true), fixedSize(12, 40), WithFontAspect(1))
	if err := term.Present(uniform(2, 2, color.White)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimPrefix(out.String(), cursorHome), "\r\n")
	if len(lines) != 11 {
		t.Fatalf("%d lines, want 10 and the tail", len(lines))
	}
	for _, line := range lines[:10] {
		if !strings.HasPrefix(line, "  \033[") || strings.Count(line, " ") != 12 {
			t.Errorf("line %q", line)
		}
	}
}

func TestPalettes(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	tests := []struct {
		palette string
		c       color.Color
		want    string
	}{
		{"256", red, "\033[48;5;196m"},
		{"256-fast", red, "\033[48;5;196m"},
		{"256", color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}, "\033[48;5;59m"},
		{"gray", color.Black, "\033[48;5;232m"},
		{"gray", color.White, "\033[48;5;255m"},
		{"8", color.RGBA{R: 30, G: 200, B: 40, A: 0xff}, "\033[42m"},
		{"8", color.Transparent, ansiClear},
		{"256", color.NRGBA{R: 0xff, A: 0x10}, ansiClear},
	}
	for _, test := range tests {
		p, err := LookupPalette(test.palette)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.ANSI(test.c); got != test.want {
			t.Errorf("%s: ANSI(%v) = %q, want %q", test.palette, test.c, got, test.want)
		}
	}
	if _, err := LookupPalette("16"); err == nil {
		t.Error("unknown palette accepted")
	}
}

func TestSizeRect(t *testing.T) {
	tests := []struct {
		size          image.Point
		width, height int
		aspect        float64
		want          image.Point
	}{
		{image.Pt(100, 50), 0, 0, 0.5, image.Pt(200, 50)},
		{image.Pt(100, 50), 80, 24, 0.5, image.Pt(80, 20)},
		{image.Pt(50, 100), 80, 24, 0.5, image.Pt(24, 24)},
		{image.Pt(100, 100), 0, 10, 1, image.Pt(10, 10)},
		{image.Pt(400, 10), 10, 10, 1, image.Pt(10, 1)},
	}
	for _, test := range tests {
		got := sizeRect(test.size, test.width, test.height, test.aspect)
		if got != test.want {
			t.Errorf("sizeRect(%v, %d, %d, %v) = %v, want %v",
				test.size, test.width, test.height, test.aspect, got, test.want)
		}
	}
}

func TestFrameBuffer(t *testing.T) {
	var b frameBuffer
	b.WriteString("abc")
	b.Write([]byte("de"))
	var out bytes.Buffer
	if err := b.FlushTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "abcde" || b.Len() != 0 {
		t.Errorf("flushed %q, %d left", out.String(), b.Len())
	}
	b.WriteString("f")
	b.FlushTo(&out)
	if out.String() != "abcdef" {
		t.Errorf("second flush %q", out.String())
	}
}
