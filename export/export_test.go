package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bmatsuo/img2anim/fx"
)

func testImage(t *testing.T, w, h int) *fx.Image {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 12), G: uint8(y * 12), B: 0x80, A: 0xff})
		}
	}
	img, err := fx.NewImage(m)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func defaults(t *testing.T, k fx.Kind) fx.Settings {
	t.Helper()
	s, err := fx.Defaults(k)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRender(t *testing.T) {
	src := testImage(t, 20, 16)
	s := fx.RotateSettings{Direction: fx.RotateRight, Speed: 2, Background: fx.BackgroundTransparent}
	frames, tl, err := Render(src, s, Options{Format: APNG})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(frames) != 30 || tl.Frames != 30 {
		t.Fatalf("rendered %d frames, timeline %+v", len(frames), tl)
	}
	for i, f := range frames {
		if f.DelayMs != 33 {
			t.Errorf("frame %d delay %d", i, f.DelayMs)
		}
		if f.Image.Rect != image.Rect(0, 0, 20, 16) {
			t.Errorf("frame %d bounds %v", i, f.Image.Rect)
		}
	}

	again, _, err := Render(src, s, Options{Format: APNG})
	if err != nil {
		t.Fatal(err)
	}
	for i := range frames {
		if !bytes.Equal(frames[i].Image.Pix, again[i].Image.Pix) {
			t.Fatalf("frame %d differs between renders", i)
		}
	}
}

func TestRenderCanvasSize(t *testing.T) {
	src := testImage(t, 20, 16)
	s := defaults(t, fx.KindShake)
	frames, _, err := Render(src, s, Options{MaxSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if b := frames[0].Image.Rect; b.Dx() != 10 || b.Dy() != 8 {
		t.Errorf("bounds = %v, want 10x8", b)
	}
	frames, _, err = Render(src, s, Options{MaxSize: 24, Square: true})
	if err != nil {
		t.Fatal(err)
	}
	if b := frames[0].Image.Rect; b.Dx() != 24 || b.Dy() != 24 {
		t.Errorf("square bounds = %v", b)
	}
}

func TestColorKey(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 3, 1))
	m.SetRGBA(1, 0, color.RGBA{R: 10, A: 0xff})
	m.SetRGBA(2, 0, color.RGBA{R: 5, A: 0x80})
	if n := ColorKey(m, KeyColor); n != 1 {
		t.Errorf("replaced %d pixels, want 1", n)
	}
	want := []color.RGBA{KeyColor, {R: 10, A: 0xff}, {R: 5, A: 0x80}}
	for x, c := range want {
		if got := m.RGBAAt(x, 0); got != c {
			t.Errorf("pixel %d = %v, want %v", x, got, c)
		}
	}
}

func TestExportGIFTransparent(t *testing.T) {
	src := testImage(t, 20, 16)
	s := defaults(t, fx.KindStamp)
	anim, err := Export(src, s, Options{Format: GIF})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	g, err := gif.DecodeAll(bytes.NewReader(anim.Data))
	if err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if len(g.Image) != anim.Timeline.Frames || g.LoopCount != 0 {
		t.Fatalf("decoded %d frames loop %d, want %d frames loop 0", len(g.Image), g.LoopCount, anim.Timeline.Frames)
	}
	for i, d := range g.Delay {
		if d != 3 {
			t.Errorf("frame %d delay %dcs, want 3", i, d)
		}
	}

	screens := Replay(g)
	if len(screens) != len(g.Image) {
		t.Fatalf("Replay returned %d screens", len(screens))
	}
	for _, v := range screens[0].Pix {
		if v != 0 {
			t.Fatal("first stamp frame is not transparent")
		}
	}
	last := screens[len(screens)-1]
	if last.RGBAAt(0, 0).A != 0 {
		t.Errorf("corner of hold frame = %v, want transparent", last.RGBAAt(0, 0))
	}
	if last.RGBAAt(10, 8).A != 0xff {
		t.Errorf("center of hold frame = %v, want opaque", last.RGBAAt(10, 8))
	}
}

func TestExportGIFOpaque(t *testing.T) {
	src := testImage(t, 20, 16)
	s := fx.RotateSettings{Direction: fx.RotateLeft, Speed: 3, Background: fx.BackgroundCustom, Color: fx.RGB{B: 0xff}}
	anim, err := Export(src, s, Options{Format: GIF})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	g, err := gif.DecodeAll(bytes.NewReader(anim.Data))
	if err != nil {
		t.Fatal(err)
	}
	for i, screen := range Replay(g) {
		for j := 3; j < len(screen.Pix); j += 4 {
			if screen.Pix[j] != 0xff {
				t.Fatalf("frame %d has transparent pixels", i)
			}
		}
	}
}

func TestExportAPNG(t *testing.T) {
	src := testImage(t, 20, 16)
	s := defaults(t, fx.KindGlow)
	anim, err := Export(src, s, Options{Format: APNG})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(anim.Data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("missing PNG signature")
	}
	if !bytes.Contains(anim.Data, []byte("acTL")) {
		t.Error("missing animation control chunk")
	}
	again, err := Export(src, s, Options{Format: APNG})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(anim.Data, again.Data) {
		t.Error("export is not deterministic")
	}
}

func TestExportLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	s := fx.RotateSettings{Direction: fx.RotateRight, Speed: 2, Background: fx.BackgroundTransparent}
	if _, err := Export(testImage(t, 8, 8), s, Options{Format: GIF, Logger: log.New(&buf)}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	for _, want := range []string{"exporting", "effect=rotate", "format=gif", "frames=30"} {
		if !bytes.Contains(line, []byte(want)) {
			t.Errorf("first log line %q lacks %q", line, want)
		}
	}
}

func TestExportWebP(t *testing.T) {
	src := testImage(t, 20, 16)
	anim, err := Export(src, defaults(t, fx.KindWave), Options{Format: WebP, Quality: 75})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(anim.Data) < 12 || string(anim.Data[:4]) != "RIFF" || string(anim.Data[8:12]) != "WEBP" {
		t.Error("missing WebP header")
	}
}

func TestExportErrors(t *testing.T) {
	src := testImage(t, 4, 4)
	good := defaults(t, fx.KindRotate)
	bad := fx.RotateSettings{Direction: fx.RotateRight, Background: fx.BackgroundTransparent}
	tests := []struct {
		name  string
		src   *fx.Image
		s     fx.Settings
		f     Format
		want  error
		input bool
	}{
		{"no image", nil, good, GIF, fx.ErrNoImage, true},
		{"no settings", src, nil, GIF, fx.ErrInvalidSettings, true},
		{"bad settings", src, bad, GIF, fx.ErrInvalidSettings, true},
		{"bad settings first", src, bad, "bmp", fx.ErrInvalidSettings, true},
		{"unknown format", src, good, "bmp", ErrExportUnavailable, false},
	}
	for _, test := range tests {
		called := false
		_, err := Export(test.src, test.s, Options{Format: test.f, Progress: func(float64) { called = true }})
		if !errors.Is(err, test.want) {
			t.Errorf("%s: err = %v, want %v", test.name, err, test.want)
		}
		if IsInputError(err) != test.input {
			t.Errorf("%s: IsInputError = %v", test.name, !test.input)
		}
		if called {
			t.Errorf("%s: progress reported", test.name)
		}
	}
}

func TestExportProgress(t *testing.T) {
	src := testImage(t, 8, 8)
	s := defaults(t, fx.KindShake)
	var got []float64
	anim, err := Export(src, s, Options{Format: APNG, Progress: func(v float64) { got = append(got, v) }})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 || got[len(got)-1] != 1 {
		t.Fatalf("progress = %v, want to end at 1", got)
	}
	rendering := 0
	for i, v := range got {
		if i > 0 && v <= got[i-1] {
			t.Fatalf("progress not increasing at %d: %v", i, got)
		}
		if v <= renderShare {
			rendering++
		}
	}
	if rendering != anim.Timeline.Frames {
		t.Errorf("%d render progress reports, want %d", rendering, anim.Timeline.Frames)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ext  string
		mime string
	}{
		{"gif", GIF, ".gif", "image/gif"},
		{"APNG", APNG, ".png", "image/apng"},
		{"png", APNG, ".png", "image/apng"},
		{" webp ", WebP, ".webp", "image/webp"},
	}
	for _, test := range tests {
		f, err := ParseFormat(test.in)
		if err != nil || f != test.want || f.Ext() != test.ext || f.MIMEType() != test.mime {
			t.Errorf("ParseFormat(%q) = %q %v, ext %q, type %q", test.in, f, err, f.Ext(), f.MIMEType())
		}
	}
	for _, f := range Formats() {
		if _, err := ParseFormat(string(f)); err != nil {
			t.Errorf("ParseFormat(%q): %v", f, err)
		}
	}
	if _, err := ParseFormat("bmp"); !errors.Is(err, ErrExportUnavailable) {
		t.Errorf("ParseFormat(bmp) err = %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	anim := &Animation{Format: APNG, Kind: fx.KindStamp, Data: []byte("frames")}
	ts := time.UnixMilli(1700000000123)
	if name := anim.Filename(ts); name != "animation-stamp-1700000000123.png" {
		t.Errorf("Filename = %q", name)
	}

	dir := t.TempDir()
	path, err := anim.WriteFile(dir, ts)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if path != filepath.Join(dir, "animation-stamp-1700000000123.png") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "frames" {
		t.Errorf("read back %q, %v", data, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d files, want 1", len(entries))
	}

	if _, err := anim.WriteFile(filepath.Join(dir, "missing"), ts); err == nil {
		t.Error("writing into a missing directory succeeded")
	}
}

func TestReplayDisposal(t *testing.T) {
	pal := color.Palette{color.Transparent, color.RGBA{R: 0xff, A: 0xff}, color.RGBA{B: 0xff, A: 0xff}}
	full := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	for i := range full.Pix {
		full.Pix[i] = 1
	}
	blue := image.NewPaletted(image.Rect(1, 1, 2, 2), pal)
	blue.Pix[0] = 2
	hole := image.NewPaletted(image.Rect(0, 0, 1, 1), pal)

	g := &gif.GIF{
		Image:    []*image.Paletted{full, blue, hole},
		Delay:    []int{1, 1, 1},
		Disposal: []byte{gif.DisposalNone, gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{Width: 2, Height: 2},
	}
	screens := Replay(g)
	if len(screens) != 3 {
		t.Fatalf("Replay returned %d screens", len(screens))
	}
	red := color.RGBA{R: 0xff, A: 0xff}
	if screens[1].RGBAAt(1, 1) != (color.RGBA{B: 0xff, A: 0xff}) || screens[1].RGBAAt(0, 0) != red {
		t.Errorf("screen 1 = %v", screens[1].Pix)
	}
	if screens[2].RGBAAt(1, 1).A != 0 {
		t.Errorf("background disposal left %v", screens[2].RGBAAt(1, 1))
	}
	if screens[2].RGBAAt(0, 0) != red {
		t.Errorf("transparent pixel overwrote %v", screens[2].RGBAAt(0, 0))
	}
}
