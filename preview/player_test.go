package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/bmatsuo/img2anim/fx"
)

type recorder struct {
	mu     sync.Mutex
	frames []*image.RGBA
	err    error
}

func (r *recorder) Present(img image.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	m := img.(*image.RGBA)
	r.frames = append(r.frames, &image.RGBA{Pix: bytes.Clone(m.Pix), Stride: m.Stride, Rect: m.Rect})
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func testImage(t *testing.T) *fx.Image {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, 24, 18))
	for y := 0; y < 18; y++ {
		for x := 0; x < 24; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 14), B: 0x40, A: 0xff})
		}
	}
	img, err := fx.NewImage(m)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func newTestPlayer(t *testing.T, k fx.Kind, opts ...Option) (*Player, *recorder) {
	t.Helper()
	rec := new(recorder)
	p := NewPlayer(rec, opts...)
	s, err := fx.Defaults(k)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetScene(testImage(t), s); err != nil {
		t.Fatalf("SetScene: %v", err)
	}
	return p, rec
}

func TestStepLoops(t *testing.T) {
	p, rec := newTestPlayer(t, fx.KindShake)
	tl, err := p.Timeline()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= tl.Frames; i++ {
		if err := p.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if p.Frame() != uint64(tl.Frames+1) || rec.count() != tl.Frames+1 {
		t.Fatalf("frame %d, %d presented", p.Frame(), rec.count())
	}
	if !bytes.Equal(rec.frames[0].Pix, rec.frames[tl.Frames].Pix) {
		t.Error("frame after the loop differs from the first frame")
	}
	if bytes.Equal(rec.frames[0].Pix, rec.frames[1].Pix) {
		t.Error("first two frames are identical")
	}
}

func TestStepWithoutScene(t *testing.T) {
	p := NewPlayer(new(recorder))
	if err := p.Step(); !errors.Is(err, fx.ErrNoImage) {
		t.Errorf("err = %v", err)
	}
	if err := p.SetScene(nil, fx.RotateSettings{}); !errors.Is(err, fx.ErrNoImage) {
		t.Errorf("SetScene(nil) err = %v", err)
	}
}

func TestPauseKeepsFrame(t *testing.T) {
	p, _ := newTestPlayer(t, fx.KindRotate)
	for i := 0; i < 3; i++ {
		p.Step()
	}
	p.Pause()
	if p.Playing() || p.Frame() != 3 {
		t.Errorf("paused: playing %v frame %d", p.Playing(), p.Frame())
	}
	if !p.Toggle() || p.Frame() != 3 {
		t.Errorf("toggled: playing %v frame %d", p.Playing(), p.Frame())
	}
	if p.Toggle() {
		t.Error("second toggle did not pause")
	}
	p.Resume()
	if !p.Playing() || p.Frame() != 3 {
		t.Errorf("resumed: playing %v frame %d", p.Playing(), p.Frame())
	}
}

func TestSceneChangeResets(t *testing.T) {
	p, _ := newTestPlayer(t, fx.KindRotate)
	for i := 0; i < 5; i++ {
		p.Step()
	}
	if err := p.SetKind(fx.KindGlow); err != nil {
		t.Fatal(err)
	}
	if p.Frame() != 0 || p.Settings().Kind() != fx.KindGlow {
		t.Errorf("after SetKind: frame %d, kind %v", p.Frame(), p.Settings().Kind())
	}

	p.Step()
	bad := fx.WaveSettings{Type: fx.WaveVertical}
	if err := p.SetSettings(bad); !errors.Is(err, fx.ErrInvalidSettings) {
		t.Errorf("invalid settings: err = %v", err)
	}
	if p.Frame() != 1 || p.Settings().Kind() != fx.KindGlow {
		t.Error("rejected settings changed the scene")
	}
	if err := p.SetKind("spin"); !errors.Is(err, fx.ErrUnknownKind) {
		t.Errorf("unknown kind: err = %v", err)
	}
}

func TestRun(t *testing.T) {
	p, rec := newTestPlayer(t, fx.KindShake, WithFrameRate(100))
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if n := rec.count(); n < 2 {
		t.Errorf("%d frames presented", n)
	}
	if p.Frame() != uint64(rec.count()) {
		t.Errorf("frame counter %d, %d presented", p.Frame(), rec.count())
	}
}

func TestRunPaused(t *testing.T) {
	p, rec := newTestPlayer(t, fx.KindShake, WithFrameRate(100))
	p.Pause()
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if n := rec.count(); n != 0 {
		t.Errorf("%d frames presented while paused", n)
	}
}

func TestRunSurfaceError(t *testing.T) {
	p, rec := newTestPlayer(t, fx.KindShake, WithFrameRate(100))
	errBroken := errors.New("broken pipe")
	rec.err = errBroken
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Run(ctx); !errors.Is(err, errBroken) {
		t.Errorf("Run err = %v", err)
	}
}
