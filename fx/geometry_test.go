package fx

import (
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		iw, ih       int
		cw, ch       int
		fill         float64
		wantW, wantH float64
	}{
		{"landscape", 400, 300, 512, 512, 0.8, 409.6, 307.2},
		{"portrait", 300, 400, 512, 512, 0.6, 230.4, 307.2},
		{"wide canvas", 100, 100, 400, 200, 0.5, 100, 100},
		{"zero image", 0, 300, 512, 512, 0.8, 0, 0},
		{"zero canvas", 400, 300, 0, 0, 0.8, 0, 0},
	}
	for _, test := range tests {
		w, h := Fit(test.iw, test.ih, test.cw, test.ch, test.fill)
		if math.Abs(w-test.wantW) > 1e-9 || math.Abs(h-test.wantH) > 1e-9 {
			t.Errorf("%s: Fit = (%v, %v), want (%v, %v)", test.name, w, h, test.wantW, test.wantH)
		}
		if w > 0 && math.Abs(w/h-float64(test.iw)/float64(test.ih)) > 1e-9 {
			t.Errorf("%s: aspect ratio not preserved", test.name)
		}
	}
}

func TestFittedSizeNeverZero(t *testing.T) {
	w, h := FittedSize(1, 1000, 10, 10, FillDefault)
	if w != 1 || h != 8 {
		t.Errorf("FittedSize = (%d, %d), want (1, 8)", w, h)
	}
	if w, h := FittedSize(0, 10, 10, 10, FillDefault); w != 0 || h != 0 {
		t.Errorf("FittedSize of empty image = (%d, %d)", w, h)
	}
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		iw, ih, limit int
		square        bool
		w, h          int
	}{
		{1600, 1200, 800, false, 800, 600},
		{400, 300, 800, false, 400, 300},
		{400, 300, 512, true, 512, 512},
		{1000, 10, 800, false, 800, 8},
		{3, 5000, 600, false, 1, 600},
	}
	for _, test := range tests {
		w, h := CanvasSize(test.iw, test.ih, test.limit, test.square)
		if w != test.w || h != test.h {
			t.Errorf("CanvasSize(%d, %d, %d, %v) = (%d, %d), want (%d, %d)",
				test.iw, test.ih, test.limit, test.square, w, h, test.w, test.h)
		}
	}
}
