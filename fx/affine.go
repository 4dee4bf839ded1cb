package fx

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine is a 2D affine transformation
//
//	| A B C |
//	| D E F |
//	| 0 0 1 |
//
// mapping (x, y) to (Ax + By + C, Dx + Ey + F).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Affine {
	return Affine{A: 1, E: 1}
}

func Translation(tx, ty float64) Affine {
	return Affine{A: 1, C: tx, E: 1, F: ty}
}

func Scaling(sx, sy float64) Affine {
	return Affine{A: sx, E: sy}
}

// Rotation rotates by angle radians.  In image coordinates, where y grows
// downward, positive angles turn clockwise.
func Rotation(angle float64) Affine {
	s, c := math.Sincos(angle)
	return Affine{A: c, B: -s, D: s, E: c}
}

// Mul returns m·n, the transformation applying n first and then m.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

func (m Affine) Det() float64 {
	return m.A*m.E - m.B*m.D
}

// Singular reports whether m collapses the plane onto a line or point.
func (m Affine) Singular() bool {
	return math.Abs(m.Det()) < 1e-9
}

func (m Affine) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// IntTranslation reports whether m is a translation by whole pixels and
// returns the offsets.
func (m Affine) IntTranslation() (dx, dy int, ok bool) {
	const eps = 1e-9
	if math.Abs(m.A-1) > eps || math.Abs(m.E-1) > eps || math.Abs(m.B) > eps || math.Abs(m.D) > eps {
		return 0, 0, false
	}
	rx, ry := math.Round(m.C), math.Round(m.F)
	if math.Abs(m.C-rx) > eps || math.Abs(m.F-ry) > eps {
		return 0, 0, false
	}
	return int(rx), int(ry), true
}

func (m Affine) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}
