package xodr2hd

import (
	"math"
)

const (
	newtonMaxIterations = 30
	newtonTolerance     = 1e-9
)

func cubic(a, b, c, d, p float64) float64 {
	return a + p*(b+p*(c+p*d))
}

func cubicDerivative(b, c, d, p float64) float64 {
	return b + p*(2*c+p*3*d)
}

// evalPoly3 evaluates local cubic v(u). Offset ds is arc length so u is recovered
// by inverting numerically integrated arc length of the curve
func (g *Geometry) evalPoly3(ds, step float64) (float64, float64, float64) {
	speed := func(u float64) float64 {
		dv := cubicDerivative(g.B, g.C, g.D, u)
		return math.Sqrt(1 + dv*dv)
	}
	u := ds
	for i := 0; i < newtonMaxIterations; i++ {
		diff := simpson(speed, 0, u, step) - ds
		if math.Abs(diff) < newtonTolerance {
			break
		}
		u -= diff / speed(u)
		if u < 0 {
			u = 0
		}
	}
	v := cubic(g.A, g.B, g.C, g.D, u)
	x, y := g.toGlobal(u, v)
	return x, y, g.Hdg + math.Atan(cubicDerivative(g.B, g.C, g.D, u))
}

// evalParamPoly3 evaluates parametric cubic (u(p), v(p)).
// For arcLength range p equals ds, for normalized range p is ds/Length
func (g *Geometry) evalParamPoly3(ds float64) (float64, float64, float64) {
	p := ds
	if g.PRange == PRANGE_NORMALIZED && g.Length > 0 {
		p = ds / g.Length
	}
	u := cubic(g.AU, g.BU, g.CU, g.DU, p)
	v := cubic(g.AV, g.BV, g.CV, g.DV, p)
	du := cubicDerivative(g.BU, g.CU, g.DU, p)
	dv := cubicDerivative(g.BV, g.CV, g.DV, p)
	x, y := g.toGlobal(u, v)
	return x, y, g.Hdg + math.Atan2(dv, du)
}
