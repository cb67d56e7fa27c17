package xodr2hd

import (
	"math"
)

// DefaultSpiralIntegrationStep Integration step (distance units) for Simpson's rule along a clothoid.
// With curvature rates met in road design (< 0.01 1/m^2) it keeps position error far below 1e-3
// and heading is evaluated in closed form
const DefaultSpiralIntegrationStep = 0.05

// evalSpiral evaluates clothoid: curvature changes linearly from CurvStart to CurvEnd over Length
func (g *Geometry) evalSpiral(ds, step float64) (float64, float64, float64) {
	k0 := g.CurvStart
	rate := 0.0
	if g.Length > 0 {
		rate = (g.CurvEnd - g.CurvStart) / g.Length
	}
	theta := func(s float64) float64 {
		return g.Hdg + k0*s + 0.5*rate*s*s
	}
	if rate == 0 {
		arc := Geometry{Type: GEOMETRY_ARC, S: g.S, X: g.X, Y: g.Y, Hdg: g.Hdg, Length: g.Length, Curvature: k0}
		return arc.evalArc(ds)
	}
	dx := simpson(func(s float64) float64 { return math.Cos(theta(s)) }, 0, ds, step)
	dy := simpson(func(s float64) float64 { return math.Sin(theta(s)) }, 0, ds, step)
	return g.X + dx, g.Y + dy, theta(ds)
}

// simpson integrates f over [a, b] with composite Simpson's rule, step is upper bound of interval width
func simpson(f func(float64) float64, a, b, step float64) float64 {
	if b <= a {
		return 0
	}
	n := int(math.Ceil((b - a) / step))
	if n < 2 {
		n = 2
	}
	if n%2 != 0 {
		n++
	}
	h := (b - a) / float64(n)
	sum := f(a) + f(b)
	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		if i%2 == 0 {
			sum += 2 * f(x)
		} else {
			sum += 4 * f(x)
		}
	}
	return sum * h / 3
}
