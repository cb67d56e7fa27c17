package xodr2hd

import (
	"fmt"
	"math"
)

const (
	// evalTolerance absorbs floating noise when primitive is evaluated right at its end
	evalTolerance = 1e-9
)

// Geometry Single planView primitive of a road.
//
// Closed tagged variant: Type selects which of parameter groups is meaningful
type Geometry struct {
	Type   GeometryType
	S      float64 // Start position on the road reference line
	X      float64
	Y      float64
	Hdg    float64
	Length float64

	// arc
	Curvature float64
	// spiral
	CurvStart float64
	CurvEnd   float64
	// poly3
	A, B, C, D float64
	// paramPoly3
	AU, BU, CU, DU float64
	AV, BV, CV, DV float64
	PRange         PRangeType
}

// String returns pretty printed value for Geometry
func (g *Geometry) String() string {
	return fmt.Sprintf("%s | s: %f | x: %f | y: %f | hdg: %f | length: %f", g.Type, g.S, g.X, g.Y, g.Hdg, g.Length)
}

// End returns road position where primitive ends
func (g *Geometry) End() float64 {
	return g.S + g.Length
}

// Evaluate returns position and heading at local offset ds using default spiral integration step
func (g *Geometry) Evaluate(ds float64) (x, y, hdg float64, err error) {
	return g.EvaluateWithStep(ds, DefaultSpiralIntegrationStep)
}

// EvaluateWithStep returns position and heading at local offset ds.
// Step is used by primitives which require numerical integration (spiral, poly3)
func (g *Geometry) EvaluateWithStep(ds, step float64) (x, y, hdg float64, err error) {
	if math.IsNaN(ds) || ds < -evalTolerance || ds > g.Length+evalTolerance {
		return 0, 0, 0, &OutOfRangeError{Geometry: g.Type, S: g.S, DS: ds, Length: g.Length}
	}
	ds = math.Max(0, math.Min(ds, g.Length))
	if step <= 0 {
		step = DefaultSpiralIntegrationStep
	}
	switch g.Type {
	case GEOMETRY_LINE:
		x, y, hdg = g.evalLine(ds)
	case GEOMETRY_ARC:
		x, y, hdg = g.evalArc(ds)
	case GEOMETRY_SPIRAL:
		x, y, hdg = g.evalSpiral(ds, step)
	case GEOMETRY_POLY3:
		x, y, hdg = g.evalPoly3(ds, step)
	case GEOMETRY_PARAM_POLY3:
		x, y, hdg = g.evalParamPoly3(ds)
	default:
		return 0, 0, 0, fmt.Errorf("unknown geometry type %d at s=%f", g.Type, g.S)
	}
	return x, y, hdg, nil
}

func (g *Geometry) evalLine(ds float64) (float64, float64, float64) {
	return g.X + ds*math.Cos(g.Hdg), g.Y + ds*math.Sin(g.Hdg), g.Hdg
}

func (g *Geometry) evalArc(ds float64) (float64, float64, float64) {
	k := g.Curvature
	if math.Abs(k) < 1e-12 {
		return g.evalLine(ds)
	}
	hdg := g.Hdg + k*ds
	x := g.X + (math.Sin(hdg)-math.Sin(g.Hdg))/k
	y := g.Y - (math.Cos(hdg)-math.Cos(g.Hdg))/k
	return x, y, hdg
}

// toGlobal rotates local (u, v) by primitive heading and moves it to primitive start
func (g *Geometry) toGlobal(u, v float64) (float64, float64) {
	cos, sin := math.Cos(g.Hdg), math.Sin(g.Hdg)
	return g.X + u*cos - v*sin, g.Y + u*sin + v*cos
}

// normalizeAngle brings angle to (-pi, pi]
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	if angle > math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}
