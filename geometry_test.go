package xodr2hd

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestLineEvaluate(t *testing.T) {
	geom := Geometry{Type: GEOMETRY_LINE, X: 1, Y: 2, Hdg: math.Pi / 2, Length: 10}
	x, y, hdg, err := geom.Evaluate(5)
	if err != nil {
		t.Error(err)
		return
	}
	if math.Abs(x-1) > eps || math.Abs(y-7) > eps || hdg != math.Pi/2 {
		t.Errorf("Point should be (1, 7, %f), but got (%f, %f, %f)", math.Pi/2, x, y, hdg)
	}
}

func TestArcEvaluate(t *testing.T) {
	// Half of circle with radius 10
	geom := Geometry{Type: GEOMETRY_ARC, Length: 10 * math.Pi, Curvature: 0.1}
	x, y, hdg, err := geom.Evaluate(geom.Length)
	if err != nil {
		t.Error(err)
		return
	}
	if math.Abs(x) > eps || math.Abs(y-20) > eps {
		t.Errorf("End of arc should be (0, 20), but got (%f, %f)", x, y)
	}
	if math.Abs(hdg-math.Pi) > eps {
		t.Errorf("Heading should be %f, but got %f", math.Pi, hdg)
	}
	// Right turn
	geom.Curvature = -0.1
	x, y, _, _ = geom.Evaluate(geom.Length)
	if math.Abs(x) > eps || math.Abs(y+20) > eps {
		t.Errorf("End of right arc should be (0, -20), but got (%f, %f)", x, y)
	}
}

func TestSpiralConstantCurvature(t *testing.T) {
	spiral := Geometry{Type: GEOMETRY_SPIRAL, X: 3, Y: 4, Hdg: 0.3, Length: 40, CurvStart: 0.05, CurvEnd: 0.05}
	arc := Geometry{Type: GEOMETRY_ARC, X: 3, Y: 4, Hdg: 0.3, Length: 40, Curvature: 0.05}
	for _, ds := range []float64{0, 7.5, 20, 40} {
		sx, sy, sh, err := spiral.Evaluate(ds)
		if err != nil {
			t.Error(err)
			return
		}
		ax, ay, ah, _ := arc.Evaluate(ds)
		if math.Abs(sx-ax) > eps || math.Abs(sy-ay) > eps || math.Abs(sh-ah) > eps {
			t.Errorf("Spiral with constant curvature should match arc at ds=%f: (%f, %f, %f) vs (%f, %f, %f)", ds, sx, sy, sh, ax, ay, ah)
		}
	}
}

func TestSpiralIntegration(t *testing.T) {
	spiral := Geometry{Type: GEOMETRY_SPIRAL, Length: 100, CurvStart: 0, CurvEnd: 0.02}
	x, y, hdg, err := spiral.EvaluateWithStep(100, DefaultSpiralIntegrationStep)
	if err != nil {
		t.Error(err)
		return
	}
	fx, fy, _, _ := spiral.EvaluateWithStep(100, 0.001)
	if math.Hypot(x-fx, y-fy) > 1e-3 {
		t.Errorf("Position error should be below 1e-3, but got %f", math.Hypot(x-fx, y-fy))
	}
	// theta = k0*s + (k1-k0)/(2L)*s^2 = 0.02/200*100^2
	if math.Abs(hdg-1.0) > 1e-3 {
		t.Errorf("Heading at the end should be 1.0, but got %f", hdg)
	}
	// Clothoid with total turn of 1 rad is shorter than its length along x
	if !(x < 100 && x > 85 && y > 0) {
		t.Errorf("End of spiral looks wrong: (%f, %f)", x, y)
	}
}

func TestPoly3ArcLength(t *testing.T) {
	geom := Geometry{Type: GEOMETRY_POLY3, Length: 30, C: 0.01}
	x, y, hdg, err := geom.Evaluate(30)
	if err != nil {
		t.Error(err)
		return
	}
	// Heading is zero, so x is the local u
	u := x
	if math.Abs(y-0.01*u*u) > 1e-9 {
		t.Errorf("Point should be on the curve v=0.01u^2, but got (%f, %f)", x, y)
	}
	length := simpson(func(p float64) float64 { return math.Sqrt(1 + 0.0004*p*p) }, 0, u, 0.001)
	if math.Abs(length-30) > 1e-6 {
		t.Errorf("Arc length to evaluated point should be 30, but got %f", length)
	}
	if math.Abs(hdg-math.Atan(0.02*u)) > 1e-9 {
		t.Errorf("Heading should be %f, but got %f", math.Atan(0.02*u), hdg)
	}
}

func TestParamPoly3(t *testing.T) {
	normalized := Geometry{Type: GEOMETRY_PARAM_POLY3, Length: 10, BU: 10, PRange: PRANGE_NORMALIZED}
	x, y, hdg, err := normalized.Evaluate(5)
	if err != nil {
		t.Error(err)
		return
	}
	if math.Abs(x-5) > eps || math.Abs(y) > eps || math.Abs(hdg) > eps {
		t.Errorf("Normalized paramPoly3 point should be (5, 0, 0), but got (%f, %f, %f)", x, y, hdg)
	}
	arcLength := Geometry{Type: GEOMETRY_PARAM_POLY3, Hdg: math.Pi / 2, Length: 10, BU: 1, PRange: PRANGE_ARC_LENGTH}
	x, y, hdg, _ = arcLength.Evaluate(5)
	if math.Abs(x) > eps || math.Abs(y-5) > eps || math.Abs(hdg-math.Pi/2) > eps {
		t.Errorf("Arc length paramPoly3 point should be (0, 5, %f), but got (%f, %f, %f)", math.Pi/2, x, y, hdg)
	}
}

func TestEvaluateOutOfRange(t *testing.T) {
	geom := Geometry{Type: GEOMETRY_LINE, S: 15, Length: 10}
	for _, ds := range []float64{-0.5, 10.5, math.NaN()} {
		_, _, _, err := geom.Evaluate(ds)
		if _, ok := err.(*OutOfRangeError); !ok {
			t.Errorf("Evaluation at ds=%f should fail with OutOfRangeError, but got %v", ds, err)
		}
	}
	if _, _, _, err := geom.Evaluate(10); err != nil {
		t.Errorf("Evaluation at the end should succeed, but got %v", err)
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := map[float64]float64{
		0:               0,
		math.Pi:         math.Pi,
		-math.Pi:        math.Pi,
		3 * math.Pi / 2: -math.Pi / 2,
	}
	for in, expected := range cases {
		if got := normalizeAngle(in); math.Abs(got-expected) > eps {
			t.Errorf("Normalized %f should be %f, but got %f", in, expected, got)
		}
	}
}

func TestEnumStringsUndefined(t *testing.T) {
	if s := (&Geometry{}).Type.String(); s != "undefined" {
		t.Errorf("Zero geometry type should be 'undefined', but got '%s'", s)
	}
	if s := PRangeType(0).String(); s != "undefined" {
		t.Errorf("Zero pRange should be 'undefined', but got '%s'", s)
	}
	if s := (RoadLinkElement{}).ElementType.String(); s != "undefined" {
		t.Errorf("Zero element type should be 'undefined', but got '%s'", s)
	}
	if s := ContactPoint(0).String(); s != "undefined" {
		t.Errorf("Zero contact point should be 'undefined', but got '%s'", s)
	}
	if s := PRANGE_NORMALIZED.String(); s != "normalized" {
		t.Errorf("pRange should be 'normalized', but got '%s'", s)
	}
	if s := CONTACT_END.String(); s != "end" {
		t.Errorf("Contact point should be 'end', but got '%s'", s)
	}
}
