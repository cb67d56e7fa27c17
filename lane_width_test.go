package xodr2hd

import (
	"math"
	"testing"
)

func TestWidthAt(t *testing.T) {
	profile := LaneWidthProfile{Length: 100}
	// Added out of order on purpose
	profile.Add(&WidthPoly{SOffset: 50, A: 3.5, B: -0.01})
	profile.Add(&WidthPoly{SOffset: 0, A: 3, B: 0.01})
	if profile.Pieces[0].SOffset != 0 || profile.Pieces[1].SOffset != 50 {
		t.Errorf("Pieces should be sorted by offset, but got %f, %f", profile.Pieces[0].SOffset, profile.Pieces[1].SOffset)
		return
	}
	correctWidths := map[float64]float64{
		0:   3,
		25:  3.25,
		50:  3.5,
		75:  3.25,
		100: 3,
	}
	for ds, expected := range correctWidths {
		w, err := profile.WidthAt(ds)
		if err != nil {
			t.Error(err)
			continue
		}
		if math.Abs(w-expected) > eps {
			t.Errorf("Width at %f should be %f, but got %f", ds, expected, w)
		}
	}
	if err := profile.CheckContinuity(1e-3); err != nil {
		t.Errorf("Profile should be continuous: %s", err)
	}
}

func TestWidthAtGaps(t *testing.T) {
	empty := LaneWidthProfile{Length: 10}
	if _, err := empty.WidthAt(1); err == nil {
		t.Errorf("Empty profile should not be evaluated")
	}

	profile := LaneWidthProfile{Length: 10}
	profile.Add(&WidthPoly{SOffset: 2, A: 3})
	for _, ds := range []float64{1, -0.5, 10.5} {
		_, err := profile.WidthAt(ds)
		if _, ok := err.(*ProfileGapError); !ok {
			t.Errorf("Width at %f should fail with ProfileGapError, but got %v", ds, err)
		}
	}
}

func TestCheckContinuity(t *testing.T) {
	profile := LaneWidthProfile{Length: 100}
	profile.Add(&WidthPoly{SOffset: 0, A: 3.5})
	profile.Add(&WidthPoly{SOffset: 50, A: 3.0})
	err := profile.CheckContinuity(1e-3)
	gap, ok := err.(*ProfileGapError)
	if !ok {
		t.Errorf("Discontinuity should be reported as ProfileGapError, but got %v", err)
		return
	}
	if gap.DS != 50 {
		t.Errorf("Discontinuity should be at 50, but got %f", gap.DS)
	}
	if err := profile.CheckContinuity(-1); err != nil {
		t.Errorf("Negative tolerance should disable the check, but got %s", err)
	}
	if err := profile.CheckContinuity(1); err != nil {
		t.Errorf("Jump of 0.5 should be accepted with tolerance 1, but got %s", err)
	}
}

func TestCumulativeInnerWidth(t *testing.T) {
	section := &LaneSection{
		S: 10,
		Right: []*Lane{
			constantWidthLane(-3, LANE_SHOULDER, 1),
			constantWidthLane(-1, LANE_DRIVING, 3.5),
			constantWidthLane(-2, LANE_DRIVING, 3),
		},
		Left: []*Lane{
			constantWidthLane(1, LANE_DRIVING, 3.25),
		},
	}
	section.sortLanes()
	correctWidths := map[int]float64{
		-1: 0,
		-2: 3.5,
		-3: 6.5,
		1:  0,
		2:  3.25,
	}
	for laneID, expected := range correctWidths {
		w, err := CumulativeInnerWidth(section, laneID, 5)
		if err != nil {
			t.Error(err)
			continue
		}
		if math.Abs(w-expected) > eps {
			t.Errorf("Cumulative inner width of lane %d should be %f, but got %f", laneID, expected, w)
		}
	}

	section.Right[0].Width = LaneWidthProfile{}
	section.Right[0].Width.Add(&WidthPoly{A: -1})
	_, err := CumulativeInnerWidth(section, -3, 5)
	invalid, ok := err.(*InvalidWidthError)
	if !ok {
		t.Errorf("Negative width should be reported as InvalidWidthError, but got %v", err)
		return
	}
	if invalid.Lane != -1 {
		t.Errorf("Failed lane should be -1, but got %d", invalid.Lane)
	}
}

func TestCumulativeInnerWidthNamesRoad(t *testing.T) {
	bad := &Lane{ID: -1, Type: LANE_DRIVING}
	bad.Width.Add(&WidthPoly{SOffset: 5, A: 3})
	road := newRoad("7", []*Geometry{{Type: GEOMETRY_LINE, Length: 20}}, &LaneSection{
		S:     0,
		Right: []*Lane{bad, constantWidthLane(-2, LANE_DRIVING, 3)},
	})
	_, err := CumulativeInnerWidth(road.Lanes.Sections[0], -2, 1)
	gap, ok := err.(*ProfileGapError)
	if !ok {
		t.Errorf("Uncovered offset should be reported as ProfileGapError, but got %v", err)
		return
	}
	if gap.Road != "7" || gap.Section != 0 || gap.Lane != -1 {
		t.Errorf("Error should name road '7' section 0 lane -1, but got %+v", gap)
	}
}
