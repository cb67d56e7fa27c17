package xodr2hd

import (
	"math"
	"sort"
)

// WidthPoly Piece of width profile: width(ds) = a + b*t + c*t^2 + d*t^3, t = ds - SOffset
type WidthPoly struct {
	SOffset    float64 // Relative to lane section start
	A, B, C, D float64
}

func (poly *WidthPoly) eval(ds float64) float64 {
	return cubic(poly.A, poly.B, poly.C, poly.D, ds-poly.SOffset)
}

// LaneWidthProfile Piecewise cubic width of a lane over its lane section
type LaneWidthProfile struct {
	Pieces []*WidthPoly // Sorted by SOffset
	Length float64      // Length of lane section
}

// Add appends piece keeping pieces sorted
func (profile *LaneWidthProfile) Add(poly *WidthPoly) {
	idx := sort.Search(len(profile.Pieces), func(i int) bool {
		return profile.Pieces[i].SOffset > poly.SOffset
	})
	profile.Pieces = append(profile.Pieces, nil)
	copy(profile.Pieces[idx+1:], profile.Pieces[idx:])
	profile.Pieces[idx] = poly
}

// WidthAt returns width at offset ds from lane section start.
// On a piece boundary the later piece is used
func (profile *LaneWidthProfile) WidthAt(ds float64) (float64, error) {
	n := len(profile.Pieces)
	if n == 0 {
		return 0, &ProfileGapError{DS: ds, Reason: "is empty"}
	}
	if ds < profile.Pieces[0].SOffset-sampleMergeTolerance || ds < -sampleMergeTolerance {
		return 0, &ProfileGapError{DS: ds, Reason: "does not cover"}
	}
	if profile.Length > 0 && ds > profile.Length+sampleMergeTolerance {
		return 0, &ProfileGapError{DS: ds, Reason: "does not cover"}
	}
	idx := sort.Search(n, func(i int) bool {
		return profile.Pieces[i].SOffset > ds+sampleMergeTolerance
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return profile.Pieces[idx].eval(ds), nil
}

// CheckContinuity reports boundary between pieces where adjoining pieces disagree more than tolerance.
// Negative tolerance disables the check
func (profile *LaneWidthProfile) CheckContinuity(tolerance float64) error {
	if tolerance < 0 {
		return nil
	}
	for i := 1; i < len(profile.Pieces); i++ {
		boundary := profile.Pieces[i].SOffset
		before := profile.Pieces[i-1].eval(boundary)
		after := profile.Pieces[i].eval(boundary)
		if math.Abs(before-after) > tolerance {
			return &ProfileGapError{DS: boundary, Reason: "is discontinuous"}
		}
	}
	return nil
}

// validWidth checks evaluated width
func validWidth(w, s float64) error {
	if math.IsNaN(w) || w < 0 {
		return &InvalidWidthError{S: s, Width: w}
	}
	return nil
}

// CumulativeInnerWidth returns sum of widths of lanes strictly between the reference line and laneID
// (on the same side) at offset ds from lane section start. Summation goes innermost first
func CumulativeInnerWidth(section *LaneSection, laneID int, ds float64) (float64, error) {
	total := 0.0
	for _, lane := range section.side(laneID) {
		if abs(lane.ID) >= abs(laneID) {
			break
		}
		w, err := lane.Width.WidthAt(ds)
		if err != nil {
			return 0, withLane(err, section.RoadID, section.Index, lane.ID)
		}
		if err := validWidth(w, section.S+ds); err != nil {
			return 0, withLane(err, section.RoadID, section.Index, lane.ID)
		}
		total += w
	}
	return total, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
