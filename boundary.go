package xodr2hd

import (
	"fmt"

	"github.com/pkg/errors"
)

// ProjectLanes computes boundaries of every lane of the road by lateral offset of the reference line.
//
// Offsets are accumulated innermost first on each side and every offset level is projected once:
// outer boundary of lane k and inner boundary of lane k+1 are the very same points.
// Left lanes go along the left normal, right lanes along the right normal, so offset magnitudes are positive on both sides.
// Boundaries are named relative to the reference line direction: left lane has inner RightBoundary and outer LeftBoundary,
// right lane has inner LeftBoundary and outer RightBoundary.
//
// Width failures do not stop processing: failed lane and every lane outward of it on the same side are reported as LaneFailure
func ProjectLanes(road *Road, line ReferenceLine, cfg *Config) ([]*LaneFailure, error) {
	if len(line) < 2 {
		return nil, fmt.Errorf("road '%s': reference line should have at least 2 samples, but got %d", road.ID, len(line))
	}
	failures := []*LaneFailure{}
	sections := road.Lanes.Sections
	for i, section := range sections {
		from, to := line.Range(section.S, section.End())
		if i == len(sections)-1 {
			to = len(line) - 1
			if tail := line[to].S - section.S; tail > section.Length {
				for _, lane := range section.allLanes() {
					lane.Width.Length = tail
				}
			}
		}
		if from > to {
			return nil, errors.Wrapf(fmt.Errorf("no samples in [%f, %f]", section.S, section.End()), "road '%s' lane section %d", road.ID, section.Index)
		}
		samples := line[from : to+1]
		failures = append(failures, projectSide(road, section, section.Left, samples, 1.0, cfg)...)
		failures = append(failures, projectSide(road, section, section.Right, samples, -1.0, cfg)...)
	}
	return failures, nil
}

// projectSide walks lanes of one side outward. Sign is +1 for left side, -1 for right side
func projectSide(road *Road, section *LaneSection, lanes []*Lane, samples ReferenceLine, sign float64, cfg *Config) []*LaneFailure {
	var failures []*LaneFailure
	offsets := make([]float64, len(samples))
	inner := projectOffsets(samples, offsets, sign)
	var innerFailure error
	for _, lane := range lanes {
		if innerFailure != nil {
			failures = append(failures, &LaneFailure{
				Section: section.Index,
				Lane:    lane.ID,
				Err:     errors.Wrapf(innerFailure, "inner lane failed"),
			})
			continue
		}
		widths, err := laneWidths(road, section, lane, samples, cfg)
		if err != nil {
			innerFailure = err
			failures = append(failures, &LaneFailure{Section: section.Index, Lane: lane.ID, Err: err})
			continue
		}
		outerOffsets := make([]float64, len(samples))
		centerOffsets := make([]float64, len(samples))
		for i := range samples {
			outerOffsets[i] = offsets[i] + widths[i]
			centerOffsets[i] = offsets[i] + widths[i]/2
		}
		outer := projectOffsets(samples, outerOffsets, sign)
		if !cfg.DrivingOnly || lane.Type.IsDriving() {
			if sign > 0 {
				lane.RightBoundary, lane.LeftBoundary = inner, outer
			} else {
				lane.LeftBoundary, lane.RightBoundary = inner, outer
			}
			lane.CenterLine = projectOffsets(samples, centerOffsets, sign)
			lane.Materialized = true
		}
		offsets, inner = outerOffsets, outer
	}
	return failures
}

// laneWidths evaluates lane width at every sample
func laneWidths(road *Road, section *LaneSection, lane *Lane, samples ReferenceLine, cfg *Config) ([]float64, error) {
	if err := lane.Width.CheckContinuity(cfg.WidthContinuityTolerance); err != nil {
		return nil, withLane(err, road.ID, section.Index, lane.ID)
	}
	widths := make([]float64, len(samples))
	for i, sample := range samples {
		w, err := lane.Width.WidthAt(sample.S - section.S)
		if err != nil {
			return nil, withLane(err, road.ID, section.Index, lane.ID)
		}
		if err := validWidth(w, sample.S); err != nil {
			return nil, withLane(err, road.ID, section.Index, lane.ID)
		}
		widths[i] = w
	}
	return widths, nil
}

// projectOffsets returns points shifted perpendicular to reference line heading
func projectOffsets(samples ReferenceLine, offsets []float64, sign float64) []BoundaryPoint {
	pts := make([]BoundaryPoint, len(samples))
	for i, sample := range samples {
		x, y := lateralShift(sample.X, sample.Y, sample.Hdg, sign*offsets[i])
		pts[i] = BoundaryPoint{S: sample.S, X: x, Y: y, Z: sample.Z}
	}
	return pts
}
