package xodr2hd

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	// sampleMergeTolerance Grid samples closer than this to a forced sample are dropped
	sampleMergeTolerance = 1e-6
	// contiguityTolerance Allowed gap/overlap between consecutive primitives
	contiguityTolerance = 1e-3
)

// ReferencePoint Sample of road reference line
type ReferencePoint struct {
	S   float64
	X   float64
	Y   float64
	Hdg float64
	Z   float64
}

// ReferenceLine Sampled reference line. Arc-length is strictly increasing
type ReferenceLine []ReferencePoint

// LineString returns planar geometry of the reference line
func (line ReferenceLine) LineString() orb.LineString {
	ls := make(orb.LineString, len(line))
	for i, pt := range line {
		ls[i] = orb.Point{pt.X, pt.Y}
	}
	return ls
}

// Range returns indices [from, to] (inclusive) of samples within [s0, s1]
func (line ReferenceLine) Range(s0, s1 float64) (int, int) {
	from := sort.Search(len(line), func(i int) bool {
		return line[i].S >= s0-sampleMergeTolerance
	})
	to := sort.Search(len(line), func(i int) bool {
		return line[i].S > s1+sampleMergeTolerance
	}) - 1
	return from, to
}

// BuildReferenceLine samples road planView.
//
// Each primitive is sampled from its start every cfg.SamplingLength. Primitive boundaries, lane section
// starts and road end are always sampled. Then lane offset profile shifts points along the left normal,
// origin translation is applied and (optionally) elevation is evaluated
func BuildReferenceLine(road *Road, cfg *Config) (ReferenceLine, error) {
	if len(road.PlanView) == 0 {
		return nil, fmt.Errorf("road '%s' has no geometries", road.ID)
	}
	if !(cfg.SamplingLength > 0) {
		return nil, fmt.Errorf("sampling length should be positive, but got %f", cfg.SamplingLength)
	}
	roadLength := geometricLength(road)
	stations, err := sampleStations(road, roadLength, cfg.SamplingLength)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't sample road '%s'", road.ID)
	}

	line := make(ReferenceLine, 0, len(stations))
	gIdx := 0
	for _, s := range stations {
		// Boundary samples belong to the next primitive, except for the road end
		for gIdx+1 < len(road.PlanView) && s >= road.PlanView[gIdx+1].S-sampleMergeTolerance {
			gIdx++
		}
		geom := road.PlanView[gIdx]
		x, y, hdg, err := geom.EvaluateWithStep(primitiveOffset(geom, s), cfg.SpiralIntegrationStep)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't evaluate road '%s' at s=%f", road.ID, s)
		}
		line = append(line, ReferencePoint{S: s, X: x, Y: y, Hdg: normalizeAngle(hdg)})
	}

	applyLaneOffset(line, road.LaneOffsets)
	applyOrigin(line, cfg.Origin)
	if cfg.EnableZAxis {
		for i := range line {
			line[i].Z = evalCubicRecords(road.Elevations, line[i].S)
		}
	}
	return line, nil
}

// geometricLength returns end of the last primitive
func geometricLength(road *Road) float64 {
	last := road.PlanView[len(road.PlanView)-1]
	return last.End()
}

// sampleStations returns strictly increasing arc-length positions to sample
func sampleStations(road *Road, roadLength, step float64) ([]float64, error) {
	forced := make([]float64, 0, len(road.PlanView)+len(road.Lanes.Sections)+1)
	for i, geom := range road.PlanView {
		if i == 0 && math.Abs(geom.S) > contiguityTolerance {
			return nil, fmt.Errorf("first geometry starts at s=%f instead of 0", geom.S)
		}
		if i > 0 {
			prev := road.PlanView[i-1]
			if math.Abs(prev.End()-geom.S) > contiguityTolerance {
				return nil, fmt.Errorf("geometries are not contiguous: previous ends at s=%f, next starts at s=%f", prev.End(), geom.S)
			}
		}
		forced = append(forced, geom.S)
	}
	for _, section := range road.Lanes.Sections {
		if section.S < -contiguityTolerance || section.S > roadLength+contiguityTolerance {
			return nil, fmt.Errorf("lane section %d starts at s=%f outside of road [0, %f]", section.Index, section.S, roadLength)
		}
		forced = append(forced, section.S)
	}
	forced = append(forced, 0, roadLength)
	sort.Float64s(forced)
	forced = uniqueStations(forced, roadLength)

	stations := make([]float64, 0, int(roadLength/step)+len(forced))
	for i, s0 := range forced[:len(forced)-1] {
		s1 := forced[i+1]
		stations = append(stations, s0)
		// Grid is anchored at the start of the primitive containing the interval
		anchor := primitiveStart(road, s0)
		k := math.Floor((s0-anchor)/step) + 1
		for s := anchor + k*step; s < s1-sampleMergeTolerance; s = anchor + k*step {
			if s > s0+sampleMergeTolerance {
				stations = append(stations, s)
			}
			k++
		}
	}
	stations = append(stations, forced[len(forced)-1])
	return stations, nil
}

// uniqueStations removes near-duplicates and clamps to [0, roadLength]
func uniqueStations(sorted []float64, roadLength float64) []float64 {
	result := make([]float64, 0, len(sorted))
	for _, s := range sorted {
		s = math.Max(0, math.Min(s, roadLength))
		if len(result) > 0 && s-result[len(result)-1] <= sampleMergeTolerance {
			if s == roadLength {
				result[len(result)-1] = s
			}
			continue
		}
		result = append(result, s)
	}
	if len(result) == 1 {
		// Degenerated road (zero length) still gets two samples
		result = append(result, result[0])
	}
	return result
}

// primitiveStart returns start of the primitive containing s
func primitiveStart(road *Road, s float64) float64 {
	idx := sort.Search(len(road.PlanView), func(i int) bool {
		return road.PlanView[i].S > s+sampleMergeTolerance
	}) - 1
	if idx < 0 {
		return 0
	}
	return road.PlanView[idx].S
}

// primitiveOffset returns local offset of s on the primitive. Stations which fall into a tolerable gap
// (or overlap) between primitives are snapped to the nearest end of the primitive
func primitiveOffset(geom *Geometry, s float64) float64 {
	ds := s - geom.S
	if ds < 0 && ds >= -contiguityTolerance {
		return 0
	}
	if ds > geom.Length && ds <= geom.Length+contiguityTolerance {
		return geom.Length
	}
	return ds
}

// applyLaneOffset shifts points along the left normal of the reference line.
// Heading is kept: lanes are measured perpendicular to the original reference line
func applyLaneOffset(line ReferenceLine, offsets []*CubicRecord) {
	if len(offsets) == 0 {
		return
	}
	for i := range line {
		offset := evalCubicRecords(offsets, line[i].S)
		if offset == 0 {
			continue
		}
		line[i].X, line[i].Y = lateralShift(line[i].X, line[i].Y, line[i].Hdg, offset)
	}
}

// applyOrigin makes coordinates relative to common origin
func applyOrigin(line ReferenceLine, origin Point2D) {
	if origin.X == 0 && origin.Y == 0 {
		return
	}
	for i := range line {
		line[i].X -= origin.X
		line[i].Y -= origin.Y
	}
}

// lateralShift moves point by offset along the left normal (-sin h, cos h). Negative offset goes right
func lateralShift(x, y, hdg, offset float64) (float64, float64) {
	return x - offset*math.Sin(hdg), y + offset*math.Cos(hdg)
}
