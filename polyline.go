package xodr2hd

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// boundaryLineString converts boundary to planar line
func boundaryLineString(pts []BoundaryPoint) orb.LineString {
	line := make(orb.LineString, len(pts))
	for i := range pts {
		line[i] = orb.Point{pts[i].X, pts[i].Y}
	}
	return line
}

// boundaryLength returns planar length of given boundary
func boundaryLength(pts []BoundaryPoint) float64 {
	if len(pts) < 2 {
		return 0
	}
	return planar.Length(boundaryLineString(pts))
}

// reverseBoundary reverses order of points in given boundary. Returns new slice
func reverseBoundary(pts []BoundaryPoint) []BoundaryPoint {
	inputLen := len(pts)
	output := make([]BoundaryPoint, inputLen)
	for i, n := range pts {
		j := inputLen - i - 1
		output[j] = n
	}
	return output
}

// copyBoundary returns copy of given boundary
func copyBoundary(pts []BoundaryPoint) []BoundaryPoint {
	output := make([]BoundaryPoint, len(pts))
	copy(output, pts)
	return output
}

// flattenBoundary drops elevation
func flattenBoundary(pts []BoundaryPoint) []BoundaryPoint {
	output := copyBoundary(pts)
	for i := range output {
		output[i].Z = 0
	}
	return output
}
