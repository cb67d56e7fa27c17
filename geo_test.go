package xodr2hd

import (
	"math"
	"testing"
)

func TestEPSGRoundTrip(t *testing.T) {
	points := [][2]float64{
		{37.6175, 55.7520},
		{-122.4194, 37.7749},
		{0, 0},
	}
	for _, pt := range points {
		x, y := epsg4326To3857(pt[0], pt[1])
		lon, lat := epsg3857To4326(x, y)
		if math.Abs(lon-pt[0]) > 1e-9 || math.Abs(lat-pt[1]) > 1e-9 {
			t.Errorf("Round trip of %v should be lossless, but got (%f, %f)", pt, lon, lat)
		}
	}
}

func TestLocalToWGS84(t *testing.T) {
	origin := GeoOrigin{Lon: 37.6175, Lat: 55.7520}
	lon, lat := localToWGS84(0, 0, origin)
	if math.Abs(lon-origin.Lon) > 1e-9 || math.Abs(lat-origin.Lat) > 1e-9 {
		t.Errorf("Local origin should be at geo origin, but got (%f, %f)", lon, lat)
	}
	// 1 km to the north and to the east: local metres are true metres around origin
	lon, lat = localToWGS84(1000, 1000, origin)
	northDeg := 1000 / 6378137.0 * 180 / math.Pi
	eastDeg := northDeg / math.Cos(origin.Lat*math.Pi/180)
	if math.Abs(lat-origin.Lat-northDeg) > 1e-4 {
		t.Errorf("Latitude should grow by %f, but got %f", northDeg, lat-origin.Lat)
	}
	if math.Abs(lon-origin.Lon-eastDeg) > 1e-4 {
		t.Errorf("Longitude should grow by %f, but got %f", eastDeg, lon-origin.Lon)
	}
}

func TestBoundaryHelpers(t *testing.T) {
	pts := []BoundaryPoint{{S: 0, X: 0, Y: 0, Z: 1}, {S: 3, X: 3, Y: 4, Z: 2}, {S: 6, X: 3, Y: 10, Z: 3}}
	if length := boundaryLength(pts); math.Abs(length-11) > eps {
		t.Errorf("Length should be 11, but got %f", length)
	}
	reversed := reverseBoundary(pts)
	if reversed[0] != pts[2] || reversed[2] != pts[0] {
		t.Errorf("Boundary should be reversed, but got %v", reversed)
	}
	flat := flattenBoundary(pts)
	if flat[1].Z != 0 || pts[1].Z != 2 {
		t.Errorf("Flattening should drop elevation of copy only")
	}
	if boundaryLength(pts[:1]) != 0 {
		t.Errorf("Single point boundary should have zero length")
	}
}
