package xodr2hd

import (
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// GeoJSONSink Writes lanes as FeatureCollection. Local coordinates are projected to WGS84 around map geo origin
type GeoJSONSink struct {
	FileName string
}

// Save writes central curves and boundaries of every lane
func (sink *GeoJSONSink) Save(hdmap *HDMap) error {
	fc := PrepareGeoJSONCollection(hdmap)
	b, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't convert map to geojson format")
	}
	err = os.WriteFile(sink.FileName, b, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}

// PrepareGeoJSONCollection returns GeoJSON representation of map lanes
func PrepareGeoJSONCollection(hdmap *HDMap) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, lane := range hdmap.Lanes {
		curves := []struct {
			kind string
			pts  []BoundaryPoint
		}{
			{"central_curve", lane.CentralCurve},
			{"left_boundary", lane.LeftBoundary},
			{"right_boundary", lane.RightBoundary},
		}
		for _, curve := range curves {
			feature := geojson.NewLineStringFeature(prepareGeoJSONCoordinates(curve.pts, hdmap.GeoOrigin, hdmap.WithZ))
			feature.ID = lane.ID + ":" + curve.kind
			feature.SetProperty("lane_id", lane.ID)
			feature.SetProperty("road_id", lane.Key.Road)
			feature.SetProperty("kind", curve.kind)
			feature.SetProperty("type", lane.Type.String())
			if curve.kind == "central_curve" {
				feature.SetProperty("length", lane.Length)
				feature.SetProperty("predecessors", lane.Predecessors)
				feature.SetProperty("successors", lane.Successors)
				feature.SetProperty("left_neighbor_forward", lane.LeftNeighborForward)
				feature.SetProperty("right_neighbor_forward", lane.RightNeighborForward)
				feature.SetProperty("left_neighbor_reverse", lane.LeftNeighborReverse)
			}
			fc.AddFeature(feature)
		}
	}
	return fc
}

func prepareGeoJSONCoordinates(pts []BoundaryPoint, origin GeoOrigin, withZ bool) [][]float64 {
	coords := make([][]float64, len(pts))
	for i := range pts {
		lon, lat := localToWGS84(pts[i].X, pts[i].Y, origin)
		if withZ {
			coords[i] = []float64{lon, lat, pts[i].Z}
		} else {
			coords[i] = []float64{lon, lat}
		}
	}
	return coords
}
