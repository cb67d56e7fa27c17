package xodr2hd

import (
	"math"
)

const (
	earthR = 20037508.34
)

func epsg3857To4326(x, y float64) (float64, float64) {
	lon := x * 180 / earthR
	lat := math.Atan(math.Exp(y*math.Pi/earthR))*360/math.Pi - 90
	return lon, lat
}

func epsg4326To3857(lon, lat float64) (float64, float64) {
	x := lon * earthR / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return x, y
}

// localToWGS84 converts local map metres to longitude/latitude.
// Local frame is placed at geo origin, Mercator scale factor of origin latitude is compensated
func localToWGS84(x, y float64, origin GeoOrigin) (float64, float64) {
	originX, originY := epsg4326To3857(origin.Lon, origin.Lat)
	scale := 1 / math.Cos(origin.Lat*math.Pi/180)
	return epsg3857To4326(originX+x*scale, originY+y*scale)
}
