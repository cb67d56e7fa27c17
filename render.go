package xodr2hd

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"golang.org/x/image/vector"
)

const (
	renderMargin = 10
)

// LaneOutline Boundaries of a lane prepared for visualization
type LaneOutline struct {
	RoadID  string
	Section int
	LaneID  int
	Type    LaneType
	LeftX   []float64
	LeftY   []float64
	RightX  []float64
	RightY  []float64
}

// Polygon returns closed outline: left boundary, then right boundary backwards, then first left point again
func (outline *LaneOutline) Polygon() orb.Polygon {
	ring := make(orb.Ring, 0, len(outline.LeftX)+len(outline.RightX)+1)
	for i := range outline.LeftX {
		ring = append(ring, orb.Point{outline.LeftX[i], outline.LeftY[i]})
	}
	for i := len(outline.RightX) - 1; i >= 0; i-- {
		ring = append(ring, orb.Point{outline.RightX[i], outline.RightY[i]})
	}
	if len(outline.LeftX) != 0 {
		ring = append(ring, orb.Point{outline.LeftX[0], outline.LeftY[0]})
	}
	return orb.Polygon{ring}
}

// RoadLaneOutlines returns outlines of every lane of processed road which has boundaries
func RoadLaneOutlines(road *Road, drivingOnly bool) ([]LaneOutline, error) {
	if !road.Processed() {
		return nil, ErrNotProcessed
	}
	outlines := []LaneOutline{}
	for _, section := range road.Lanes.Sections {
		for _, lane := range section.allLanes() {
			if drivingOnly && !lane.Type.IsDriving() {
				continue
			}
			if len(lane.LeftBoundary) == 0 || len(lane.RightBoundary) == 0 {
				continue
			}
			outline := LaneOutline{
				RoadID:  road.ID,
				Section: section.Index,
				LaneID:  lane.ID,
				Type:    lane.Type,
				LeftX:   make([]float64, len(lane.LeftBoundary)),
				LeftY:   make([]float64, len(lane.LeftBoundary)),
				RightX:  make([]float64, len(lane.RightBoundary)),
				RightY:  make([]float64, len(lane.RightBoundary)),
			}
			for i, pt := range lane.LeftBoundary {
				outline.LeftX[i], outline.LeftY[i] = pt.X, pt.Y
			}
			for i, pt := range lane.RightBoundary {
				outline.RightX[i], outline.RightY[i] = pt.X, pt.Y
			}
			outlines = append(outlines, outline)
		}
	}
	return outlines, nil
}

// DocumentLaneOutlines returns outlines of every processed road of the document
func DocumentLaneOutlines(doc *Document, drivingOnly bool) ([]LaneOutline, error) {
	outlines := []LaneOutline{}
	for _, roadID := range doc.RoadIDs {
		roadOutlines, err := RoadLaneOutlines(doc.Roads[roadID], drivingOnly)
		if err != nil {
			return nil, errors.Wrapf(err, "road '%s'", roadID)
		}
		outlines = append(outlines, roadOutlines...)
	}
	return outlines, nil
}

func laneColor(laneType LaneType) color.RGBA {
	switch laneType {
	case LANE_DRIVING:
		return color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xc0}
	case LANE_SIDEWALK:
		return color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xc0}
	case LANE_BIKING:
		return color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xc0}
	case LANE_PARKING:
		return color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xc0}
	default:
		return color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xc0}
	}
}

// RenderImage rasterizes outlines into image of given size. Y axis goes up
func RenderImage(outlines []LaneOutline, width, height int) (*image.RGBA, error) {
	if width <= 2*renderMargin || height <= 2*renderMargin {
		return nil, errors.Errorf("image size %dx%d is too small", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	if len(outlines) == 0 {
		return img, nil
	}
	polygons := make([]orb.Polygon, len(outlines))
	for i := range outlines {
		polygons[i] = outlines[i].Polygon()
	}
	bound := polygons[0].Bound()
	for _, polygon := range polygons[1:] {
		bound = bound.Union(polygon.Bound())
	}
	spanX := math.Max(bound.Max.X()-bound.Min.X(), 1e-9)
	spanY := math.Max(bound.Max.Y()-bound.Min.Y(), 1e-9)
	scale := math.Min(float64(width-2*renderMargin)/spanX, float64(height-2*renderMargin)/spanY)
	toPixel := func(pt orb.Point) (float32, float32) {
		px := renderMargin + (pt.X()-bound.Min.X())*scale
		py := float64(height) - renderMargin - (pt.Y()-bound.Min.Y())*scale
		return float32(px), float32(py)
	}
	for i, polygon := range polygons {
		ring := polygon[0]
		if len(ring) < 3 {
			continue
		}
		z := vector.NewRasterizer(width, height)
		z.MoveTo(toPixel(ring[0]))
		for _, pt := range ring[1:] {
			z.LineTo(toPixel(pt))
		}
		z.ClosePath()
		z.Draw(img, img.Bounds(), image.NewUniform(laneColor(outlines[i].Type)), image.Point{})
	}
	return img, nil
}

// RenderPNG rasterizes outlines and writes PNG image
func RenderPNG(w io.Writer, outlines []LaneOutline, width, height int) error {
	img, err := RenderImage(outlines, width, height)
	if err != nil {
		return err
	}
	err = png.Encode(w, img)
	if err != nil {
		return errors.Wrap(err, "Can't encode png")
	}
	return nil
}
