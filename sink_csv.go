package xodr2hd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// CSVSink Writes map into 'Comma-Separated Values' files with WKT geometries.
// E.g.: if file name is 'map.csv' then 3 files will be produced: 'map_lanes.csv', 'map_roads.csv', 'map_failures.csv'
type CSVSink struct {
	FileName string
}

// Save writes lanes, roads and failures
func (sink *CSVSink) Save(hdmap *HDMap) error {
	fnameParts := strings.Split(sink.FileName, ".csv")
	fnameLanes := fnameParts[0] + "_lanes.csv"
	fnameRoads := fnameParts[0] + "_roads.csv"
	fnameFailures := fnameParts[0] + "_failures.csv"

	err := exportLanesToCSV(hdmap, fnameLanes)
	if err != nil {
		return errors.Wrap(err, "Can't export lanes")
	}
	err = exportRoadsToCSV(hdmap, fnameRoads)
	if err != nil {
		return errors.Wrap(err, "Can't export roads")
	}
	err = exportFailuresToCSV(hdmap, fnameFailures)
	if err != nil {
		return errors.Wrap(err, "Can't export failures")
	}
	return nil
}

func newCSVWriter(fname string) (*os.File, *csv.Writer, error) {
	file, err := os.Create(fname)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't create file")
	}
	writer := csv.NewWriter(file)
	writer.Comma = ';'
	return file, writer, nil
}

func elevationsString(pts []BoundaryPoint) string {
	zs := make([]string, len(pts))
	for i := range pts {
		zs[i] = fmt.Sprintf("%f", pts[i].Z)
	}
	return strings.Join(zs, " ")
}

func exportLanesToCSV(hdmap *HDMap, fname string) error {
	file, writer, err := newCSVWriter(fname)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	err = writer.Write([]string{"id", "road_id", "section", "lane_id", "type", "apollo_type", "length", "speed_limit", "reversed", "predecessors", "successors", "left_neighbor_forward", "right_neighbor_forward", "left_neighbor_reverse", "z", "central_curve", "left_boundary", "right_boundary"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, lane := range hdmap.Lanes {
		zs := ""
		if hdmap.WithZ {
			zs = elevationsString(lane.CentralCurve)
		}
		err = writer.Write([]string{
			lane.ID,
			lane.Key.Road,
			fmt.Sprintf("%d", lane.Key.Section),
			fmt.Sprintf("%d", lane.Key.Lane),
			lane.Type.String(),
			lane.Type.apolloLaneType(),
			fmt.Sprintf("%f", lane.Length),
			fmt.Sprintf("%f", lane.SpeedLimit),
			fmt.Sprintf("%t", lane.Reversed),
			strings.Join(lane.Predecessors, ","),
			strings.Join(lane.Successors, ","),
			lane.LeftNeighborForward,
			lane.RightNeighborForward,
			lane.LeftNeighborReverse,
			zs,
			wkt.MarshalString(boundaryLineString(lane.CentralCurve)),
			wkt.MarshalString(boundaryLineString(lane.LeftBoundary)),
			wkt.MarshalString(boundaryLineString(lane.RightBoundary)),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write lane")
		}
	}
	return nil
}

func exportRoadsToCSV(hdmap *HDMap, fname string) error {
	file, writer, err := newCSVWriter(fname)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	err = writer.Write([]string{"id", "name", "junction_id", "section", "s", "lanes"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, road := range hdmap.Roads {
		for _, section := range road.Sections {
			err = writer.Write([]string{
				road.ID,
				road.Name,
				road.JunctionID,
				section.ID,
				fmt.Sprintf("%f", section.S),
				strings.Join(section.LaneIDs, ","),
			})
			if err != nil {
				return errors.Wrap(err, "Can't write road")
			}
		}
	}
	return nil
}

func exportFailuresToCSV(hdmap *HDMap, fname string) error {
	file, writer, err := newCSVWriter(fname)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	err = writer.Write([]string{"road_id", "section", "lane_id", "error"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, failure := range hdmap.Failures {
		err = writer.Write([]string{failure.RoadID, "", "", failure.Err.Error()})
		if err != nil {
			return errors.Wrap(err, "Can't write failure")
		}
	}
	for _, road := range hdmap.Roads {
		for _, failure := range hdmap.LaneFailures[road.ID] {
			err = writer.Write([]string{
				road.ID,
				fmt.Sprintf("%d", failure.Section),
				fmt.Sprintf("%d", failure.Lane),
				failure.Err.Error(),
			})
			if err != nil {
				return errors.Wrap(err, "Can't write failure")
			}
		}
	}
	return nil
}
