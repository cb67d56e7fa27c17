package xodr2hd

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// OSMSink Writes map in Lanelet2 flavoured OSM XML: boundaries are ways, lanes are 'lanelet' relations.
// Adjacent lanes share boundary ways since their boundaries are equal point by point
type OSMSink struct {
	FileName string
}

type osmBuilder struct {
	data    *osm.OSM
	origin  GeoOrigin
	withZ   bool
	nodes   map[[3]float64]osm.NodeID
	ways    map[string]osm.WayID
	lastWay osm.WayID
}

// Save writes map as OSM XML
func (sink *OSMSink) Save(hdmap *HDMap) error {
	data := PrepareOSM(hdmap)
	b, err := xml.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "Can't convert map to OSM format")
	}
	b = append([]byte(xml.Header), b...)
	err = os.WriteFile(sink.FileName, b, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}

// PrepareOSM returns OSM representation of map lanes
func PrepareOSM(hdmap *HDMap) *osm.OSM {
	builder := &osmBuilder{
		data: &osm.OSM{
			Version:   "0.6",
			Generator: "xodr2hd",
		},
		origin: hdmap.GeoOrigin,
		withZ:  hdmap.WithZ,
		nodes:  make(map[[3]float64]osm.NodeID),
		ways:   make(map[string]osm.WayID),
	}
	for i, lane := range hdmap.Lanes {
		left := builder.way(lane.LeftBoundary)
		right := builder.way(lane.RightBoundary)
		tags := osm.Tags{
			{Key: "type", Value: "lanelet"},
			{Key: "subtype", Value: laneletSubtype(lane.Type)},
			{Key: "location", Value: "urban"},
			{Key: "one_way", Value: "yes"},
			{Key: "xodr:lane_id", Value: lane.ID},
			{Key: "xodr:type", Value: lane.Type.String()},
		}
		if lane.SpeedLimit > 0 {
			tags = append(tags, osm.Tag{Key: "speed_limit", Value: fmt.Sprintf("%.2f", lane.SpeedLimit*3.6)})
		}
		if len(lane.Successors) != 0 {
			tags = append(tags, osm.Tag{Key: "xodr:successors", Value: strings.Join(lane.Successors, ";")})
		}
		if len(lane.Predecessors) != 0 {
			tags = append(tags, osm.Tag{Key: "xodr:predecessors", Value: strings.Join(lane.Predecessors, ";")})
		}
		builder.data.Relations = append(builder.data.Relations, &osm.Relation{
			ID:      osm.RelationID(i + 1),
			Visible: true,
			Version: 1,
			Members: osm.Members{
				{Type: osm.TypeWay, Ref: int64(left), Role: "left"},
				{Type: osm.TypeWay, Ref: int64(right), Role: "right"},
			},
			Tags: tags,
		})
	}
	return builder.data
}

func laneletSubtype(laneType LaneType) string {
	switch laneType {
	case LANE_SIDEWALK:
		return "walkway"
	case LANE_BIKING:
		return "bicycle_lane"
	case LANE_PARKING:
		return "parking"
	default:
		return "road"
	}
}

// node returns id of node at given point, creating it when needed
func (builder *osmBuilder) node(pt BoundaryPoint) osm.NodeID {
	z := 0.0
	if builder.withZ {
		z = pt.Z
	}
	key := [3]float64{pt.X, pt.Y, z}
	if id, ok := builder.nodes[key]; ok {
		return id
	}
	id := osm.NodeID(len(builder.nodes) + 1)
	lon, lat := localToWGS84(pt.X, pt.Y, builder.origin)
	tags := osm.Tags{
		{Key: "local_x", Value: fmt.Sprintf("%.4f", pt.X)},
		{Key: "local_y", Value: fmt.Sprintf("%.4f", pt.Y)},
	}
	if builder.withZ {
		tags = append(tags, osm.Tag{Key: "ele", Value: fmt.Sprintf("%.4f", z)})
	}
	builder.nodes[key] = id
	builder.data.Nodes = append(builder.data.Nodes, &osm.Node{
		ID:      id,
		Lat:     lat,
		Lon:     lon,
		Visible: true,
		Version: 1,
		Tags:    tags,
	})
	return id
}

// way returns id of way passing through given points, reusing identical way
func (builder *osmBuilder) way(pts []BoundaryPoint) osm.WayID {
	wayNodes := make(osm.WayNodes, len(pts))
	signature := make([]string, len(pts))
	for i, pt := range pts {
		id := builder.node(pt)
		wayNodes[i] = osm.WayNode{ID: id}
		signature[i] = fmt.Sprintf("%d", id)
	}
	key := strings.Join(signature, ",")
	if id, ok := builder.ways[key]; ok {
		return id
	}
	builder.lastWay++
	id := builder.lastWay
	builder.ways[key] = id
	builder.data.Ways = append(builder.data.Ways, &osm.Way{
		ID:      id,
		Visible: true,
		Version: 1,
		Nodes:   wayNodes,
		Tags: osm.Tags{
			{Key: "type", Value: "line_thin"},
			{Key: "subtype", Value: "solid"},
		},
	})
	return id
}
