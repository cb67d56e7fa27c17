package xodr2hd

import (
	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

var (
	// ErrNoPath is returned when target lane is not reachable from source lane
	ErrNoPath = errors.New("no path between lanes")
)

// LaneGraph Contraction hierarchies over lane successor links
type LaneGraph struct {
	graph   ch.Graph
	ids     []string
	labels  map[string]int64
	lengths []float64
}

// NewLaneGraph builds routing graph of map lanes. Every successor link becomes an edge weighted by length of its target lane
func NewLaneGraph(hdmap *HDMap) (*LaneGraph, error) {
	lg := &LaneGraph{
		graph:   ch.Graph{},
		ids:     make([]string, len(hdmap.Lanes)),
		labels:  make(map[string]int64, len(hdmap.Lanes)),
		lengths: make([]float64, len(hdmap.Lanes)),
	}
	for i, lane := range hdmap.Lanes {
		label := int64(i)
		lg.ids[i] = lane.ID
		lg.labels[lane.ID] = label
		lg.lengths[i] = lane.Length
		err := lg.graph.CreateVertex(label)
		if err != nil {
			return nil, errors.Wrapf(err, "Can not create vertex for lane '%s'", lane.ID)
		}
	}
	for i, lane := range hdmap.Lanes {
		for _, successor := range lane.Successors {
			target, ok := lg.labels[successor]
			if !ok {
				continue
			}
			err := lg.graph.AddEdge(int64(i), target, lg.lengths[target])
			if err != nil {
				return nil, errors.Wrapf(err, "Can not wrap lanes '%s' and '%s' as edge", lane.ID, successor)
			}
		}
	}
	lg.graph.PrepareContractionHierarchies()
	return lg, nil
}

// ShortestPath returns lanes from source to target (both included) and total length of these lanes
func (lg *LaneGraph) ShortestPath(from, to string) ([]string, float64, error) {
	source, ok := lg.labels[from]
	if !ok {
		return nil, 0, errors.Errorf("lane '%s' not found", from)
	}
	target, ok := lg.labels[to]
	if !ok {
		return nil, 0, errors.Errorf("lane '%s' not found", to)
	}
	if source == target {
		return []string{from}, lg.lengths[source], nil
	}
	cost, path := lg.graph.ShortestPath(source, target)
	if cost < 0 || len(path) == 0 {
		return nil, 0, ErrNoPath
	}
	lanes := make([]string, len(path))
	for i, label := range path {
		lanes[i] = lg.ids[label]
	}
	return lanes, cost + lg.lengths[source], nil
}
