package xodr2hd

import (
	"fmt"
	"sort"
)

// MapLane Lane record of output map. Geometry follows driving direction
type MapLane struct {
	ID           string
	Key          LaneKey
	Type         LaneType
	Length       float64
	SpeedLimit   float64
	Reversed     bool // Lane goes against reference line of its road
	CentralCurve []BoundaryPoint
	LeftBoundary []BoundaryPoint
	// Right boundary in driving direction
	RightBoundary []BoundaryPoint

	Predecessors         []string
	Successors           []string
	LeftNeighborForward  string
	RightNeighborForward string
	LeftNeighborReverse  string
}

// MapRoadSection Section of output road
type MapRoadSection struct {
	ID      string
	S       float64
	LaneIDs []string
}

// MapRoad Road record of output map
type MapRoad struct {
	ID         string
	Name       string
	JunctionID string
	Sections   []*MapRoadSection
}

// RoadFailure Road which has not been converted
type RoadFailure struct {
	RoadID string
	Err    error
}

// HDMap Output map
type HDMap struct {
	Header       Header
	GeoOrigin    GeoOrigin
	WithZ        bool
	Roads        []*MapRoad
	Lanes        []*MapLane
	Failures     []*RoadFailure
	LaneFailures map[string][]*LaneFailure
	MissingLinks []*MissingLinkageError

	lanesIdx map[string]int
}

// String returns pretty printed value for HDMap
func (m *HDMap) String() string {
	return fmt.Sprintf("HD map '%s' | roads: %d | lanes: %d | failed roads: %d | missing links: %d", m.Header.Name, len(m.Roads), len(m.Lanes), len(m.Failures), len(m.MissingLinks))
}

// Lane returns lane by its id. Map is not modified: lookup falls back to a scan when the index
// has not been built or does not match the lanes
func (m *HDMap) Lane(id string) *MapLane {
	if m.lanesIdx != nil && len(m.lanesIdx) == len(m.Lanes) {
		idx, ok := m.lanesIdx[id]
		if !ok {
			return nil
		}
		return m.Lanes[idx]
	}
	for _, lane := range m.Lanes {
		if lane.ID == id {
			return lane
		}
	}
	return nil
}

// buildIndex indexes lanes by id. Should be called once, when the map is complete
func (m *HDMap) buildIndex() {
	m.lanesIdx = make(map[string]int, len(m.Lanes))
	for i, lane := range m.Lanes {
		m.lanesIdx[lane.ID] = i
	}
}

// FailureSummary returns sorted ids of roads which have not been converted
func (m *HDMap) FailureSummary() []string {
	ids := make([]string, 0, len(m.Failures))
	for _, failure := range m.Failures {
		ids = append(ids, failure.RoadID)
	}
	sort.Strings(ids)
	return ids
}

func keysToStrings(keys []LaneKey) []string {
	result := make([]string, len(keys))
	for i, key := range keys {
		result[i] = key.String()
	}
	return result
}

func keyToString(key *LaneKey) string {
	if key == nil {
		return ""
	}
	return key.String()
}

// newMapLane builds lane record in driving direction.
// Left lanes are reversed: their inner boundary (RightBoundary along reference line) becomes left one
func newMapLane(key LaneKey, lane *Lane, topology *LaneTopology, withZ bool) *MapLane {
	mapLane := &MapLane{
		ID:         key.String(),
		Key:        key,
		Type:       lane.Type,
		SpeedLimit: lane.SpeedLimit,
		Reversed:   lane.IsLeft(),
	}
	if lane.IsLeft() {
		mapLane.CentralCurve = reverseBoundary(lane.CenterLine)
		mapLane.LeftBoundary = reverseBoundary(lane.RightBoundary)
		mapLane.RightBoundary = reverseBoundary(lane.LeftBoundary)
	} else {
		mapLane.CentralCurve = copyBoundary(lane.CenterLine)
		mapLane.LeftBoundary = copyBoundary(lane.LeftBoundary)
		mapLane.RightBoundary = copyBoundary(lane.RightBoundary)
	}
	if !withZ {
		mapLane.CentralCurve = flattenBoundary(mapLane.CentralCurve)
		mapLane.LeftBoundary = flattenBoundary(mapLane.LeftBoundary)
		mapLane.RightBoundary = flattenBoundary(mapLane.RightBoundary)
	}
	mapLane.Length = boundaryLength(mapLane.CentralCurve)
	if topology != nil {
		mapLane.Predecessors = keysToStrings(topology.Predecessors)
		mapLane.Successors = keysToStrings(topology.Successors)
		mapLane.LeftNeighborForward = keyToString(topology.LeftNeighbor)
		mapLane.RightNeighborForward = keyToString(topology.RightNeighbor)
		mapLane.LeftNeighborReverse = keyToString(topology.LeftReverseNeighbor)
	}
	return mapLane
}
