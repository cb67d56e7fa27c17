package xodr2hd

import (
	"fmt"
	"sort"
	"sync/atomic"
)

const (
	// noJunction is junction id of roads which are not a part of any junction
	noJunction = "-1"
)

// ElementType Type of element the road is linked to
type ElementType uint16

const (
	ELEMENT_ROAD = ElementType(iota + 1)
	ELEMENT_JUNCTION
)

func (iotaIdx ElementType) String() string {
	if iotaIdx < ELEMENT_ROAD || iotaIdx > ELEMENT_JUNCTION {
		return "undefined"
	}
	return [...]string{"road", "junction"}[iotaIdx-1]
}

// ContactPoint End of linked road the link attaches to
type ContactPoint uint16

const (
	CONTACT_START = ContactPoint(iota + 1)
	CONTACT_END
)

func (iotaIdx ContactPoint) String() string {
	if iotaIdx < CONTACT_START || iotaIdx > CONTACT_END {
		return "undefined"
	}
	return [...]string{"start", "end"}[iotaIdx-1]
}

// RoadLinkElement Predecessor or successor of the road
type RoadLinkElement struct {
	ElementType  ElementType
	ElementID    string
	ContactPoint ContactPoint
}

// RoadLink Explicit linkage of the road
type RoadLink struct {
	Predecessor *RoadLinkElement
	Successor   *RoadLinkElement
}

// Road OpenDRIVE road.
//
// Road is constructed by loader and then processed exactly once (reference line and lane boundaries).
// After Process returns it must be treated as read-only
type Road struct {
	ID          string
	Name        string
	Length      float64
	JunctionID  string
	Link        RoadLink
	PlanView    []*Geometry
	LaneOffsets []*CubicRecord
	Elevations  []*CubicRecord
	Lanes       Lanes

	ReferenceLine ReferenceLine
	Failures      []*LaneFailure

	processed int32
}

// String returns pretty printed value for Road
func (road *Road) String() string {
	return fmt.Sprintf("Road '%s' | length: %f | geometries: %d | sections: %d", road.ID, road.Length, len(road.PlanView), len(road.Lanes.Sections))
}

// InJunction returns true if road is a connecting road of some junction
func (road *Road) InJunction() bool {
	return road.JunctionID != "" && road.JunctionID != noJunction
}

// Processed returns true if derived geometry has been computed
func (road *Road) Processed() bool {
	return atomic.LoadInt32(&road.processed) == 1
}

// Process computes reference line and lane boundaries. Could be called only once per road
func (road *Road) Process(cfg *Config) error {
	if !atomic.CompareAndSwapInt32(&road.processed, 0, 1) {
		return ErrAlreadyProcessed
	}
	line, err := BuildReferenceLine(road, cfg)
	if err != nil {
		return err
	}
	road.ReferenceLine = line
	failures, err := ProjectLanes(road, line, cfg)
	if err != nil {
		return err
	}
	road.Failures = failures
	return nil
}

// finalize sorts primitives and sections, evaluates section lengths and sorts lanes outward
func (road *Road) finalize() {
	sort.SliceStable(road.PlanView, func(i, j int) bool {
		return road.PlanView[i].S < road.PlanView[j].S
	})
	sort.SliceStable(road.LaneOffsets, func(i, j int) bool {
		return road.LaneOffsets[i].S < road.LaneOffsets[j].S
	})
	sort.SliceStable(road.Elevations, func(i, j int) bool {
		return road.Elevations[i].S < road.Elevations[j].S
	})
	road.Lanes.finalize(road.ID, road.Length)
}

// Lanes Container of lane sections
type Lanes struct {
	Sections []*LaneSection
}

func (lanes *Lanes) finalize(roadID string, roadLength float64) {
	sort.SliceStable(lanes.Sections, func(i, j int) bool {
		return lanes.Sections[i].S < lanes.Sections[j].S
	})
	for i, section := range lanes.Sections {
		section.RoadID = roadID
		section.Index = i
		end := roadLength
		if i+1 < len(lanes.Sections) {
			end = lanes.Sections[i+1].S
		}
		section.Length = end - section.S
		section.sortLanes()
		for _, lane := range section.allLanes() {
			lane.Width.Length = section.Length
		}
	}
}

// LaneSection Part of the road where lane layout is fixed
type LaneSection struct {
	RoadID     string // Road the section belongs to
	Index      int
	S          float64
	Length     float64
	SingleSide bool
	Left       []*Lane // ids 1, 2, ... (outward)
	Center     *Lane
	Right      []*Lane // ids -1, -2, ... (outward)
}

// End returns road position where section ends
func (section *LaneSection) End() float64 {
	return section.S + section.Length
}

func (section *LaneSection) sortLanes() {
	sort.SliceStable(section.Left, func(i, j int) bool {
		return section.Left[i].ID < section.Left[j].ID
	})
	sort.SliceStable(section.Right, func(i, j int) bool {
		return section.Right[i].ID > section.Right[j].ID
	})
}

// allLanes returns left lanes then right lanes, both outward
func (section *LaneSection) allLanes() []*Lane {
	lanes := make([]*Lane, 0, len(section.Left)+len(section.Right))
	lanes = append(lanes, section.Left...)
	lanes = append(lanes, section.Right...)
	return lanes
}

// side returns lanes on the same side as given lane id (outward order)
func (section *LaneSection) side(laneID int) []*Lane {
	if laneID > 0 {
		return section.Left
	}
	return section.Right
}

// Lane returns lane by its id
func (section *LaneSection) Lane(laneID int) *Lane {
	if laneID == 0 {
		return section.Center
	}
	for _, lane := range section.side(laneID) {
		if lane.ID == laneID {
			return lane
		}
	}
	return nil
}

// LaneLink Lane ids of predecessor/successor lanes (in neighbouring section or linked road)
type LaneLink struct {
	Predecessor *int
	Successor   *int
}

// BoundaryPoint Sampled point of lane boundary
type BoundaryPoint struct {
	S float64
	X float64
	Y float64
	Z float64
}

// Lane Single lane of lane section
type Lane struct {
	ID         int
	Type       LaneType
	Level      bool
	Width      LaneWidthProfile
	Link       LaneLink
	SpeedLimit float64 // m/s, zero if unknown

	LeftBoundary  []BoundaryPoint
	RightBoundary []BoundaryPoint
	CenterLine    []BoundaryPoint
	Materialized  bool
}

// IsLeft returns true for lanes to the left of reference line
func (lane *Lane) IsLeft() bool {
	return lane.ID > 0
}

// LaneFailure Lane which boundaries could not be computed
type LaneFailure struct {
	Section int
	Lane    int
	Err     error
}

// Junction Explicit junction connections
type Junction struct {
	ID          string
	Name        string
	Connections []*JunctionConnection
}

// JunctionConnection Connection between incoming road and connecting road of a junction
type JunctionConnection struct {
	ID             string
	IncomingRoad   string
	ConnectingRoad string
	ContactPoint   ContactPoint
	LaneLinks      []JunctionLaneLink
}

// JunctionLaneLink Lane of incoming road -> lane of connecting road
type JunctionLaneLink struct {
	From int
	To   int
}

// Header Document header
type Header struct {
	Name         string
	RevMajor     int
	RevMinor     int
	GeoReference string
	OffsetX      float64
	OffsetY      float64
	OffsetZ      float64
}

// Document Parsed OpenDRIVE document
type Document struct {
	Header    Header
	Roads     map[string]*Road
	RoadIDs   []string // Order of appearance
	Junctions map[string]*Junction
}

// NewDocument returns empty document
func NewDocument() *Document {
	return &Document{
		Roads:     make(map[string]*Road),
		Junctions: make(map[string]*Junction),
	}
}

// AddRoad registers road in the document
func (doc *Document) AddRoad(road *Road) {
	if _, ok := doc.Roads[road.ID]; !ok {
		doc.RoadIDs = append(doc.RoadIDs, road.ID)
	}
	road.finalize()
	doc.Roads[road.ID] = road
}

// AddJunction registers junction in the document
func (doc *Document) AddJunction(junction *Junction) {
	doc.Junctions[junction.ID] = junction
}
