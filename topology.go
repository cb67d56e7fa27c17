package xodr2hd

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// LaneKey Identity of a lane in the document
type LaneKey struct {
	Road    string
	Section int
	Lane    int
}

// String returns id of the lane in output map
func (key LaneKey) String() string {
	return fmt.Sprintf("road_%s_lane_%d_%d", key.Road, key.Section, key.Lane)
}

// LaneTopology Relations of a lane in driving direction (right-hand traffic: right lanes go along
// the reference line, left lanes go against it)
type LaneTopology struct {
	Predecessors        []LaneKey
	Successors          []LaneKey
	LeftNeighbor        *LaneKey
	RightNeighbor       *LaneKey
	LeftReverseNeighbor *LaneKey
}

// Topology Relations of every materialized lane
type Topology map[LaneKey]*LaneTopology

type linkStatus uint16

const (
	linkOK = linkStatus(iota + 1)
	linkSkip
	linkMissing
)

type topologyAssembler struct {
	doc      *Document
	failed   map[string]error
	logger   *zap.Logger
	topology Topology
	missing  []*MissingLinkageError
}

// AssembleTopology links lanes of processed roads. Should be called only after every road has been processed.
//
// Lane sections of the same road are linked through explicit lane links or, when neither side declares one, through equal lane ids.
// Roads are linked only through explicit road links and junction connections.
// Links to unknown roads or lanes are returned as MissingLinkageError and omitted;
// links to lanes which exist but have not been materialized (filtered or failed) are omitted silently
func AssembleTopology(doc *Document, failed map[string]error, logger *zap.Logger) (Topology, []*MissingLinkageError) {
	if logger == nil {
		logger = zap.NewNop()
	}
	asm := &topologyAssembler{
		doc:      doc,
		failed:   failed,
		logger:   logger,
		topology: make(Topology),
	}
	for _, roadID := range doc.RoadIDs {
		if _, ok := failed[roadID]; ok {
			continue
		}
		road := doc.Roads[roadID]
		for _, section := range road.Lanes.Sections {
			for _, lane := range section.allLanes() {
				if lane.Materialized {
					asm.topology[LaneKey{Road: road.ID, Section: section.Index, Lane: lane.ID}] = &LaneTopology{}
				}
			}
		}
	}
	for _, roadID := range doc.RoadIDs {
		if _, ok := failed[roadID]; ok {
			continue
		}
		road := doc.Roads[roadID]
		asm.linkSections(road)
		asm.linkRoads(road)
		asm.linkNeighbors(road)
	}
	for _, item := range asm.topology {
		sortKeys(item.Predecessors)
		sortKeys(item.Successors)
	}
	return asm.topology, asm.missing
}

func sortKeys(keys []LaneKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
}

// resolve checks whether lane is known and materialized
func (asm *topologyAssembler) resolve(roadID string, sectionIdx, laneID int) (LaneKey, linkStatus, string) {
	key := LaneKey{Road: roadID, Section: sectionIdx, Lane: laneID}
	road, ok := asm.doc.Roads[roadID]
	if !ok {
		return key, linkMissing, "road does not exist"
	}
	if sectionIdx < 0 || sectionIdx >= len(road.Lanes.Sections) {
		return key, linkMissing, "road has no lane sections"
	}
	if laneID == 0 {
		return key, linkSkip, ""
	}
	if road.Lanes.Sections[sectionIdx].Lane(laneID) == nil {
		return key, linkMissing, fmt.Sprintf("lane does not exist in section %d", sectionIdx)
	}
	if _, ok := asm.topology[key]; !ok {
		return key, linkSkip, ""
	}
	return key, linkOK, ""
}

// linkAlongS registers link between lane 'from' and lane 'to' where lane 'to' follows 'from' in terms of
// reference line of the 'from' road. Driving direction is defined by side of 'from' lane
func (asm *topologyAssembler) linkAlongS(from LaneKey, toRoad string, toSection, toLane int) {
	if _, ok := asm.topology[from]; !ok {
		return
	}
	to, status, reason := asm.resolve(toRoad, toSection, toLane)
	switch status {
	case linkSkip:
		return
	case linkMissing:
		err := &MissingLinkageError{From: from, Road: toRoad, Lane: toLane, Reason: reason}
		asm.logger.Warn("Missing linkage", zap.String("lane", from.String()), zap.Error(err))
		asm.missing = append(asm.missing, err)
		return
	}
	if from.Lane < 0 {
		asm.addEdge(from, to)
	} else {
		asm.addEdge(to, from)
	}
}

// addEdge adds driving connection source -> target
func (asm *topologyAssembler) addEdge(source, target LaneKey) {
	sourceTopology := asm.topology[source]
	targetTopology := asm.topology[target]
	sourceTopology.Successors = appendUnique(sourceTopology.Successors, target)
	targetTopology.Predecessors = appendUnique(targetTopology.Predecessors, source)
}

func appendUnique(keys []LaneKey, key LaneKey) []LaneKey {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}

// linkSections links consecutive lane sections of the road
func (asm *topologyAssembler) linkSections(road *Road) {
	sections := road.Lanes.Sections
	for i := 0; i+1 < len(sections); i++ {
		cur, next := sections[i], sections[i+1]
		declaredPredecessor := make(map[int]bool)
		for _, lane := range next.allLanes() {
			if lane.Link.Predecessor != nil {
				declaredPredecessor[*lane.Link.Predecessor] = true
				from, status, reason := asm.resolve(road.ID, cur.Index, *lane.Link.Predecessor)
				switch status {
				case linkOK:
					// Orientation is defined by the earlier lane, so link is registered from its side
					asm.linkAlongS(from, road.ID, next.Index, lane.ID)
				case linkMissing:
					key := LaneKey{Road: road.ID, Section: next.Index, Lane: lane.ID}
					if _, ok := asm.topology[key]; ok {
						err := &MissingLinkageError{From: key, Road: road.ID, Lane: *lane.Link.Predecessor, Reason: reason}
						asm.logger.Warn("Missing linkage", zap.String("lane", key.String()), zap.Error(err))
						asm.missing = append(asm.missing, err)
					}
				}
			}
		}
		for _, lane := range cur.allLanes() {
			from := LaneKey{Road: road.ID, Section: cur.Index, Lane: lane.ID}
			if lane.Link.Successor != nil {
				asm.linkAlongS(from, road.ID, next.Index, *lane.Link.Successor)
				continue
			}
			if declaredPredecessor[lane.ID] {
				continue
			}
			if sameLane := next.Lane(lane.ID); sameLane != nil && sameLane.Link.Predecessor == nil {
				asm.linkAlongS(from, road.ID, next.Index, lane.ID)
			}
		}
	}
}

// targetSection returns index of section of linked road the contact point refers to
func (asm *topologyAssembler) targetSection(roadID string, contact ContactPoint) int {
	road, ok := asm.doc.Roads[roadID]
	if !ok || len(road.Lanes.Sections) == 0 {
		return -1
	}
	if contact == CONTACT_END {
		return len(road.Lanes.Sections) - 1
	}
	return 0
}

// linkRoads links lanes at both ends of the road to other roads through explicit road links and junction connections
func (asm *topologyAssembler) linkRoads(road *Road) {
	sections := road.Lanes.Sections
	if len(sections) == 0 {
		return
	}
	first, last := sections[0], sections[len(sections)-1]
	if succ := road.Link.Successor; succ != nil {
		asm.linkEnd(road, last, succ, true)
	}
	if pred := road.Link.Predecessor; pred != nil {
		asm.linkEnd(road, first, pred, false)
	}
}

// linkEnd links lanes of the boundary section to the element. atEnd is true for successor element
func (asm *topologyAssembler) linkEnd(road *Road, section *LaneSection, element *RoadLinkElement, atEnd bool) {
	register := func(laneID int, targetRoad string, targetSection, targetLane int) {
		key := LaneKey{Road: road.ID, Section: section.Index, Lane: laneID}
		if _, ok := asm.topology[key]; !ok {
			return
		}
		if atEnd {
			asm.linkAlongS(key, targetRoad, targetSection, targetLane)
			return
		}
		// Target precedes the lane: reversed orientation
		to, status, reason := asm.resolve(targetRoad, targetSection, targetLane)
		switch status {
		case linkSkip:
			return
		case linkMissing:
			err := &MissingLinkageError{From: key, Road: targetRoad, Lane: targetLane, Reason: reason}
			asm.logger.Warn("Missing linkage", zap.String("lane", key.String()), zap.Error(err))
			asm.missing = append(asm.missing, err)
			return
		}
		if key.Lane < 0 {
			asm.addEdge(to, key)
		} else {
			asm.addEdge(key, to)
		}
	}

	switch element.ElementType {
	case ELEMENT_ROAD:
		targetSection := asm.targetSection(element.ElementID, element.ContactPoint)
		for _, lane := range section.allLanes() {
			var target *int
			if atEnd {
				target = lane.Link.Successor
			} else {
				target = lane.Link.Predecessor
			}
			if target == nil {
				continue
			}
			register(lane.ID, element.ElementID, targetSection, *target)
		}
	case ELEMENT_JUNCTION:
		junction, ok := asm.doc.Junctions[element.ElementID]
		if !ok {
			asm.logger.Warn("Missing junction", zap.String("road", road.ID), zap.String("junction", element.ElementID))
			asm.missing = append(asm.missing, &MissingLinkageError{
				From:   LaneKey{Road: road.ID, Section: section.Index},
				Road:   element.ElementID,
				Reason: "junction does not exist",
			})
			return
		}
		for _, conn := range junction.Connections {
			if conn.IncomingRoad != road.ID {
				continue
			}
			targetSection := asm.targetSection(conn.ConnectingRoad, conn.ContactPoint)
			for _, laneLink := range conn.LaneLinks {
				if section.Lane(laneLink.From) == nil {
					continue
				}
				register(laneLink.From, conn.ConnectingRoad, targetSection, laneLink.To)
			}
		}
	}
}

// linkNeighbors sets neighbours in driving direction: inner adjacent lane is on the left, outer one is on the right.
// Innermost lanes of both sides are reverse neighbours of each other
func (asm *topologyAssembler) linkNeighbors(road *Road) {
	for _, section := range road.Lanes.Sections {
		for _, lane := range section.allLanes() {
			key := LaneKey{Road: road.ID, Section: section.Index, Lane: lane.ID}
			item, ok := asm.topology[key]
			if !ok {
				continue
			}
			sign := 1
			if lane.ID < 0 {
				sign = -1
			}
			if abs(lane.ID) > 1 {
				if inner := (LaneKey{Road: road.ID, Section: section.Index, Lane: lane.ID - sign}); asm.known(inner) {
					item.LeftNeighbor = &inner
				}
			} else if reverse := (LaneKey{Road: road.ID, Section: section.Index, Lane: -lane.ID}); asm.known(reverse) {
				item.LeftReverseNeighbor = &reverse
			}
			if outer := (LaneKey{Road: road.ID, Section: section.Index, Lane: lane.ID + sign}); asm.known(outer) {
				item.RightNeighbor = &outer
			}
		}
	}
}

func (asm *topologyAssembler) known(key LaneKey) bool {
	_, ok := asm.topology[key]
	return ok
}
