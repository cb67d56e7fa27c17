package xodr2hd

import (
	"reflect"
	"testing"
)

func processDocument(t *testing.T, doc *Document, cfg *Config) {
	t.Helper()
	for _, roadID := range doc.RoadIDs {
		if err := doc.Roads[roadID].Process(cfg); err != nil {
			t.Fatal(err)
		}
	}
}

func key(road string, section, lane int) LaneKey {
	return LaneKey{Road: road, Section: section, Lane: lane}
}

func TestLaneKeyString(t *testing.T) {
	if id := key("12", 0, -1).String(); id != "road_12_lane_0_-1" {
		t.Errorf("Lane id should be 'road_12_lane_0_-1', but got '%s'", id)
	}
}

func TestTopologyRoadLink(t *testing.T) {
	doc := mustParse(t, documentXML(
		straightRoadXML("1", "-1", 100, 0, 0, 0,
			roadLinkXML("", `<successor elementType="road" elementId="2" contactPoint="start"/>`),
			sectionXML(0,
				[]string{laneXML(1, "driving", 3.5, laneLinkXML(nil, intPtr(1)))},
				[]string{laneXML(-1, "driving", 3.5, laneLinkXML(nil, intPtr(-1)))},
			),
		),
		straightRoadXML("2", "-1", 50, 100, 0, 0,
			roadLinkXML(`<predecessor elementType="road" elementId="1" contactPoint="end"/>`, ""),
			sectionXML(0,
				[]string{laneXML(1, "driving", 3.5, laneLinkXML(intPtr(1), nil))},
				[]string{laneXML(-1, "driving", 3.5, laneLinkXML(intPtr(-1), nil))},
			),
		),
	))
	processDocument(t, doc, testConfig(10))
	topology, missing := AssembleTopology(doc, nil, nil)
	if len(missing) != 0 {
		t.Errorf("There should be no missing links, but got %d", len(missing))
	}
	correctSuccessors := map[LaneKey][]LaneKey{
		key("1", 0, -1): {key("2", 0, -1)},
		key("2", 0, -1): nil,
		key("2", 0, 1):  {key("1", 0, 1)},
		key("1", 0, 1):  nil,
	}
	for lane, expected := range correctSuccessors {
		item, ok := topology[lane]
		if !ok {
			t.Errorf("Lane '%s' should be in topology", lane)
			continue
		}
		if len(expected) == 0 && len(item.Successors) == 0 {
			continue
		}
		if !reflect.DeepEqual(item.Successors, expected) {
			t.Errorf("Successors of '%s' should be %v, but got %v", lane, expected, item.Successors)
		}
	}
	if preds := topology[key("2", 0, -1)].Predecessors; !reflect.DeepEqual(preds, []LaneKey{key("1", 0, -1)}) {
		t.Errorf("Predecessors of 'road_2_lane_0_-1' should be [road_1_lane_0_-1], but got %v", preds)
	}
	if preds := topology[key("1", 0, 1)].Predecessors; !reflect.DeepEqual(preds, []LaneKey{key("2", 0, 1)}) {
		t.Errorf("Predecessors of 'road_1_lane_0_1' should be [road_2_lane_0_1], but got %v", preds)
	}
}

func TestTopologySections(t *testing.T) {
	doc := mustParse(t, documentXML(
		straightRoadXML("1", "-1", 100, 0, 0, 0, "",
			sectionXML(0,
				[]string{laneXML(1, "driving", 3.5, "")},
				[]string{laneXML(-1, "driving", 3.5, ""), laneXML(-2, "driving", 3.5, laneLinkXML(nil, intPtr(-3)))},
			),
			sectionXML(50,
				[]string{laneXML(1, "driving", 3.5, "")},
				[]string{laneXML(-1, "driving", 3.5, ""), laneXML(-2, "driving", 3.5, ""), laneXML(-3, "driving", 3.5, "")},
			),
		),
	))
	processDocument(t, doc, testConfig(10))
	topology, missing := AssembleTopology(doc, nil, nil)
	if len(missing) != 0 {
		t.Errorf("There should be no missing links, but got %d", len(missing))
	}
	correctSuccessors := map[LaneKey][]LaneKey{
		key("1", 0, -1): {key("1", 1, -1)},
		key("1", 0, -2): {key("1", 1, -3)},
		key("1", 1, 1):  {key("1", 0, 1)},
	}
	for lane, expected := range correctSuccessors {
		if !reflect.DeepEqual(topology[lane].Successors, expected) {
			t.Errorf("Successors of '%s' should be %v, but got %v", lane, expected, topology[lane].Successors)
		}
	}
	if preds := topology[key("1", 1, -2)].Predecessors; len(preds) != 0 {
		t.Errorf("Lane -2 of the second section should have no predecessors since lane -2 of the first one links elsewhere, but got %v", preds)
	}
}

func TestTopologyNeighbors(t *testing.T) {
	doc := mustParse(t, documentXML(
		straightRoadXML("1", "-1", 100, 0, 0, 0, "",
			sectionXML(0,
				[]string{laneXML(1, "driving", 3.5, ""), laneXML(2, "driving", 3.5, "")},
				[]string{laneXML(-1, "driving", 3.5, ""), laneXML(-2, "driving", 3.5, "")},
			),
		),
	))
	processDocument(t, doc, testConfig(10))
	topology, _ := AssembleTopology(doc, nil, nil)

	lane := topology[key("1", 0, -1)]
	if lane.LeftNeighbor != nil {
		t.Errorf("Innermost lane should have no forward left neighbour, but got %s", lane.LeftNeighbor)
	}
	if lane.LeftReverseNeighbor == nil || *lane.LeftReverseNeighbor != key("1", 0, 1) {
		t.Errorf("Reverse neighbour of lane -1 should be lane 1, but got %v", lane.LeftReverseNeighbor)
	}
	if lane.RightNeighbor == nil || *lane.RightNeighbor != key("1", 0, -2) {
		t.Errorf("Right neighbour of lane -1 should be lane -2, but got %v", lane.RightNeighbor)
	}

	lane = topology[key("1", 0, 2)]
	if lane.LeftNeighbor == nil || *lane.LeftNeighbor != key("1", 0, 1) {
		t.Errorf("Left neighbour of lane 2 should be lane 1, but got %v", lane.LeftNeighbor)
	}
	if lane.RightNeighbor != nil {
		t.Errorf("Outermost lane should have no right neighbour, but got %s", lane.RightNeighbor)
	}
	if lane.LeftReverseNeighbor != nil {
		t.Errorf("Only innermost lanes should have reverse neighbour, but got %s", lane.LeftReverseNeighbor)
	}
}

func TestTopologyMissingRoad(t *testing.T) {
	doc := mustParse(t, documentXML(
		straightRoadXML("1", "-1", 100, 0, 0, 0,
			roadLinkXML("", `<successor elementType="road" elementId="99" contactPoint="start"/>`),
			sectionXML(0, nil, []string{laneXML(-1, "driving", 3.5, laneLinkXML(nil, intPtr(-1)))}),
		),
	))
	processDocument(t, doc, testConfig(10))
	topology, missing := AssembleTopology(doc, nil, nil)
	if len(missing) != 1 {
		t.Errorf("There should be 1 missing link, but got %d", len(missing))
		return
	}
	if missing[0].Road != "99" || missing[0].From != key("1", 0, -1) {
		t.Errorf("Missing link should point from 'road_1_lane_0_-1' to road '99', but got %s", missing[0])
	}
	if succ := topology[key("1", 0, -1)].Successors; len(succ) != 0 {
		t.Errorf("Missing link should be omitted, but got %v", succ)
	}
}

func TestTopologyJunction(t *testing.T) {
	doc := mustParse(t, documentXML(
		straightRoadXML("1", "-1", 100, 0, 0, 0,
			roadLinkXML("", `<successor elementType="junction" elementId="7"/>`),
			sectionXML(0, nil, []string{laneXML(-1, "driving", 3.5, "")}),
		),
		straightRoadXML("3", "7", 20, 100, 0, 0,
			roadLinkXML(`<predecessor elementType="road" elementId="1" contactPoint="end"/>`, `<successor elementType="road" elementId="2" contactPoint="start"/>`),
			sectionXML(0, nil, []string{laneXML(-1, "driving", 3.5, laneLinkXML(intPtr(-1), intPtr(-1)))}),
		),
		straightRoadXML("2", "-1", 100, 120, 0, 0,
			roadLinkXML(`<predecessor elementType="junction" elementId="7"/>`, ""),
			sectionXML(0, nil, []string{laneXML(-1, "driving", 3.5, "")}),
		),
		`<junction id="7" name="j"><connection id="0" incomingRoad="1" connectingRoad="3" contactPoint="start"><laneLink from="-1" to="-1"/></connection></junction>`,
	))
	processDocument(t, doc, testConfig(10))
	topology, missing := AssembleTopology(doc, nil, nil)
	if len(missing) != 0 {
		t.Errorf("There should be no missing links, but got %v", missing)
	}
	if succ := topology[key("1", 0, -1)].Successors; !reflect.DeepEqual(succ, []LaneKey{key("3", 0, -1)}) {
		t.Errorf("Incoming road should lead to connecting road, but got %v", succ)
	}
	if succ := topology[key("3", 0, -1)].Successors; !reflect.DeepEqual(succ, []LaneKey{key("2", 0, -1)}) {
		t.Errorf("Connecting road should lead to outgoing road, but got %v", succ)
	}
	if preds := topology[key("3", 0, -1)].Predecessors; !reflect.DeepEqual(preds, []LaneKey{key("1", 0, -1)}) {
		t.Errorf("Connecting road should be entered from incoming road, but got %v", preds)
	}
}
