package xodr2hd

import (
	"fmt"
	"strings"
	"testing"
)

// laneXML returns <lane> element with constant width
func laneXML(id int, laneType string, width float64, link string) string {
	return fmt.Sprintf(`<lane id="%d" type="%s" level="false">%s<width sOffset="0" a="%f" b="0" c="0" d="0"/></lane>`, id, laneType, link, width)
}

func laneLinkXML(pred, succ *int) string {
	parts := []string{}
	if pred != nil {
		parts = append(parts, fmt.Sprintf(`<predecessor id="%d"/>`, *pred))
	}
	if succ != nil {
		parts = append(parts, fmt.Sprintf(`<successor id="%d"/>`, *succ))
	}
	if len(parts) == 0 {
		return ""
	}
	return "<link>" + strings.Join(parts, "") + "</link>"
}

func intPtr(v int) *int {
	return &v
}

// sectionXML returns <laneSection> with given left and right lanes
func sectionXML(s float64, left, right []string) string {
	leftXML := ""
	if len(left) != 0 {
		leftXML = "<left>" + strings.Join(left, "") + "</left>"
	}
	rightXML := ""
	if len(right) != 0 {
		rightXML = "<right>" + strings.Join(right, "") + "</right>"
	}
	return fmt.Sprintf(`<laneSection s="%f">%s<center><lane id="0" type="none" level="false"/></center>%s</laneSection>`, s, leftXML, rightXML)
}

// straightRoadXML returns road consisting of a single line
func straightRoadXML(id, junction string, length, x, y, hdg float64, link string, sections ...string) string {
	return fmt.Sprintf(`<road name="road %s" length="%f" id="%s" junction="%s">%s<planView><geometry s="0" x="%f" y="%f" hdg="%f" length="%f"><line/></geometry></planView><lanes>%s</lanes></road>`,
		id, length, id, junction, link, x, y, hdg, length, strings.Join(sections, ""))
}

func roadLinkXML(pred, succ string) string {
	return "<link>" + pred + succ + "</link>"
}

func documentXML(elements ...string) string {
	return `<?xml version="1.0" standalone="yes"?>
<OpenDRIVE><header revMajor="1" revMinor="4" name="test" version="1.00"><geoReference><![CDATA[+proj=tmerc +lat_0=0 +lon_0=0]]></geoReference></header>` +
		strings.Join(elements, "\n") + `</OpenDRIVE>`
}

func mustParse(t *testing.T, xml string) *Document {
	t.Helper()
	doc, err := ParseOpenDRIVE(strings.NewReader(xml))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// newRoad builds road directly, without XML
func newRoad(id string, planView []*Geometry, sections ...*LaneSection) *Road {
	road := &Road{
		ID:         id,
		JunctionID: noJunction,
		PlanView:   planView,
		Lanes:      Lanes{Sections: sections},
	}
	last := planView[len(planView)-1]
	road.Length = last.S + last.Length
	road.finalize()
	return road
}

func constantWidthLane(id int, laneType LaneType, width float64) *Lane {
	lane := &Lane{ID: id, Type: laneType}
	lane.Width.Add(&WidthPoly{A: width})
	return lane
}

func testConfig(samplingLength float64) *Config {
	cfg := DefaultConfig()
	cfg.SamplingLength = samplingLength
	return cfg
}
