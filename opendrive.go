package xodr2hd

import (
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// LoadOpenDRIVE reads OpenDRIVE document from file
func LoadOpenDRIVE(fileName string) (*Document, error) {
	xml := etree.NewDocument()
	if err := xml.ReadFromFile(fileName); err != nil {
		return nil, errors.Wrap(err, "Can't read OpenDRIVE file")
	}
	return parseOpenDRIVE(xml)
}

// ParseOpenDRIVE reads OpenDRIVE document from reader
func ParseOpenDRIVE(r io.Reader) (*Document, error) {
	xml := etree.NewDocument()
	if _, err := xml.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "Can't read OpenDRIVE document")
	}
	return parseOpenDRIVE(xml)
}

func parseOpenDRIVE(xml *etree.Document) (*Document, error) {
	root := xml.SelectElement("OpenDRIVE")
	if root == nil {
		return nil, errors.New("OpenDRIVE root element not found")
	}
	doc := NewDocument()
	if header := root.SelectElement("header"); header != nil {
		h, err := parseHeader(header)
		if err != nil {
			return nil, errors.Wrap(err, "Can't parse header")
		}
		doc.Header = h
	}
	for _, el := range root.SelectElements("road") {
		road, err := parseRoad(el)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse road '%s'", el.SelectAttrValue("id", ""))
		}
		if _, ok := doc.Roads[road.ID]; ok {
			return nil, errors.Errorf("duplicated road id '%s'", road.ID)
		}
		doc.AddRoad(road)
	}
	for _, el := range root.SelectElements("junction") {
		junction, err := parseJunction(el)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse junction '%s'", el.SelectAttrValue("id", ""))
		}
		doc.AddJunction(junction)
	}
	return doc, nil
}

func attrFloat(el *etree.Element, key string) (float64, error) {
	attr := el.SelectAttr(key)
	if attr == nil {
		return 0, errors.Errorf("<%s> misses attribute '%s'", el.Tag, key)
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(attr.Value), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "<%s> attribute '%s'", el.Tag, key)
	}
	return val, nil
}

func attrFloatDefault(el *etree.Element, key string, dflt float64) (float64, error) {
	if el.SelectAttr(key) == nil {
		return dflt, nil
	}
	return attrFloat(el, key)
}

func attrInt(el *etree.Element, key string) (int, error) {
	attr := el.SelectAttr(key)
	if attr == nil {
		return 0, errors.Errorf("<%s> misses attribute '%s'", el.Tag, key)
	}
	val, err := strconv.Atoi(strings.TrimSpace(attr.Value))
	if err != nil {
		return 0, errors.Wrapf(err, "<%s> attribute '%s'", el.Tag, key)
	}
	return val, nil
}

// attrFloats reads several required float attributes in order
func attrFloats(el *etree.Element, keys ...string) ([]float64, error) {
	values := make([]float64, len(keys))
	for i, key := range keys {
		val, err := attrFloat(el, key)
		if err != nil {
			return nil, err
		}
		values[i] = val
	}
	return values, nil
}

func parseHeader(el *etree.Element) (Header, error) {
	header := Header{
		Name: el.SelectAttrValue("name", ""),
	}
	if el.SelectAttr("revMajor") != nil {
		revMajor, err := attrInt(el, "revMajor")
		if err != nil {
			return header, err
		}
		header.RevMajor = revMajor
	}
	if el.SelectAttr("revMinor") != nil {
		revMinor, err := attrInt(el, "revMinor")
		if err != nil {
			return header, err
		}
		header.RevMinor = revMinor
	}
	if geoRef := el.SelectElement("geoReference"); geoRef != nil {
		header.GeoReference = strings.TrimSpace(geoRef.Text())
	}
	if offset := el.SelectElement("offset"); offset != nil {
		values, err := attrFloats(offset, "x", "y")
		if err != nil {
			return header, err
		}
		header.OffsetX, header.OffsetY = values[0], values[1]
		header.OffsetZ, err = attrFloatDefault(offset, "z", 0)
		if err != nil {
			return header, err
		}
	}
	return header, nil
}

func parseRoad(el *etree.Element) (*Road, error) {
	road := &Road{
		ID:         el.SelectAttrValue("id", ""),
		Name:       el.SelectAttrValue("name", ""),
		JunctionID: el.SelectAttrValue("junction", noJunction),
	}
	if road.ID == "" {
		return nil, errors.New("road misses id")
	}
	length, err := attrFloat(el, "length")
	if err != nil {
		return nil, err
	}
	road.Length = length

	if link := el.SelectElement("link"); link != nil {
		if pred := link.SelectElement("predecessor"); pred != nil {
			road.Link.Predecessor, err = parseRoadLinkElement(pred)
			if err != nil {
				return nil, err
			}
		}
		if succ := link.SelectElement("successor"); succ != nil {
			road.Link.Successor, err = parseRoadLinkElement(succ)
			if err != nil {
				return nil, err
			}
		}
	}

	planView := el.SelectElement("planView")
	if planView == nil {
		return nil, errors.New("road misses planView")
	}
	for _, geomEl := range planView.SelectElements("geometry") {
		geom, err := parseGeometry(geomEl)
		if err != nil {
			return nil, err
		}
		road.PlanView = append(road.PlanView, geom)
	}

	if profile := el.SelectElement("elevationProfile"); profile != nil {
		road.Elevations, err = parseCubicRecords(profile.SelectElements("elevation"))
		if err != nil {
			return nil, err
		}
	}

	lanes := el.SelectElement("lanes")
	if lanes == nil {
		return nil, errors.New("road misses lanes")
	}
	road.LaneOffsets, err = parseCubicRecords(lanes.SelectElements("laneOffset"))
	if err != nil {
		return nil, err
	}
	for _, sectionEl := range lanes.SelectElements("laneSection") {
		section, err := parseLaneSection(sectionEl)
		if err != nil {
			return nil, err
		}
		road.Lanes.Sections = append(road.Lanes.Sections, section)
	}
	return road, nil
}

func parseRoadLinkElement(el *etree.Element) (*RoadLinkElement, error) {
	element := &RoadLinkElement{
		ElementID:    el.SelectAttrValue("elementId", ""),
		ContactPoint: CONTACT_START,
	}
	switch el.SelectAttrValue("elementType", "road") {
	case "road":
		element.ElementType = ELEMENT_ROAD
	case "junction":
		element.ElementType = ELEMENT_JUNCTION
	default:
		return nil, errors.Errorf("unknown elementType '%s'", el.SelectAttrValue("elementType", ""))
	}
	if el.SelectAttrValue("contactPoint", "start") == "end" {
		element.ContactPoint = CONTACT_END
	}
	return element, nil
}

func parseGeometry(el *etree.Element) (*Geometry, error) {
	values, err := attrFloats(el, "s", "x", "y", "hdg", "length")
	if err != nil {
		return nil, err
	}
	geom := &Geometry{S: values[0], X: values[1], Y: values[2], Hdg: values[3], Length: values[4]}
	if geom.Length < 0 {
		return nil, errors.Errorf("geometry at s=%f has negative length %f", geom.S, geom.Length)
	}
	for _, child := range el.ChildElements() {
		geomType, ok := geometryTypeFromTag(child.Tag)
		if !ok {
			continue
		}
		geom.Type = geomType
		switch geomType {
		case GEOMETRY_ARC:
			geom.Curvature, err = attrFloat(child, "curvature")
		case GEOMETRY_SPIRAL:
			var curv []float64
			curv, err = attrFloats(child, "curvStart", "curvEnd")
			if err == nil {
				geom.CurvStart, geom.CurvEnd = curv[0], curv[1]
			}
		case GEOMETRY_POLY3:
			var coeffs []float64
			coeffs, err = attrFloats(child, "a", "b", "c", "d")
			if err == nil {
				geom.A, geom.B, geom.C, geom.D = coeffs[0], coeffs[1], coeffs[2], coeffs[3]
			}
		case GEOMETRY_PARAM_POLY3:
			var coeffs []float64
			coeffs, err = attrFloats(child, "aU", "bU", "cU", "dU", "aV", "bV", "cV", "dV")
			if err == nil {
				geom.AU, geom.BU, geom.CU, geom.DU = coeffs[0], coeffs[1], coeffs[2], coeffs[3]
				geom.AV, geom.BV, geom.CV, geom.DV = coeffs[4], coeffs[5], coeffs[6], coeffs[7]
				geom.PRange = PRANGE_NORMALIZED
				if child.SelectAttrValue("pRange", "normalized") == "arcLength" {
					geom.PRange = PRANGE_ARC_LENGTH
				}
			}
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if geom.Type == GeometryType(0) {
		return nil, errors.Errorf("geometry at s=%f has no known primitive", geom.S)
	}
	return geom, nil
}

func parseCubicRecords(elements []*etree.Element) ([]*CubicRecord, error) {
	records := make([]*CubicRecord, 0, len(elements))
	for _, el := range elements {
		values, err := attrFloats(el, "s", "a", "b", "c", "d")
		if err != nil {
			return nil, err
		}
		records = append(records, &CubicRecord{S: values[0], A: values[1], B: values[2], C: values[3], D: values[4]})
	}
	return records, nil
}

func parseLaneSection(el *etree.Element) (*LaneSection, error) {
	s, err := attrFloat(el, "s")
	if err != nil {
		return nil, err
	}
	section := &LaneSection{
		S:          s,
		SingleSide: el.SelectAttrValue("singleSide", "false") == "true",
	}
	if left := el.SelectElement("left"); left != nil {
		for _, laneEl := range left.SelectElements("lane") {
			lane, err := parseLane(laneEl)
			if err != nil {
				return nil, err
			}
			if lane.ID <= 0 {
				return nil, errors.Errorf("lane section at s=%f: left lane has id %d", s, lane.ID)
			}
			section.Left = append(section.Left, lane)
		}
	}
	if center := el.SelectElement("center"); center != nil {
		if laneEl := center.SelectElement("lane"); laneEl != nil {
			lane, err := parseLane(laneEl)
			if err != nil {
				return nil, err
			}
			section.Center = lane
		}
	}
	if right := el.SelectElement("right"); right != nil {
		for _, laneEl := range right.SelectElements("lane") {
			lane, err := parseLane(laneEl)
			if err != nil {
				return nil, err
			}
			if lane.ID >= 0 {
				return nil, errors.Errorf("lane section at s=%f: right lane has id %d", s, lane.ID)
			}
			section.Right = append(section.Right, lane)
		}
	}
	return section, nil
}

func parseLane(el *etree.Element) (*Lane, error) {
	id, err := attrInt(el, "id")
	if err != nil {
		return nil, err
	}
	lane := &Lane{
		ID:    id,
		Type:  LaneType(el.SelectAttrValue("type", string(LANE_NONE))),
		Level: el.SelectAttrValue("level", "false") == "true",
	}
	if link := el.SelectElement("link"); link != nil {
		if pred := link.SelectElement("predecessor"); pred != nil {
			predID, err := attrInt(pred, "id")
			if err != nil {
				return nil, err
			}
			lane.Link.Predecessor = &predID
		}
		if succ := link.SelectElement("successor"); succ != nil {
			succID, err := attrInt(succ, "id")
			if err != nil {
				return nil, err
			}
			lane.Link.Successor = &succID
		}
	}
	for _, widthEl := range el.SelectElements("width") {
		values, err := attrFloats(widthEl, "sOffset", "a", "b", "c", "d")
		if err != nil {
			return nil, err
		}
		lane.Width.Add(&WidthPoly{SOffset: values[0], A: values[1], B: values[2], C: values[3], D: values[4]})
	}
	if speed := el.SelectElement("speed"); speed != nil {
		maxSpeed, err := attrFloat(speed, "max")
		if err != nil {
			return nil, err
		}
		lane.SpeedLimit = speedToMetersPerSecond(maxSpeed, speed.SelectAttrValue("unit", "m/s"))
	}
	return lane, nil
}

func speedToMetersPerSecond(value float64, unit string) float64 {
	switch unit {
	case "km/h":
		return value / 3.6
	case "mph":
		return value * 0.44704
	default:
		return value
	}
}

func parseJunction(el *etree.Element) (*Junction, error) {
	junction := &Junction{
		ID:   el.SelectAttrValue("id", ""),
		Name: el.SelectAttrValue("name", ""),
	}
	if junction.ID == "" {
		return nil, errors.New("junction misses id")
	}
	for _, connEl := range el.SelectElements("connection") {
		conn := &JunctionConnection{
			ID:             connEl.SelectAttrValue("id", ""),
			IncomingRoad:   connEl.SelectAttrValue("incomingRoad", ""),
			ConnectingRoad: connEl.SelectAttrValue("connectingRoad", ""),
			ContactPoint:   CONTACT_START,
		}
		if connEl.SelectAttrValue("contactPoint", "start") == "end" {
			conn.ContactPoint = CONTACT_END
		}
		for _, linkEl := range connEl.SelectElements("laneLink") {
			from, err := attrInt(linkEl, "from")
			if err != nil {
				return nil, err
			}
			to, err := attrInt(linkEl, "to")
			if err != nil {
				return nil, err
			}
			conn.LaneLinks = append(conn.LaneLinks, JunctionLaneLink{From: from, To: to})
		}
		junction.Connections = append(junction.Connections, conn)
	}
	return junction, nil
}
