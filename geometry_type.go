package xodr2hd

type GeometryType uint16

const (
	GEOMETRY_LINE = GeometryType(iota + 1)
	GEOMETRY_ARC
	GEOMETRY_SPIRAL
	GEOMETRY_POLY3
	GEOMETRY_PARAM_POLY3
)

func (iotaIdx GeometryType) String() string {
	if iotaIdx < GEOMETRY_LINE || iotaIdx > GEOMETRY_PARAM_POLY3 {
		return "undefined"
	}
	return [...]string{"line", "arc", "spiral", "poly3", "paramPoly3"}[iotaIdx-1]
}

// geometryTypeFromTag maps OpenDRIVE planView child element to geometry type
func geometryTypeFromTag(tag string) (GeometryType, bool) {
	switch tag {
	case "line":
		return GEOMETRY_LINE, true
	case "arc":
		return GEOMETRY_ARC, true
	case "spiral":
		return GEOMETRY_SPIRAL, true
	case "poly3":
		return GEOMETRY_POLY3, true
	case "paramPoly3":
		return GEOMETRY_PARAM_POLY3, true
	default:
		return GeometryType(0), false
	}
}

// PRangeType Parameter range of paramPoly3
type PRangeType uint16

const (
	PRANGE_ARC_LENGTH = PRangeType(iota + 1)
	PRANGE_NORMALIZED
)

func (iotaIdx PRangeType) String() string {
	if iotaIdx < PRANGE_ARC_LENGTH || iotaIdx > PRANGE_NORMALIZED {
		return "undefined"
	}
	return [...]string{"arcLength", "normalized"}[iotaIdx-1]
}
