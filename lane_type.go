package xodr2hd

// LaneType OpenDRIVE lane type. Kept as string since the interchange format allows vendor values
type LaneType string

const (
	LANE_DRIVING    = LaneType("driving")
	LANE_SIDEWALK   = LaneType("sidewalk")
	LANE_SHOULDER   = LaneType("shoulder")
	LANE_BORDER     = LaneType("border")
	LANE_BIKING     = LaneType("biking")
	LANE_PARKING    = LaneType("parking")
	LANE_MEDIAN     = LaneType("median")
	LANE_STOP       = LaneType("stop")
	LANE_RESTRICTED = LaneType("restricted")
	LANE_CURB       = LaneType("curb")
	LANE_ENTRY      = LaneType("entry")
	LANE_EXIT       = LaneType("exit")
	LANE_ON_RAMP    = LaneType("onRamp")
	LANE_OFF_RAMP   = LaneType("offRamp")
	LANE_CONNECTING = LaneType("connectingRamp")
	LANE_NONE       = LaneType("none")
)

func (lt LaneType) String() string {
	return string(lt)
}

// IsDriving returns true for lanes which are materialized when only driving lanes are requested
func (lt LaneType) IsDriving() bool {
	return lt == LANE_DRIVING
}

// apolloLaneType maps OpenDRIVE lane type to Apollo lane type
func (lt LaneType) apolloLaneType() string {
	switch lt {
	case LANE_DRIVING, LANE_ENTRY, LANE_EXIT, LANE_ON_RAMP, LANE_OFF_RAMP, LANE_CONNECTING:
		return "CITY_DRIVING"
	case LANE_BIKING:
		return "BIKING"
	case LANE_SIDEWALK:
		return "SIDEWALK"
	case LANE_PARKING:
		return "PARKING"
	case LANE_SHOULDER:
		return "SHOULDER"
	default:
		return "NONE"
	}
}
