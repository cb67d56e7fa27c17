package xodr2hd

import (
	"testing"

	"github.com/cheekybits/is"
)

func TestHDMapLaneLookup(t *testing.T) {
	is := is.New(t)
	hdmap := &HDMap{Lanes: []*MapLane{{ID: "a"}, {ID: "b"}}}
	is.Equal(hdmap.Lane("b").ID, "b")
	is.Nil(hdmap.Lane("c"))
	// Lookup never writes into the map
	is.Nil(hdmap.lanesIdx)

	hdmap.buildIndex()
	is.Equal(hdmap.Lane("a").ID, "a")
	hdmap.Lanes = append(hdmap.Lanes, &MapLane{ID: "c"})
	is.Equal(hdmap.Lane("c").ID, "c")
}

func TestConvertBuildsLaneIndex(t *testing.T) {
	is := is.New(t)
	hdmap := convertedChain(t, "")
	is.Equal(len(hdmap.lanesIdx), len(hdmap.Lanes))
	is.Equal(hdmap.Lane("road_2_lane_0_-2").ID, "road_2_lane_0_-2")
}
