package xodr2hd

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAlreadyProcessed is returned when derived geometry of a road is requested to be computed twice
	ErrAlreadyProcessed = errors.New("road has been processed already")
	// ErrNotProcessed is returned when derived geometry is read before computation
	ErrNotProcessed = errors.New("road has not been processed yet")
)

// OutOfRangeError Primitive has been evaluated outside of its span
type OutOfRangeError struct {
	Geometry GeometryType
	S        float64 // Start of the primitive on the road
	DS       float64 // Requested local offset
	Length   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s geometry at s=%f: offset %f is out of range [0, %f]", e.Geometry, e.S, e.DS, e.Length)
}

// ProfileGapError Width profile does not cover requested offset (or is discontinuous)
type ProfileGapError struct {
	Road    string
	Section int
	Lane    int
	DS      float64
	Reason  string
}

func (e *ProfileGapError) Error() string {
	return fmt.Sprintf("road '%s' section %d lane %d: width profile %s at ds=%f", e.Road, e.Section, e.Lane, e.Reason, e.DS)
}

// InvalidWidthError Width profile evaluated to negative or NaN value
type InvalidWidthError struct {
	Road    string
	Section int
	Lane    int
	S       float64
	Width   float64
}

func (e *InvalidWidthError) Error() string {
	return fmt.Sprintf("road '%s' section %d lane %d: invalid width %f at s=%f", e.Road, e.Section, e.Lane, e.Width, e.S)
}

// MissingLinkageError Topology refers to road or lane which does not exist
type MissingLinkageError struct {
	From   LaneKey
	Road   string
	Lane   int
	Reason string
}

func (e *MissingLinkageError) Error() string {
	return fmt.Sprintf("lane '%s' links to road '%s' lane %d: %s", e.From, e.Road, e.Lane, e.Reason)
}

// withLane fills lane identity for width errors which are produced without knowledge about it
func withLane(err error, road string, section, lane int) error {
	switch e := err.(type) {
	case *ProfileGapError:
		e.Road, e.Section, e.Lane = road, section, lane
	case *InvalidWidthError:
		e.Road, e.Section, e.Lane = road, section, lane
	}
	return err
}
