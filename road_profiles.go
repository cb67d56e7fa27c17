package xodr2hd

import (
	"sort"
)

// CubicRecord Road level cubic polynomial of ds (lane offset, elevation)
type CubicRecord struct {
	S          float64
	A, B, C, D float64
}

// evalCubicRecords evaluates piecewise cubic profile at road position s.
// Record with the greatest start not exceeding s is used; zero before the first record
func evalCubicRecords(records []*CubicRecord, s float64) float64 {
	if len(records) == 0 {
		return 0
	}
	idx := sort.Search(len(records), func(i int) bool {
		return records[i].S > s
	}) - 1
	if idx < 0 {
		return 0
	}
	record := records[idx]
	return cubic(record.A, record.B, record.C, record.D, s-record.S)
}
