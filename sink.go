package xodr2hd

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Sink Persists converted map. Called once per conversion
type Sink interface {
	Save(hdmap *HDMap) error
}

// NewSinkForFile picks sink by file extension: .csv, .geojson / .json, .osm
func NewSinkForFile(fname string) (Sink, error) {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".csv":
		return &CSVSink{FileName: fname}, nil
	case ".geojson", ".json":
		return &GeoJSONSink{FileName: fname}, nil
	case ".osm":
		return &OSMSink{FileName: fname}, nil
	default:
		return nil, errors.Errorf("unsupported output format of file '%s'. Expected extensions: .csv, .geojson, .json, .osm", fname)
	}
}
