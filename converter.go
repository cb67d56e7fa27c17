package xodr2hd

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Converter Turns OpenDRIVE document into HD map
type Converter struct {
	cfg    *Config
	logger *zap.Logger
}

// NewConverter returns converter for given configuration. Configuration is copied, so options do not affect caller's value
func NewConverter(cfg *Config, options ...func(*Converter)) (*Converter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfgCopy := *cfg
	converter := &Converter{
		cfg:    &cfgCopy,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(converter)
	}
	if err := converter.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Bad configuration")
	}
	return converter, nil
}

// Config returns configuration used by converter
func (converter *Converter) Config() Config {
	return *converter.cfg
}

// Convert processes every road of the document and assembles output map.
//
// Roads are processed concurrently, each one by a single goroutine. Road which fails is reported in HDMap.Failures
// while the rest keep going, unless FailFast is set: then the first failure cancels remaining work and is returned.
// Topology is assembled only after every road has finished
func (converter *Converter) Convert(ctx context.Context, doc *Document) (*HDMap, error) {
	cfg := converter.cfg
	logger := converter.logger
	logger.Info("Processing roads", zap.Int("roads", len(doc.RoadIDs)), zap.Int("workers", cfg.Workers))
	st := time.Now()

	roads := make([]*Road, len(doc.RoadIDs))
	for i, roadID := range doc.RoadIDs {
		road, ok := doc.Roads[roadID]
		if !ok {
			return nil, fmt.Errorf("road '%s' is listed but not registered in document", roadID)
		}
		roads[i] = road
	}

	roadErrors := make([]error, len(roads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, road := range roads {
		i, road := i, road
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := road.Process(cfg)
			if err == nil {
				return nil
			}
			if err == ErrAlreadyProcessed {
				return errors.Wrapf(err, "road '%s'", road.ID)
			}
			if cfg.FailFast {
				return errors.Wrapf(err, "Can't process road '%s'", road.ID)
			}
			roadErrors[i] = err
			return nil
		})
	}
	// Barrier: every road is read-only from here
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("Roads have been processed", zap.Duration("elapsed", time.Since(st)))

	hdmap := &HDMap{
		Header:       doc.Header,
		GeoOrigin:    cfg.GeoOrigin,
		WithZ:        cfg.EnableZAxis,
		LaneFailures: make(map[string][]*LaneFailure),
	}
	failed := make(map[string]error)
	for i, err := range roadErrors {
		if err == nil {
			continue
		}
		roadID := doc.RoadIDs[i]
		failed[roadID] = err
		hdmap.Failures = append(hdmap.Failures, &RoadFailure{RoadID: roadID, Err: err})
		logger.Warn("Road has not been converted", zap.String("road", roadID), zap.Error(err))
	}

	st = time.Now()
	topology, missing := AssembleTopology(doc, failed, logger)
	hdmap.MissingLinks = missing
	logger.Info("Topology has been assembled", zap.Int("lanes", len(topology)), zap.Int("missing_links", len(missing)), zap.Duration("elapsed", time.Since(st)))

	for _, roadID := range doc.RoadIDs {
		if _, ok := failed[roadID]; ok {
			continue
		}
		road := doc.Roads[roadID]
		if len(road.Failures) != 0 {
			hdmap.LaneFailures[road.ID] = road.Failures
			for _, failure := range road.Failures {
				logger.Warn("Lane has not been converted", zap.String("road", road.ID), zap.Int("section", failure.Section), zap.Int("lane", failure.Lane), zap.Error(failure.Err))
			}
		}
		hdmap.Roads = append(hdmap.Roads, converter.emitRoad(road, topology, hdmap))
	}
	hdmap.buildIndex()
	if len(hdmap.Failures) != 0 {
		logger.Warn("Some roads have not been converted", zap.Strings("roads", hdmap.FailureSummary()))
	}
	return hdmap, nil
}

// emitRoad appends lanes of the road to the map and returns road record
func (converter *Converter) emitRoad(road *Road, topology Topology, hdmap *HDMap) *MapRoad {
	mapRoad := &MapRoad{
		ID:         road.ID,
		Name:       road.Name,
		JunctionID: road.JunctionID,
	}
	for _, section := range road.Lanes.Sections {
		mapSection := &MapRoadSection{
			ID: fmt.Sprintf("%d", section.Index),
			S:  section.S,
		}
		for _, lane := range section.allLanes() {
			if !lane.Materialized {
				continue
			}
			key := LaneKey{Road: road.ID, Section: section.Index, Lane: lane.ID}
			mapLane := newMapLane(key, lane, topology[key], converter.cfg.EnableZAxis)
			mapSection.LaneIDs = append(mapSection.LaneIDs, mapLane.ID)
			hdmap.Lanes = append(hdmap.Lanes, mapLane)
		}
		mapRoad.Sections = append(mapRoad.Sections, mapSection)
	}
	return mapRoad
}

// Save writes map through the sink
func (converter *Converter) Save(hdmap *HDMap, sink Sink) error {
	st := time.Now()
	err := sink.Save(hdmap)
	if err != nil {
		return errors.Wrap(err, "Can't save map")
	}
	converter.logger.Info("Map has been saved", zap.String("map", hdmap.String()), zap.Duration("elapsed", time.Since(st)))
	return nil
}

// ConvertFile loads OpenDRIVE file, converts it and saves result to output file (format is picked by extension)
func ConvertFile(ctx context.Context, input, output string, cfg *Config, options ...func(*Converter)) (*HDMap, error) {
	converter, err := NewConverter(cfg, options...)
	if err != nil {
		return nil, err
	}
	sink, err := NewSinkForFile(output)
	if err != nil {
		return nil, err
	}
	doc, err := LoadOpenDRIVE(input)
	if err != nil {
		return nil, err
	}
	hdmap, err := converter.Convert(ctx, doc)
	if err != nil {
		return nil, err
	}
	return hdmap, converter.Save(hdmap, sink)
}
