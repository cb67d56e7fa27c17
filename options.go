package xodr2hd

import (
	"go.uber.org/zap"
)

// WithLogger sets logger of converter
func WithLogger(logger *zap.Logger) func(*Converter) {
	return func(converter *Converter) {
		if logger != nil {
			converter.logger = logger
		}
	}
}

// WithSamplingLength overrides sampling length of configuration
func WithSamplingLength(samplingLength float64) func(*Converter) {
	return func(converter *Converter) {
		converter.cfg.SamplingLength = samplingLength
	}
}

// WithDrivingOnly overrides driving-lanes-only policy of configuration
func WithDrivingOnly(drivingOnly bool) func(*Converter) {
	return func(converter *Converter) {
		converter.cfg.DrivingOnly = drivingOnly
	}
}

// WithZAxis overrides elevation extraction flag of configuration
func WithZAxis(enableZAxis bool) func(*Converter) {
	return func(converter *Converter) {
		converter.cfg.EnableZAxis = enableZAxis
	}
}

// WithWorkers overrides number of goroutines processing roads
func WithWorkers(workers int) func(*Converter) {
	return func(converter *Converter) {
		converter.cfg.Workers = workers
	}
}
