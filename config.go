package xodr2hd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_SAMPLING_LENGTH = 1.0
	DEFAULT_WIDTH_TOLERANCE = 1e-3
)

// Point2D Planar point in map units
type Point2D struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// GeoOrigin WGS84 point which corresponds to local origin (0, 0) of output map
type GeoOrigin struct {
	Lon float64 `yaml:"lon"`
	Lat float64 `yaml:"lat"`
}

// Config Immutable set of conversion parameters. Passed explicitly into conversion entry point
type Config struct {
	SamplingLength           float64   `yaml:"sampling_length"`
	EnableZAxis              bool      `yaml:"enable_z_axis"`
	DrivingOnly              bool      `yaml:"driving_only"`
	Debug                    bool      `yaml:"debug"`
	Origin                   Point2D   `yaml:"origin"`
	GeoOrigin                GeoOrigin `yaml:"geo_origin"`
	Workers                  int       `yaml:"workers"`
	FailFast                 bool      `yaml:"fail_fast"`
	WidthContinuityTolerance float64   `yaml:"width_continuity_tolerance"` // Negative value disables check
	SpiralIntegrationStep    float64   `yaml:"spiral_integration_step"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		SamplingLength:           DEFAULT_SAMPLING_LENGTH,
		Workers:                  runtime.NumCPU(),
		WidthContinuityTolerance: DEFAULT_WIDTH_TOLERANCE,
		SpiralIntegrationStep:    DefaultSpiralIntegrationStep,
	}
}

// String returns pretty printed value for Config
func (cfg *Config) String() string {
	return fmt.Sprintf(`
Conversion parameters:
	sampling_length: %f
	enable_z_axis: %t
	driving_only: %t
	debug: %t
	origin: (%f, %f)
	geo_origin: (%f, %f)
	workers: %d
	fail_fast: %t
	width_continuity_tolerance: %f
	spiral_integration_step: %f
	`,
		cfg.SamplingLength,
		cfg.EnableZAxis,
		cfg.DrivingOnly,
		cfg.Debug,
		cfg.Origin.X, cfg.Origin.Y,
		cfg.GeoOrigin.Lon, cfg.GeoOrigin.Lat,
		cfg.Workers,
		cfg.FailFast,
		cfg.WidthContinuityTolerance,
		cfg.SpiralIntegrationStep,
	)
}

// Validate checks numeric constraints of configuration
func (cfg *Config) Validate() error {
	if !(cfg.SamplingLength > 0) {
		return fmt.Errorf("sampling_length should be positive, but got %f", cfg.SamplingLength)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers should be at least 1, but got %d", cfg.Workers)
	}
	if !(cfg.SpiralIntegrationStep > 0) {
		return fmt.Errorf("spiral_integration_step should be positive, but got %f", cfg.SpiralIntegrationStep)
	}
	if cfg.GeoOrigin.Lat <= -90 || cfg.GeoOrigin.Lat >= 90 {
		return fmt.Errorf("geo_origin latitude should be in (-90, 90), but got %f", cfg.GeoOrigin.Lat)
	}
	return nil
}

// ParseConfig reads YAML configuration on top of default values
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	err := yaml.NewDecoder(r).Decode(cfg)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "Can't decode configuration")
	}
	err = cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "Bad configuration")
	}
	return cfg, nil
}

// LoadConfig reads YAML configuration file
func LoadConfig(fname string) (*Config, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open configuration file")
	}
	defer f.Close()
	return ParseConfig(f)
}
