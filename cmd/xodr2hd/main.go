package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LdDl/xodr2hd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile     string
	samplingLength float64
	enableZAxis    bool
	drivingOnly    bool
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:   "xodr2hd",
	Short: "Convert OpenDRIVE road networks into HD maps",
	Long: `xodr2hd reconstructs reference lines and lane boundaries of OpenDRIVE (.xodr) roads
and emits HD map lanes with topology. Output format is picked by extension of output file:
  .csv      lanes/roads/failures with WKT geometries
  .geojson  FeatureCollection of lane curves
  .osm      Lanelet2 flavoured OSM XML`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().Float64VarP(&samplingLength, "sampling", "s", xodr2hd.DEFAULT_SAMPLING_LENGTH, "Sampling length of reference line")
	rootCmd.PersistentFlags().BoolVarP(&enableZAxis, "enable_z_axis", "z", false, "Extract z-axis coordinates into HD map")
	rootCmd.PersistentFlags().BoolVar(&drivingOnly, "driving-only", false, "Materialize driving lanes only")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Debug mode")
	rootCmd.AddCommand(convertCmd, showCmd, routeCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// prepareConfig reads configuration file (if any) and applies flags which have been set explicitly
func prepareConfig(cmd *cobra.Command) (*xodr2hd.Config, error) {
	cfg := xodr2hd.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = xodr2hd.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("sampling") {
		cfg.SamplingLength = samplingLength
	}
	if flags.Changed("enable_z_axis") {
		cfg.EnableZAxis = enableZAxis
	}
	if flags.Changed("driving-only") {
		cfg.DrivingOnly = drivingOnly
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *xodr2hd.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func checkFile(fname string) error {
	info, err := os.Stat(fname)
	if err != nil {
		return fmt.Errorf("File not exist! '%s'", fname)
	}
	if info.IsDir() {
		return fmt.Errorf("'%s' is a directory", fname)
	}
	return nil
}
