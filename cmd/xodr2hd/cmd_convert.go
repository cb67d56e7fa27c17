package main

import (
	"fmt"
	"strings"

	"github.com/LdDl/xodr2hd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	convertInput  string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert OpenDRIVE map to HD map",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Map input path (.xodr)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "map.csv", "Map output path (.csv / .geojson / .osm)")
	convertCmd.MarkFlagRequired("input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if err := checkFile(convertInput); err != nil {
		logger.Error("Bad input", zap.Error(err))
		return err
	}
	if cfg.Debug {
		fmt.Println(cfg)
	}
	hdmap, err := xodr2hd.ConvertFile(cmd.Context(), convertInput, convertOutput, cfg, xodr2hd.WithLogger(logger))
	if err != nil {
		logger.Error("Conversion failed", zap.Error(err))
		return err
	}
	logger.Info("Done", zap.String("map", hdmap.String()))
	if failed := hdmap.FailureSummary(); len(failed) != 0 {
		fmt.Printf("Failed roads: %s\n", strings.Join(failed, ", "))
	}
	return nil
}
