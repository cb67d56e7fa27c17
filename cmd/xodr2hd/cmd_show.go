package main

import (
	"fmt"
	"os"

	"github.com/LdDl/xodr2hd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	showMap     string
	saveFigure  string
	figureWidth int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Reconstruct lane boundaries of OpenDRIVE map and render them",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showMap, "map", "m", "", "Map file (.xodr)")
	showCmd.Flags().StringVar(&saveFigure, "save_fig", "", "Save visualization figure to PNG file")
	showCmd.Flags().IntVar(&figureWidth, "fig_size", 2000, "Size of the figure in pixels")
	showCmd.MarkFlagRequired("map")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if err := checkFile(showMap); err != nil {
		logger.Error("Bad input", zap.Error(err))
		return err
	}
	doc, err := xodr2hd.LoadOpenDRIVE(showMap)
	if err != nil {
		return err
	}
	// Every lane is needed for inspection, filtering happens on rendering
	renderDrivingOnly := cfg.DrivingOnly
	cfg.DrivingOnly = false
	converter, err := xodr2hd.NewConverter(cfg, xodr2hd.WithLogger(logger))
	if err != nil {
		return err
	}
	hdmap, err := converter.Convert(cmd.Context(), doc)
	if err != nil {
		return err
	}
	outlines, err := xodr2hd.DocumentLaneOutlines(doc, renderDrivingOnly)
	if err != nil {
		return err
	}
	fmt.Printf("%s\nLane outlines: %d\n", hdmap, len(outlines))
	if saveFigure == "" {
		return nil
	}
	f, err := os.Create(saveFigure)
	if err != nil {
		return err
	}
	defer f.Close()
	err = xodr2hd.RenderPNG(f, outlines, figureWidth, figureWidth)
	if err != nil {
		return err
	}
	logger.Info("Figure has been saved", zap.String("file", saveFigure))
	return nil
}
