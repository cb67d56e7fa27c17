package main

import (
	"fmt"
	"strings"

	"github.com/LdDl/xodr2hd"
	"github.com/spf13/cobra"
)

var (
	routeInput string
	routeFrom  string
	routeTo    string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Find the shortest lane sequence between two lanes",
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().StringVarP(&routeInput, "input", "i", "", "Map input path (.xodr)")
	routeCmd.Flags().StringVar(&routeFrom, "from", "", "Source lane id, e.g. road_1_lane_0_-1")
	routeCmd.Flags().StringVar(&routeTo, "to", "", "Target lane id")
	routeCmd.MarkFlagRequired("input")
	routeCmd.MarkFlagRequired("from")
	routeCmd.MarkFlagRequired("to")
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := prepareConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if err := checkFile(routeInput); err != nil {
		return err
	}
	doc, err := xodr2hd.LoadOpenDRIVE(routeInput)
	if err != nil {
		return err
	}
	converter, err := xodr2hd.NewConverter(cfg, xodr2hd.WithLogger(logger))
	if err != nil {
		return err
	}
	hdmap, err := converter.Convert(cmd.Context(), doc)
	if err != nil {
		return err
	}
	graph, err := xodr2hd.NewLaneGraph(hdmap)
	if err != nil {
		return err
	}
	lanes, cost, err := graph.ShortestPath(routeFrom, routeTo)
	if err != nil {
		return err
	}
	fmt.Printf("Cost: %f\nPath: %s\n", cost, strings.Join(lanes, " -> "))
	return nil
}
