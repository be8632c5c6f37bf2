package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MAPSWorks/osmpbf"
	"github.com/MAPSWorks/osmpbf/internal/logger"
)

var filterClass string

var filterCmd = &cobra.Command{
	Use:   "filter <input.osm.pbf>",
	Short: "Count primitives matching a YAML tag-filter document",
	Args:  cobra.ExactArgs(1),
	Run:   runFilter,
}

func init() {
	filterCmd.Flags().StringVar(&cfg.FilterFile, "filter-file", "", "YAML tag-filter document (required)")
	filterCmd.Flags().StringVar(&filterClass, "class", "points", "document class to apply: points, lines, or polygons")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) {
	cfg.InputFile = args[0]
	log := logger.Component("filter")

	if cfg.FilterFile == "" {
		exitWithError("filter failed", errors.New("--filter-file is required"))
	}

	doc, err := osmpbf.LoadFilterDocument(cfg.FilterFile)
	if err != nil {
		exitWithError("failed to load filter document", err)
	}

	var fcfg *osmpbf.FilterConfig
	switch filterClass {
	case "points":
		fcfg = doc.Points
	case "lines":
		fcfg = doc.Lines
	case "polygons":
		fcfg = doc.Polygons
	default:
		exitWithError("filter failed", errors.New("--class must be points, lines, or polygons"))
	}
	tf, err := osmpbf.BuildTagFilter(fcfg)
	if err != nil {
		exitWithError("failed to compile filter document", err)
	}

	in, closeFn, err := openInput(cfg.InputFile, cfg.Mmap)
	if err != nil {
		exitWithError("failed to open input", err)
	}
	defer closeFn()

	start := time.Now()
	var seen, matched int64

	err = osmpbf.ParseSequential(in, func(dec *osmpbf.PrimitiveBlockDecoder) {
		if dec.IsNull() {
			return
		}
		tf.AssignInputAdaptor(dec)
		if !tf.RebuildCache() {
			return
		}

		ns := osmpbf.NewNodeStream(dec)
		for ns.Next() {
			seen++
			if tf.Matches(ns) {
				matched++
			}
		}
		ws := osmpbf.NewWayStream(dec)
		for ws.Next() {
			seen++
			if tf.Matches(ws) {
				matched++
			}
		}
		rs := osmpbf.NewRelationStream(dec)
		for rs.Next() {
			seen++
			if tf.Matches(rs) {
				matched++
			}
		}
	})
	if err != nil {
		exitWithError("filter failed", err)
	}

	log.Info("filter complete",
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
		zap.String("class", filterClass),
		zap.Int64("seen", seen),
		zap.Int64("matched", matched),
	)
}
