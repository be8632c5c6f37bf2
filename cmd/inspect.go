package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MAPSWorks/osmpbf"
	"github.com/MAPSWorks/osmpbf/internal/logger"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.osm.pbf>",
	Short: "Stream a file and print header and primitive counts",
	Args:  cobra.ExactArgs(1),
	Run:   runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	cfg.InputFile = args[0]
	log := logger.Component("inspect")

	in, closeFn, err := openInput(cfg.InputFile, cfg.Mmap)
	if err != nil {
		exitWithError("failed to open input", err)
	}
	defer closeFn()

	log.Info("header",
		zap.Strings("required_features", in.Header.RequiredFeatures),
		zap.Strings("optional_features", in.Header.OptionalFeatures),
		zap.String("writing_program", in.Header.WritingProgram),
		zap.Bool("has_bbox", in.Header.HasBBox),
	)

	start := time.Now()
	var blocks, nodes, ways, relations int64

	err = osmpbf.ParseSequential(in, func(dec *osmpbf.PrimitiveBlockDecoder) {
		blocks++
		if dec.IsNull() {
			return
		}
		ns := osmpbf.NewNodeStream(dec)
		for ns.Next() {
			nodes++
		}
		ws := osmpbf.NewWayStream(dec)
		for ws.Next() {
			ways++
		}
		rs := osmpbf.NewRelationStream(dec)
		for rs.Next() {
			relations++
		}
	})
	if err != nil {
		exitWithError("inspect failed", err)
	}

	elapsed := time.Since(start)
	log.Info("inspect complete",
		zap.Duration("elapsed", elapsed.Round(time.Millisecond)),
		zap.Int64("blocks", blocks),
		zap.Int64("nodes", nodes),
		zap.Int64("ways", ways),
		zap.Int64("relations", relations),
	)
}

// openInput opens path with either the mmap-backed reader or the buffered
// one, returning a uniform close function for both.
func openInput(path string, useMmap bool) (*osmpbf.OSMFileIn, func() error, error) {
	if useMmap {
		mf, err := osmpbf.OpenMmapOSMFile(path)
		if err != nil {
			return nil, nil, err
		}
		return mf.OSMFileIn, mf.Close, nil
	}
	f, err := osmpbf.OpenOSMFile(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
