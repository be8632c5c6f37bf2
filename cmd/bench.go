package cmd

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MAPSWorks/osmpbf"
	"github.com/MAPSWorks/osmpbf/internal/config"
	"github.com/MAPSWorks/osmpbf/internal/logger"
	"github.com/MAPSWorks/osmpbf/internal/metrics"
)

var (
	strategyFlag  string
	batchSizeFlag int
)

var benchCmd = &cobra.Command{
	Use:   "bench <input.osm.pbf>",
	Short: "Run a file through one of the parallel block pipeline drivers",
	Args:  cobra.ExactArgs(1),
	Run:   runBench,
}

func init() {
	benchCmd.Flags().StringVar(&strategyFlag, "strategy", string(config.StrategySequential), "sequential, forkjoin, or workerpool")
	benchCmd.Flags().IntVarP(&batchSizeFlag, "batch-size", "n", 0, "blocks fetched per acquisition (forkjoin/workerpool); defaults to cfg.BatchSize")
	rootCmd.AddCommand(benchCmd)
}

// benchCounts accumulates totals across however many goroutines the
// chosen strategy drives BlockProcessor from; every field is updated with
// atomic adds so it's safe under ParseForkJoin/ParseWorkerPool.
type benchCounts struct {
	blocks, nodes, ways, relations int64
}

func (c *benchCounts) processor() osmpbf.BlockProcessor {
	return func(dec *osmpbf.PrimitiveBlockDecoder) {
		atomic.AddInt64(&c.blocks, 1)
		if dec.IsNull() {
			return
		}
		var n, w, r int64
		ns := osmpbf.NewNodeStream(dec)
		for ns.Next() {
			n++
		}
		ws := osmpbf.NewWayStream(dec)
		for ws.Next() {
			w++
		}
		rs := osmpbf.NewRelationStream(dec)
		for rs.Next() {
			r++
		}
		atomic.AddInt64(&c.nodes, n)
		atomic.AddInt64(&c.ways, w)
		atomic.AddInt64(&c.relations, r)
	}
}

func runBench(cmd *cobra.Command, args []string) {
	cfg.InputFile = args[0]
	log := logger.Component("bench")

	strategy, err := config.ParseStrategy(strategyFlag)
	if err != nil {
		exitWithError("bench failed", err)
	}
	cfg.Strategy = strategy
	batchSize := batchSizeFlag
	if batchSize <= 0 {
		batchSize = cfg.BatchSize
	}

	in, closeFn, err := openInput(cfg.InputFile, cfg.Mmap)
	if err != nil {
		exitWithError("failed to open input", err)
	}
	defer closeFn()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector(cfg.MetricsInterval, log)
	go collector.Start(ctx)

	var counts benchCounts
	start := time.Now()

	switch strategy {
	case config.StrategySequential:
		err = osmpbf.ParseSequential(in, counts.processor())
	case config.StrategyForkJoin:
		err = osmpbf.ParseForkJoin(ctx, in, batchSize, counts.processor())
	case config.StrategyWorkerPool:
		err = osmpbf.ParseWorkerPool(ctx, in, cfg.Workers, batchSize, counts.processor())
	}
	if err != nil {
		exitWithError("bench failed", err)
	}

	elapsed := time.Since(start)
	total := counts.nodes + counts.ways + counts.relations
	throughput := float64(total) / elapsed.Seconds()

	log.Info("bench complete",
		zap.String("strategy", string(strategy)),
		zap.Int("workers", cfg.Workers),
		zap.Int("batch_size", batchSize),
		zap.Duration("elapsed", elapsed.Round(time.Millisecond)),
		zap.Int64("blocks", counts.blocks),
		zap.Int64("nodes", counts.nodes),
		zap.Int64("ways", counts.ways),
		zap.Int64("relations", counts.relations),
		zap.Float64("primitives_per_sec", throughput),
	)
}
