package cmd

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/MAPSWorks/osmpbf/internal/config"
	"github.com/MAPSWorks/osmpbf/internal/logger"
)

var (
	cfg             = config.DefaultConfig()
	verbose         bool
	logFile         string
	metricsInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "osmpbf",
	Short: "Inspect, filter, and benchmark OpenStreetMap .osm.pbf files",
	Long: `osmpbf is a command line tool built on the osmpbf block codec library.

Subcommands:
  inspect  stream a file and print header/block/primitive counts
  filter   apply a YAML tag-filter document and report what matches
  bench    run a file through one of the parallel block pipeline drivers`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.Verbose = verbose
		cfg.LogFile = logFile
		cfg.MetricsInterval = metricsInterval

		if logFile != "" {
			logger.InitWithFile(verbose, logFile)
		} else {
			logger.Init(verbose)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Number of parallel workers")
	rootCmd.PersistentFlags().BoolVar(&cfg.Mmap, "mmap", false, "Open the input with the mmap-backed reader")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file for persistent logging (JSON format)")
	rootCmd.PersistentFlags().DurationVar(&metricsInterval, "metrics-interval", 30*time.Second, "Interval for runtime metrics logging (e.g. 10s, 1m)")
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}
