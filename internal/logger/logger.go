package logger

import (
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init initializes the global logger with console output only.
func Init(debug bool) {
	once.Do(func() {
		initLogger(debug, "")
	})
}

// InitWithFile initializes the global logger with both console and file
// output. The file core always writes JSON so a --log-file from one run
// can be fed to jq/grep for the block/primitive counters every subcommand
// logs on completion.
func InitWithFile(debug bool, logFile string) {
	once.Do(func() {
		initLogger(debug, logFile)
	})
}

// initLogger creates the process-wide logger. Every entry carries a
// static "app" field so a shared --log-file receiving output from
// multiple osmpbf invocations (inspect, filter, bench) can still be
// filtered back apart.
func initLogger(debug bool, logFile string) {
	var level zapcore.Level
	var encoderConfig zapcore.EncoderConfig

	if debug {
		level = zapcore.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		level = zapcore.InfoLevel
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if logFile != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    20, // MB; a batch codec run produces far less log volume than a long-lived importer
				MaxBackups: 3,
				MaxAge:     14, // days
				Compress:   true,
			}),
			level,
		)
		cores = append(cores, fileCore)
	}

	log = zap.New(
		zapcore.NewTee(cores...),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("app", "osmpbf")),
	)
}

// Get returns the global logger, initializing it in non-debug console-only
// mode if no subcommand has called Init/InitWithFile yet.
func Get() *zap.Logger {
	if log == nil {
		Init(false)
	}
	return log
}

// Component returns a logger scoped to one subsystem (e.g. "inspect",
// "filter", "bench", "pipeline") by naming it with zap's Named, so every
// entry it emits carries that name in its logger-name field ("logger" in
// the JSON file output) and a shared --log-file can be split back apart
// per subcommand or internal stage.
func Component(name string) *zap.Logger {
	return Get().Named(name)
}

// Sync flushes any buffered log entries.
func Sync() {
	if log != nil {
		log.Sync()
	}
}
