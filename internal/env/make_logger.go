package env

import (
	zap "go.uber.org/zap"
)

// MakeLogger builds the process logger. Logs go to stderr so command
// output on stdout stays clean for piping.
func MakeLogger(verbose bool) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logConfig.Encoding = "json"

	if verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return logConfig.Build()
}
