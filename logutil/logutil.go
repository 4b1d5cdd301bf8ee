// Package logutil wraps a package-level zap logger with two sinks per
// spec.md §6: a console-friendly encoder on stdout at info level, and a
// JSON encoder on latest.log at debug level. Grounded on
// matrixorigin-matrixone/pkg/logutil's zapcore.NewTee-based multi-sink
// construction (logutil.go's GetGlobalLogger/SetupMOLogger), the one
// example repo in the pack that builds its own zap core instead of
// importing a preconfigured one.
package logutil

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	sugar = build("latest.log").Sugar()
}

func build(logFile string) *zap.Logger {
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	jsonEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(zap.InfoLevel)),
	}

	if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(f), zap.NewAtomicLevelAt(zap.DebugLevel)))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// Reconfigure rebuilds the global logger against a different debug log
// file path, used by cmd/toydb once the config package has loaded the
// configured log file location.
func Reconfigure(logFile string) {
	sugar = build(logFile).Sugar()
}

func Debugf(format string, args ...interface{}) { sugar.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { sugar.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { sugar.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { sugar.Errorf(format, args...) }

// Sync flushes buffered log entries; callers should defer this at process
// exit (zap's own recommended pattern, used the same way in the teacher's
// main.go no-op logging path).
func Sync() error { return sugar.Sync() }
