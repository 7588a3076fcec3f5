// Package simplelogger builds the debug logger: JSON lines appended to a file, or nothing at all. The path comes from the log_file setting
// (FILEKIT_LOG_FILE or --log-file).
package simplelogger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger that appends JSON lines to the file at path, and a function that flushes and closes it.
//
// If path is empty or can't be opened as a file, the logger is a no-op.
func New(path string) (*zap.Logger, func()) {
	if path == "" {
		return zap.NewNop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zap.NewNop(), func() {}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), zapcore.DebugLevel)
	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}
}
