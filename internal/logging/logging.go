// internal/logging/logging.go
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = zap.NewNop()
)

// Init configures the process logger. Output always goes to stdout and is
// additionally appended to logPath when it is non-empty.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logger.Sync()
		_ = logFile.Close()
		logFile = nil
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if strings.TrimSpace(logPath) != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		syncers = append(syncers, zapcore.AddSync(file))
	}

	logger = New(zapcore.NewMultiWriteSyncer(syncers...), level)
	return nil
}

// New builds a console logger writing to w.
func New(w zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " | "

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), w, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// L returns the process logger. Before Init it discards everything.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Close flushes the logger and releases the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = zap.NewNop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// LogEvent writes a formatted informational line.
func LogEvent(format string, args ...any) {
	L().Info(fmt.Sprintf(format, args...))
}
