package logging

import (
	"bytes"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
	Buffer *bytes.Buffer
}

var (
	logger *Logger
	once   sync.Once
)

// CreateLogger sets up the logger. It must be called before using the logger.
func CreateLogger() {
	once.Do(func() {
		baseLogger := log.New(os.Stderr)

		// DEBUG=1 turns on caller reporting and debug level
		if os.Getenv("DEBUG") == "1" {
			baseLogger = log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				Prefix:          "jsondump",
			})

			baseLogger.SetLevel(log.DebugLevel)
		} else {
			baseLogger.SetLevel(log.InfoLevel)
		}

		logger = &Logger{Logger: baseLogger}
	})
}

// GetLogger returns the Logger instance.
func GetLogger() *Logger {
	ensureInitialized()
	return logger
}

// NewTestLogger returns a logger that records its output in a buffer
// so tests can assert on what was logged.
func NewTestLogger() *Logger {
	buf := &bytes.Buffer{}
	baseLogger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: false,
	})
	baseLogger.SetLevel(log.DebugLevel)
	return &Logger{Logger: baseLogger, Buffer: buf}
}

// GetOutput returns everything logged so far. Only meaningful for loggers
// created with NewTestLogger.
func (l *Logger) GetOutput() string {
	if l.Buffer == nil {
		return ""
	}
	return l.Buffer.String()
}

// BaseLogger returns the underlying *log.Logger.
func (l *Logger) BaseLogger() *log.Logger {
	return l.Logger
}

// ResetForTest clears the singleton so tests can re-run CreateLogger.
func ResetForTest() {
	logger = nil
	once = sync.Once{}
}

// ensureInitialized ensures the logger is initialized before use.
func ensureInitialized() {
	if logger == nil {
		CreateLogger()
	}
}
