// Package warnings routes rule-level warnings either to the logger or to a report file.
package warnings

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	warningFileWriteErrorFormat = "write warning output %s: %w"
	warningFilePermissions      = 0o644
)

// Sink receives human-readable warnings produced while tidying rules.
type Sink interface {
	Emit(message string)
}

type discardSink struct{}

func (discardSink) Emit(string) {}

// Discard drops every warning.
var Discard Sink = discardSink{}

// LoggerSink writes each warning through the application logger as it arrives.
type LoggerSink struct {
	logger *zap.Logger
}

// NewLoggerSink creates a sink backed by the logger.
func NewLoggerSink(logger *zap.Logger) *LoggerSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerSink{logger: logger}
}

// Emit logs the warning at warn level.
func (sink *LoggerSink) Emit(message string) {
	sink.logger.Warn(message)
}

// BufferedSink collects warnings in memory and writes them to a file on Flush.
// It is safe for concurrent use by the per-file workers.
type BufferedSink struct {
	outputPath string
	hasWarning atomic.Bool
	mutex      sync.Mutex
	messages   []string
}

// NewBufferedSink creates a sink that flushes to outputPath.
func NewBufferedSink(outputPath string) *BufferedSink {
	return &BufferedSink{outputPath: outputPath}
}

// Emit records the warning.
func (sink *BufferedSink) Emit(message string) {
	sink.mutex.Lock()
	sink.messages = append(sink.messages, message)
	sink.mutex.Unlock()
	sink.hasWarning.Store(true)
}

// Messages returns a copy of the collected warnings in arrival order.
func (sink *BufferedSink) Messages() []string {
	if !sink.hasWarning.Load() {
		return nil
	}
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	return append([]string(nil), sink.messages...)
}

// Flush writes the collected warnings to the output file, one per line.
// Nothing is written when no warning was emitted.
func (sink *BufferedSink) Flush() error {
	messages := sink.Messages()
	if len(messages) == 0 {
		return nil
	}
	content := strings.Join(messages, "\n") + "\n"
	if writeError := os.WriteFile(sink.outputPath, []byte(content), warningFilePermissions); writeError != nil {
		return fmt.Errorf(warningFileWriteErrorFormat, sink.outputPath, writeError)
	}
	return nil
}

var (
	_ Sink = (*LoggerSink)(nil)
	_ Sink = (*BufferedSink)(nil)
)
