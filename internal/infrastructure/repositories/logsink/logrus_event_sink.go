package logsink

import (
	"io"
	"math"
	"os"
	"strings"
	"sync"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

const (
	logFileMaxSizeMB  = 5
	logFileMaxBackups = 3
	percent           = 100
)

// LogrusEventSink renders run events through a logrus logger.
type LogrusEventSink struct {
	log *logger.Logger

	mu          sync.Mutex
	lastPercent int
	canStart    bool
}

// NewLogrusEventSink creates a sink writing to the standard logrus logger.
func NewLogrusEventSink() *LogrusEventSink {
	return NewLogrusEventSinkWith(logger.StandardLogger())
}

// NewLogrusEventSinkWith creates a sink writing to log.
func NewLogrusEventSinkWith(log *logger.Logger) *LogrusEventSink {
	return &LogrusEventSink{log: log, lastPercent: -1, canStart: true}
}

var _ repositories.EventSink = (*LogrusEventSink)(nil)

// OnLog picks the level from the message prefix: "[✗]" is an error,
// "[!]" a warning, anything else informational.
func (it *LogrusEventSink) OnLog(message string) {
	switch {
	case strings.HasPrefix(message, "[✗]"):
		it.log.Error(message)
	case strings.HasPrefix(message, "[!]"):
		it.log.Warn(message)
	default:
		it.log.Info(message)
	}
}

// OnProgress logs the whole-percent progress, skipping repeats.
func (it *LogrusEventSink) OnProgress(fraction float64) {
	value := int(math.Round(math.Max(0, math.Min(1, fraction)) * percent))

	it.mu.Lock()
	defer it.mu.Unlock()
	if value == it.lastPercent {
		return
	}
	it.lastPercent = value
	it.log.WithField("progress", value).Infof("Progress: %d%%", value)
}

// OnRunStateChanged records whether a new run may be started.
func (it *LogrusEventSink) OnRunStateChanged(canStart bool) {
	it.mu.Lock()
	it.canStart = canStart
	it.mu.Unlock()
	it.log.WithField("can_start", canStart).Debug("Run state changed")
}

// CanStart reports the last state announced by the run.
func (it *LogrusEventSink) CanStart() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.canStart
}

// AttachLogFile tees the standard logger into a size-rotated file at path.
// The returned closer flushes and closes the file.
func AttachLogFile(path string) io.Closer {
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, rotating))
	return rotating
}
