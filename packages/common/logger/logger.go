package logger

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var Debug atomic.Bool
var Trace atomic.Bool

type Meta map[string]any

type Logger interface {
	Log(entry *LogEntry)
}

// Logger backed by logrus. Emits one JSON object per entry.
type LogrusLogger struct {
	base    *logrus.Logger
	service string
}

func NewLogrusLogger(service string, out io.Writer) *LogrusLogger {
	base := logrus.New()
	base.SetOutput(out)
	// Debug and trace entries are filtered by preprocess(), not by logrus.
	base.SetLevel(logrus.TraceLevel)
	base.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	return &LogrusLogger{base: base, service: service}
}

// Returns underlying logrus logger.
// Mostly required for tests and to redirect output.
func (l *LogrusLogger) Base() *logrus.Logger {
	return l.base
}

func (l *LogrusLogger) SetOutput(out io.Writer) {
	l.base.SetOutput(out)
}

func (l *LogrusLogger) Log(entry *LogEntry) {
	if !preprocess(entry) {
		return
	}

	fields := logrus.Fields{
		"service": l.service,
	}
	if entry.Source != "" {
		fields["source"] = entry.Source
	}
	if entry.Error != "" {
		fields["error"] = entry.Error
	}
	for k, v := range entry.Meta {
		fields[k] = v
	}

	e := l.base.WithFields(fields).WithTime(entry.Timestamp)

	// logrus panics by itself on PanicLevel
	e.Log(entry.rawLevel.logrus(), entry.Message)

	if entry.rawLevel == FatalLogLevel {
		l.base.Exit(1)
	}
}

// Returns false if log must not be processed
func preprocess(entry *LogEntry) bool {
	if entry.rawLevel == DebugLogLevel && !Debug.Load() {
		return false
	}

	if entry.rawLevel == TraceLogLevel && !Trace.Load() {
		return false
	}

	return true
}

var Default = NewLogrusLogger("flashauction", os.Stdout)

// Refers logger.Default
var Undefined = NewSource("UNDEFINED", Default)
