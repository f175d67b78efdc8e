package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

type logLevel int8

const TraceLogLevel logLevel = -1
const DebugLogLevel logLevel = 0
const InfoLogLevel logLevel = 1
const WarningLogLevel logLevel = 2
const ErrorLogLevel logLevel = 3
// os.Exit(1) will be called after log creation.
const FatalLogLevel logLevel = 4
// Will cause panic after log creation.
const PanicLogLevel logLevel = 5

var logLevelToStrMap = map[logLevel]string{
	TraceLogLevel:   "TRACE",
	DebugLogLevel:   "DEBUG",
	InfoLogLevel:    "INFO",
	WarningLogLevel: "WARNING",
	ErrorLogLevel:   "ERROR",
	FatalLogLevel:   "FATAL",
	PanicLogLevel:   "PANIC",
}

var logLevelToLogrusMap = map[logLevel]logrus.Level{
	TraceLogLevel:   logrus.TraceLevel,
	DebugLogLevel:   logrus.DebugLevel,
	InfoLogLevel:    logrus.InfoLevel,
	WarningLogLevel: logrus.WarnLevel,
	ErrorLogLevel:   logrus.ErrorLevel,
	FatalLogLevel:   logrus.FatalLevel,
	PanicLogLevel:   logrus.PanicLevel,
}

func (s logLevel) String() string {
	return logLevelToStrMap[s]
}

func (s logLevel) logrus() logrus.Level {
	return logLevelToLogrusMap[s]
}

type LogEntry struct {
	Timestamp time.Time
	rawLevel  logLevel
	Level     string
	Source    string
	Message   string
	Error     string
	Meta      Meta
}

// Creates a new log entry. Timestamp is time.Now().
// If level is not error, fatal or panic, then Error will be empty, even if err specified.
func NewLogEntry(
	level logLevel,
	src string,
	msg string,
	err string,
	meta Meta,
) LogEntry {
	e := LogEntry{
		Timestamp: time.Now(),
		rawLevel:  level,
		Level:     level.String(),
		Source:    src,
		Message:   msg,
		Meta:      meta,
	}

	// error, fatal, panic
	if level >= ErrorLogLevel {
		e.Error = err
	}

	return e
}
