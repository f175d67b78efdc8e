package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*LogrusLogger, *test.Hook) {
	l := NewLogrusLogger("test", new(bytes.Buffer))
	return l, test.NewLocal(l.Base())
}

func TestSourceFields(t *testing.T) {
	l, hook := newTestLogger()
	src := NewSource("BID", l)

	src.Error("Failed to place bid", "insufficient credits", Meta{"request_id": "abc"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Failed to place bid", entry.Message)
	assert.Equal(t, "BID", entry.Data["source"])
	assert.Equal(t, "insufficient credits", entry.Data["error"])
	assert.Equal(t, "abc", entry.Data["request_id"])
	assert.Equal(t, "test", entry.Data["service"])
}

func TestErrorOmittedBelowErrorLevel(t *testing.T) {
	l, hook := newTestLogger()

	entry := NewLogEntry(InfoLogLevel, "SRC", "msg", "should be dropped", nil)
	l.Log(&entry)

	require.Len(t, hook.AllEntries(), 1)
	_, hasError := hook.LastEntry().Data["error"]
	assert.False(t, hasError)
}

func TestDebugAndTraceGating(t *testing.T) {
	l, hook := newTestLogger()
	src := NewSource("SRC", l)

	defer Debug.Store(Debug.Load())
	defer Trace.Store(Trace.Load())

	Debug.Store(false)
	Trace.Store(false)

	src.Debug("hidden", nil)
	src.Trace("hidden", nil)
	assert.Empty(t, hook.AllEntries())

	Debug.Store(true)
	Trace.Store(true)

	src.Debug("shown", nil)
	src.Trace("shown", nil)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestCriticalLevels(t *testing.T) {
	l, _ := newTestLogger()
	src := NewSource("SRC", l)

	t.Run("Panic", func(t *testing.T) {
		assert.Panics(t, func() {
			src.Panic("boom", "reason", nil)
		})
	})

	t.Run("Fatal", func(t *testing.T) {
		code := -1
		l.Base().ExitFunc = func(c int) { code = c }

		src.Fatal("stop", "reason", nil)

		assert.Equal(t, 1, code)
	})
}
