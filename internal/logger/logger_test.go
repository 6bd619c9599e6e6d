package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/studyflow/studyflow/internal/logger"
)

func newBufferLogger(level logger.Level) (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(level),
		logger.WithColors(false),
	)
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(logger.WARN)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("Error"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("bogus"))
}

func TestPrefixAndFields(t *testing.T) {
	l, buf := newBufferLogger(logger.INFO)

	l.WithPrefix("planner").
		WithFields(map[string]any{"profile_id": 1, "mode": "automatic"}).
		Info("allocated %d minutes", 600)

	out := buf.String()
	assert.Contains(t, out, "[planner]")
	assert.Contains(t, out, "allocated 600 minutes")
	// Fields come out in sorted key order.
	assert.Contains(t, out, "mode=automatic profile_id=1")
}

func TestChildDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(logger.INFO)

	child := l.WithField("request_id", "abc")
	child.Info("child line")
	l.Info("parent line")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "request_id=abc")
	assert.NotContains(t, string(lines[1]), "request_id")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	l, buf := newBufferLogger(logger.INFO)

	ctx := logger.NewContext(context.Background(), l)
	logger.FromContext(ctx).Info("scoped line")
	assert.Contains(t, buf.String(), "scoped line")

	assert.NotNil(t, logger.FromContext(context.Background()))
}
