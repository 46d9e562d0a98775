package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("HEARTBEAT", &buf)
	l.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	l.Log(Info, "start heartbeat process")

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "[HEARTBEAT] ["))
	assert.Contains(t, got, "] Info: start heartbeat process\n")
}

func TestLogfFormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New("HEARTBEAT", &buf)

	l.Logf(Error, "unknown response [%s]", "GARBAGE")

	assert.Contains(t, buf.String(), "Error: unknown response [GARBAGE]")
}

func TestSevereAndFatalDoNotExitOrPanic(t *testing.T) {
	var buf bytes.Buffer
	l := New("HEARTBEAT", &buf)

	l.Log(Severe, "a severe condition")
	l.Log(Fatal, "a fatal condition")

	assert.Contains(t, buf.String(), "Severe: a severe condition")
	assert.Contains(t, buf.String(), "Fatal: a fatal condition")
}
