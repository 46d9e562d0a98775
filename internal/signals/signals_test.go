package signals

import (
	"bytes"
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadlytoah/heartbeat2/internal/events"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

func TestRunForwardsSigtermAsEvent(t *testing.T) {
	queue := events.NewQueue(1)
	logger := logging.New("HEARTBEAT", &bytes.Buffer{})
	l := New(logger, queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case ev := <-queue.C():
		assert.Equal(t, events.Signalled, ev.Kind)
		assert.Equal(t, events.Term, ev.Signal)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signal event")
	}

	l.Close()
	cancel()
	<-done
}

func TestCloseWithoutRunPanics(t *testing.T) {
	logger := logging.New("HEARTBEAT", &bytes.Buffer{})
	l := New(logger, events.NewQueue(1))

	assert.Panics(t, l.Close)
}
