package supervisor

import (
	"bytes"
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/events"
	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

func newSupervisor(t *testing.T, command []string) (*Supervisor, *events.Queue) {
	t.Helper()
	doc := `(:command (` + quoteAll(command) + `) :working-directory "/")`
	sec, err := config.ParseSection([]byte(doc))
	require.NoError(t, err)
	cfg := config.New()
	cfg.SetSection(config.SectionHeartbeat, sec)
	queue := events.NewQueue(1)
	logger := logging.New("HEARTBEAT", &bytes.Buffer{})
	return New(cfg, logger, queue), queue
}

func quoteAll(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += " "
		}
		out += `"` + s + `"`
	}
	return out
}

func TestRunProcessCompletesOnSuccessfulExit(t *testing.T) {
	s, queue := newSupervisor(t, []string{"/bin/true"})

	outcome, err := s.RunProcess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Complete, outcome)
	select {
	case ev := <-queue.C():
		assert.Equal(t, events.Complete, ev.Kind)
	default:
		t.Fatal("no event raised")
	}
}

func TestRunProcessAbortsOnFailedExit(t *testing.T) {
	s, queue := newSupervisor(t, []string{"/bin/false"})

	outcome, err := s.RunProcess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Abort, outcome)
	select {
	case ev := <-queue.C():
		assert.Equal(t, events.Aborted, ev.Kind)
	default:
		t.Fatal("no event raised")
	}
}

func TestKillProcessStopsRunningChild(t *testing.T) {
	s, _ := newSupervisor(t, []string{"/bin/sleep", "5"})

	done := make(chan struct{})
	var outcome Outcome
	var runErr error
	go func() {
		outcome, runErr = s.RunProcess(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.KillProcess())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunProcess did not return after KillProcess")
	}
	require.NoError(t, runErr)
	assert.Equal(t, Abort, outcome)
	assert.True(t, s.IsKilled())
}

func TestRaiseSignalAlwaysReturnsComplete(t *testing.T) {
	s, _ := newSupervisor(t, []string{"/bin/sleep", "5"})

	done := make(chan struct{})
	var outcome Outcome
	var runErr error
	go func() {
		outcome, runErr = s.RunProcess(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.RaiseSignal(syscall.SIGTERM))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunProcess did not return after RaiseSignal")
	}
	require.NoError(t, runErr)
	assert.Equal(t, Complete, outcome, "always Complete, even if the signal landed")
}

func TestKillProcessFailsWithoutRunningProcess(t *testing.T) {
	s, _ := newSupervisor(t, []string{"/bin/true"})
	err := s.KillProcess()
	assert.True(t, faults.Is(err, faults.NoRunningProcess))
}

func TestResetRequiresKilled(t *testing.T) {
	s, _ := newSupervisor(t, []string{"/bin/true"})
	err := s.Reset()
	assert.True(t, faults.Is(err, faults.IllegalState))
}
