// Package supervisor starts, watches and controls the supervised
// child process, matching the original implementation's process
// module.
package supervisor

import (
	"context"
	"os/exec"
	"sync"
	"syscall"

	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/events"
	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

// Status is the child process's state at a point in time.
type Status int

const (
	Ready Status = iota
	Running
	Terminated
	Killed
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	case Killed:
		return "Killed"
	default:
		return "Unknown"
	}
}

// Outcome is the result of one RunProcess call.
type Outcome int

const (
	Complete Outcome = iota
	Abort
)

func (o Outcome) String() string {
	if o == Complete {
		return "Complete"
	}
	return "Abort"
}

type actionKind int

const (
	actionKill actionKind = iota
	actionRaiseSignal
)

type action struct {
	kind   actionKind
	signal syscall.Signal
}

// Supervisor manages the execution and status of the supervised
// child process, raising events on the shared Queue when it
// terminates on its own.
type Supervisor struct {
	config *config.Config
	logger *logging.Logger
	queue  *events.Queue

	mu     sync.Mutex
	status Status
	agent  chan action
}

// New constructs a Supervisor.
func New(cfg *config.Config, logger *logging.Logger, queue *events.Queue) *Supervisor {
	return &Supervisor{config: cfg, logger: logger, queue: queue, status: Ready}
}

func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Supervisor) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Supervisor) isReady() bool {
	return s.Status() == Ready
}

// IsKilled reports whether the Supervisor is in the Killed state.
func (s *Supervisor) IsKilled() bool {
	return s.Status() == Killed
}

// SetKilled forces the Killed state, used by the reducer when the
// child exited abnormally (an Aborted event).
func (s *Supervisor) SetKilled() {
	s.setStatus(Killed)
}

// IsTerminated reports whether the Supervisor is in the Terminated
// state.
func (s *Supervisor) IsTerminated() bool {
	return s.Status() == Terminated
}

// SetTerminated forces the Terminated state, used by the reducer on
// a Complete event and by the conductor when it gives up on the
// child.
func (s *Supervisor) SetTerminated() {
	s.setStatus(Terminated)
}

// Reset returns a Killed Supervisor to Ready so RunProcess can be
// called again.
func (s *Supervisor) Reset() error {
	s.logger.Log(logging.Trace, "Supervisor.Reset()")
	if !s.IsKilled() {
		return faults.New(faults.IllegalState, s.Status().String())
	}
	s.setStatus(Ready)
	return nil
}

// RunProcess starts the command configured under the "heartbeat"
// section's COMMAND key and waits for it to exit, to be killed, or
// to be signalled, whichever happens first.
func (s *Supervisor) RunProcess(ctx context.Context) (Outcome, error) {
	sec, err := s.config.Section(config.SectionHeartbeat)
	if err != nil {
		return 0, err
	}
	command, err := sec.StringList(config.KeyCommand)
	if err != nil {
		return 0, err
	}
	if len(command) == 0 {
		return 0, faults.New(faults.ConfigFormat, "command is empty")
	}
	wd, err := sec.String(config.KeyWorkingDirectory)
	if err != nil {
		return 0, err
	}

	if !s.isReady() {
		return 0, faults.New(faults.IllegalState, s.Status().String())
	}

	s.logger.Log(logging.Info, "start process")
	s.setStatus(Running)

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = wd
	if err := cmd.Start(); err != nil {
		return 0, faults.Wrap(faults.Io, err)
	}

	agentCh := make(chan action, 1)
	s.mu.Lock()
	s.agent = agentCh
	s.mu.Unlock()

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case waitErr := <-waitCh:
		if waitErr == nil {
			return s.raiseComplete(ctx)
		}
		return s.raiseAbort(ctx)
	case act := <-agentCh:
		switch act.kind {
		case actionRaiseSignal:
			if err := cmd.Process.Signal(act.signal); err != nil {
				s.logger.Logf(logging.Warning, "unable to raise signal [%v] as child process already exited", act.signal)
			}
			return Complete, nil
		case actionKill:
			_ = cmd.Process.Kill()
			<-waitCh
			return Abort, nil
		default:
			return 0, faults.New(faults.IllegalState, "unknown action")
		}
	}
}

func (s *Supervisor) raiseComplete(ctx context.Context) (Outcome, error) {
	s.logger.Log(logging.Info, "normal process exit")
	if err := s.queue.Send(ctx, events.NewComplete()); err != nil {
		return 0, err
	}
	return Complete, nil
}

func (s *Supervisor) raiseAbort(ctx context.Context) (Outcome, error) {
	s.logger.Log(logging.Error, "abnormal process exit")
	if err := s.queue.Send(ctx, events.NewAborted()); err != nil {
		return 0, err
	}
	return Abort, nil
}

// KillProcess marks the process Killed and asks RunProcess's select
// loop to kill the child. It fails with NoRunningProcess if no
// process is currently running.
func (s *Supervisor) KillProcess() error {
	s.logger.Log(logging.Trace, "Supervisor.KillProcess()")
	s.setStatus(Killed)
	return s.sendAction(action{kind: actionKill})
}

// RaiseSignal marks the process Terminated and asks RunProcess's
// select loop to deliver sig to the child. It fails with
// NoRunningProcess if no process is currently running.
func (s *Supervisor) RaiseSignal(sig syscall.Signal) error {
	s.logger.Logf(logging.Trace, "Supervisor.RaiseSignal(%v)", sig)
	s.setStatus(Terminated)
	return s.sendAction(action{kind: actionRaiseSignal, signal: sig})
}

func (s *Supervisor) sendAction(act action) error {
	s.mu.Lock()
	ch := s.agent
	s.agent = nil
	s.mu.Unlock()

	if ch == nil {
		return faults.New(faults.NoRunningProcess, "")
	}
	select {
	case ch <- act:
		return nil
	default:
		return faults.New(faults.NoRunningProcess, "")
	}
}
