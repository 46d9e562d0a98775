package conductor

import (
	"context"
	"syscall"

	"github.com/deadlytoah/heartbeat2/internal/events"
	"github.com/deadlytoah/heartbeat2/internal/heartbeat"
	"github.com/deadlytoah/heartbeat2/internal/logging"
	"github.com/deadlytoah/heartbeat2/internal/signals"
	"github.com/deadlytoah/heartbeat2/internal/supervisor"
)

// reducer consumes events raised by the heartbeat prober, the child
// supervisor and the signal listener, and drives the other
// components' reactions to them. It is kept in this package rather
// than alongside events.Queue because it is the one place that
// already depends on every component an event might need to act on;
// the original implementation's event module can depend on all
// three within the same crate, a cycle Go packages disallow.
type reducer struct {
	supervisor *supervisor.Supervisor
	heartbeat  *heartbeat.Prober
	signals    *signals.Listener
	logger     *logging.Logger
	queue      *events.Queue
}

func newReducer(sup *supervisor.Supervisor, hb *heartbeat.Prober, sig *signals.Listener, logger *logging.Logger, queue *events.Queue) *reducer {
	return &reducer{supervisor: sup, heartbeat: hb, signals: sig, logger: logger, queue: queue}
}

// run consumes events until the supervised process is Terminated or
// Killed. It panics if the event queue closes with nothing pending,
// since the reducer holds the only receiving end and expects to be
// the last party to give up on the channel.
func (r *reducer) run(ctx context.Context) error {
	for !r.supervisor.IsTerminated() && !r.supervisor.IsKilled() {
		select {
		case ev, ok := <-r.queue.C():
			if !ok {
				panic("event queue closed")
			}
			r.logger.Logf(logging.Debug, "[%v] event raised", ev.Kind)
			if err := r.consume(ev); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// reset clears any events still queued, preparing the reducer for
// another round after a restart.
func (r *reducer) reset() {
	r.logger.Log(logging.Trace, "reducer.reset()")
	r.clearQueue()
}

func (r *reducer) clearQueue() {
	for {
		select {
		case _, ok := <-r.queue.C():
			if !ok {
				panic("event queue closed")
			}
		default:
			return
		}
	}
}

func (r *reducer) consume(ev events.Event) error {
	switch ev.Kind {
	case events.Timeout:
		return r.consumeTimeout()
	case events.Aborted:
		return r.consumeAborted()
	case events.Complete:
		return r.consumeComplete()
	case events.Signalled:
		return r.consumeSignalled(ev.Signal)
	default:
		return nil
	}
}

// consumeTimeout kills the unresponsive child. It deliberately does
// not stop the heartbeat prober: the prober's own timer loop already
// breaks out right after raising the Timeout event that led here.
func (r *reducer) consumeTimeout() error {
	if err := r.supervisor.KillProcess(); err != nil {
		return err
	}
	r.signals.Close()
	return nil
}

func (r *reducer) consumeAborted() error {
	r.logger.Log(logging.Trace, "reducer.consumeAborted()")
	r.supervisor.SetKilled()
	if err := r.heartbeat.Stop(); err != nil {
		return err
	}
	r.signals.Close()
	return nil
}

func (r *reducer) consumeComplete() error {
	r.logger.Log(logging.Trace, "reducer.consumeComplete()")
	r.supervisor.SetTerminated()
	if err := r.heartbeat.Stop(); err != nil {
		return err
	}
	r.signals.Close()
	return nil
}

func (r *reducer) consumeSignalled(sig events.SignalKind) error {
	r.logger.Logf(logging.Trace, "reducer.consumeSignalled(%v)", sig)
	var unixSignal syscall.Signal
	switch sig {
	case events.Quit:
		unixSignal = syscall.SIGQUIT
	case events.Term:
		unixSignal = syscall.SIGTERM
	}
	if err := r.supervisor.RaiseSignal(unixSignal); err != nil {
		return err
	}
	if err := r.heartbeat.Stop(); err != nil {
		return err
	}
	r.signals.Close()
	return nil
}
