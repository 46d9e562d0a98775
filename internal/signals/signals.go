// Package signals forwards a subset of POSIX signals into the
// watchdog's event queue, matching the original implementation's
// signal module. The reducer relays both SIGTERM and SIGQUIT to the
// supervised child, and after either one the watchdog stops
// supervising and exits without a restart.
package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/deadlytoah/heartbeat2/internal/events"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

// Listener subscribes to SIGQUIT and SIGTERM and translates them
// into events.Signalled notifications.
//
// The original implementation keeps its signal handle in a
// single-threaded RefCell, since its whole process runs on a
// single-threaded async executor; Close is called from the event
// reducer while Run's loop is still live on a different goroutine
// here, so the handle is guarded by a mutex instead.
type Listener struct {
	logger *logging.Logger
	queue  *events.Queue

	mu     sync.Mutex
	handle chan os.Signal // non-nil while subscribed, matching the original's Option<Handle>
}

// New constructs a Listener.
func New(logger *logging.Logger, queue *events.Queue) *Listener {
	return &Listener{logger: logger, queue: queue}
}

// Run subscribes to SIGQUIT and SIGTERM and forwards them as events
// until ctx is done or Close is called.
func (l *Listener) Run(ctx context.Context) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGQUIT, syscall.SIGTERM)
	l.mu.Lock()
	l.handle = ch
	l.mu.Unlock()

	for {
		select {
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			var ev events.Event
			switch sig {
			case syscall.SIGQUIT:
				ev = events.NewSignalled(events.Quit)
			case syscall.SIGTERM:
				ev = events.NewSignalled(events.Term)
			default:
				panic("unhandled signal")
			}
			if err := l.queue.Send(ctx, ev); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops forwarding signals. It panics if no subscription is
// installed, matching the original implementation's
// .expect("signal handle missing"): calling Close twice, or before
// Run, is a programmer error, not a recoverable one.
func (l *Listener) Close() {
	l.logger.Log(logging.Trace, "Listener.Close()")
	l.mu.Lock()
	ch := l.handle
	l.handle = nil
	l.mu.Unlock()

	if ch == nil {
		panic("signal handle missing")
	}
	signal.Stop(ch)
	close(ch)
}
