// Package heartbeat implements the watchdog's liveness probe: a
// timer loop that periodically rings the supervised child's
// heartbeat endpoint and raises a Timeout event if it stops
// answering, matching the original implementation's heartbeat
// module.
package heartbeat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/events"
	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/keyword"
	"github.com/deadlytoah/heartbeat2/internal/logging"
	"github.com/deadlytoah/heartbeat2/internal/wireclient"
)

// Status is the probe's state at a point in time.
type Status int

const (
	Ready Status = iota
	Req
	Timeout
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Req:
		return "Req"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Resolver looks up a service id's connectable endpoint, satisfied
// by *resolver.Sup. It is expressed as an interface here so that
// heartbeat does not need to import the resolver package's own
// dependency on wireclient a second time through a concrete type.
type Resolver interface {
	Sget(id keyword.Keyword) (string, error)
}

// Prober periodically sends a heartbeat to the configured target
// and raises events.Timeout if it stops replying.
type Prober struct {
	config *config.Config
	sup    Resolver
	logger *logging.Logger
	queue  *events.Queue

	mu       sync.Mutex
	status   Status
	stopCh   chan struct{}
}

// New constructs a Prober. cfg must already have its "heartbeat"
// section loaded.
func New(cfg *config.Config, sup Resolver, logger *logging.Logger, queue *events.Queue) *Prober {
	return &Prober{config: cfg, sup: sup, logger: logger, queue: queue, status: Ready}
}

// Run starts the timer loop. It returns an IllegalState fault if the
// Prober is not Ready; call Reset first if it previously timed out.
func (p *Prober) Run(ctx context.Context) error {
	if !p.IsReady() {
		return faults.New(faults.IllegalState, p.Status().String())
	}
	p.logger.Log(logging.Info, "start heartbeat")
	return p.timerLoop(ctx)
}

// Stop signals the timer loop to exit at its next wakeup check. It
// is a no-op if the loop is not currently sleeping between beats.
func (p *Prober) Stop() error {
	p.logger.Log(logging.Trace, "Prober.Stop()")
	p.mu.Lock()
	ch := p.stopCh
	p.stopCh = nil
	p.mu.Unlock()
	if ch != nil {
		close(ch)
	}
	return nil
}

// Reset returns the Prober to Ready so Run can be called again.
func (p *Prober) Reset() {
	p.setStatus(Ready)
}

// IsReady reports whether the Prober is in the Ready state.
func (p *Prober) IsReady() bool {
	return p.Status() == Ready
}

func (p *Prober) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Prober) setStatus(s Status) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

// appEndpoint returns the target's endpoint, preferring a directly
// configured TARGET-ENDPOINT over resolving TARGET-ID through the
// name service, so a heartbeat probe is never forced into a
// dependency on the name service it doesn't need.
func (p *Prober) appEndpoint() (string, error) {
	sec, err := p.config.Section(config.SectionHeartbeat)
	if err != nil {
		return "", err
	}
	if sec.HasKey(config.KeyTargetEndpoint) {
		endpoint, err := sec.TargetEndpoint()
		if err != nil {
			return "", err
		}
		p.logger.Logf(logging.Debug, "endpoint: %s", endpoint)
		return endpoint, nil
	}
	id, err := sec.TargetID()
	if err != nil {
		return "", err
	}
	endpoint, err := p.sup.Sget(id)
	if err != nil {
		return "", err
	}
	p.logger.Logf(logging.Debug, "endpoint of app %s: %s", id, endpoint)
	return endpoint, nil
}

func (p *Prober) beat() (Status, error) {
	endpoint, err := p.appEndpoint()
	if err != nil {
		return Ready, err
	}
	sec, err := p.config.Section(config.SectionHeartbeat)
	if err != nil {
		return Ready, err
	}
	timeoutMs, err := sec.HeartbeatTimeout()
	if err != nil {
		return Ready, err
	}

	sender, err := wireclient.NewBuilder().
		Endpoint(endpoint).
		Timeout(time.Duration(timeoutMs) * time.Millisecond).
		Linger(0).
		Connect()
	if err != nil {
		return Ready, err
	}

	recv, err := sender.SendKeyword(keyword.New("HEARTBEAT"))
	if err != nil {
		return Ready, err
	}
	p.setStatus(Req)

	_, next, err := recv.RecvString()
	switch {
	case err == nil:
		_ = next.Close()
		return Ready, nil
	case err == wireclient.ErrTimeout:
		return Timeout, nil
	default:
		return Ready, err
	}
}

type timerFuncResult int

const (
	continueLoop timerFuncResult = iota
	breakLoop
)

func (p *Prober) timerFunc(ctx context.Context) (timerFuncResult, error) {
	p.logger.Log(logging.Trace, "timerFunc")
	newStatus, err := p.beat()
	if err != nil {
		return continueLoop, err
	}
	p.setStatus(newStatus)
	switch newStatus {
	case Ready:
		return continueLoop, nil
	case Timeout:
		p.logger.Log(logging.Error, "heartbeat timed out")
		if err := p.queue.Send(ctx, events.NewTimeout()); err != nil {
			return continueLoop, err
		}
		return breakLoop, nil
	default:
		return continueLoop, faults.New(faults.IllegalState, newStatus.String())
	}
}

func (p *Prober) timerLoop(ctx context.Context) error {
	sec, err := p.config.Section(config.SectionHeartbeat)
	if err != nil {
		return err
	}
	intervalSec, err := sec.Integer(config.KeyHeartbeatInterval)
	if err != nil {
		return err
	}
	interval := time.Duration(intervalSec) * time.Second

	for {
		stopCh := make(chan struct{})
		p.mu.Lock()
		p.stopCh = stopCh
		p.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-stopCh:
			timer.Stop()
			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}

		p.logger.Log(logging.Trace, "heartbeat wakes up")
		result, err := p.timerFunc(ctx)
		if err != nil {
			return err
		}
		if result == breakLoop {
			return nil
		}
		p.logger.Logf(logging.Trace, "next heartbeat in %ss", fmt.Sprint(int64(interval.Seconds())))
	}
}
