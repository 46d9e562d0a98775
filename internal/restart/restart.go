// Package restart tracks process-abort history and decides whether
// the watchdog should restart its child or give up, matching the
// original implementation's restart module.
package restart

import (
	"time"

	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/logging"
)

// Policy tracks restart history against the "heartbeat" section's
// RETRY-INTERVAL and MAX-RETRIES keys.
//
// History timestamps are UTC unix seconds, matching the original's
// chrono::Utc::now().timestamp() — deliberately not the local
// wall-clock time the logging package formats its lines with.
type Policy struct {
	history []int64
	config  *config.Config
	logger  *logging.Logger
}

// New constructs a Policy with empty history.
func New(cfg *config.Config, logger *logging.Logger) *Policy {
	return &Policy{config: cfg, logger: logger}
}

// ShouldRestart decides whether the watchdog should restart the
// process, based on the restart history recorded so far.
func (p *Policy) ShouldRestart() (bool, error) {
	tooMany, err := p.tooManyRetries()
	if err != nil {
		return false, err
	}
	return !tooMany, nil
}

// AddProcessAbort records a restart attempt in the history, pruning
// the oldest entries first so the history never grows past
// MAX-RETRIES entries.
func (p *Policy) AddProcessAbort() error {
	if err := p.prune(); err != nil {
		return err
	}
	p.history = append(p.history, time.Now().UTC().Unix())
	p.logger.Logf(logging.Debug, "RestartPolicy: current history: %v", p.history)
	return nil
}

func (p *Policy) tooManyRetries() (bool, error) {
	sec, err := p.config.Section(config.SectionHeartbeat)
	if err != nil {
		return false, err
	}
	retryInterval, err := sec.Integer(config.KeyRetryInterval)
	if err != nil {
		return false, err
	}
	maxRetries, err := sec.Integer(config.KeyMaxRetries)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC().Unix()
	var retries int64
	for _, item := range p.history {
		if item >= now-retryInterval {
			retries++
		}
	}
	return retries >= maxRetries, nil
}

func (p *Policy) prune() error {
	sec, err := p.config.Section(config.SectionHeartbeat)
	if err != nil {
		return err
	}
	maxRetries, err := sec.Integer(config.KeyMaxRetries)
	if err != nil {
		return err
	}
	for int64(len(p.history)) >= maxRetries {
		p.history = p.history[1:]
	}
	return nil
}
