// Package conductor runs the watchdog's main loop: one round of
// heartbeat probing, child supervision, signal listening and event
// reduction at a time, deciding after each round whether to restart
// the child or stop, matching the original implementation's
// main_impl.
package conductor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/deadlytoah/heartbeat2/internal/config"
	"github.com/deadlytoah/heartbeat2/internal/events"
	"github.com/deadlytoah/heartbeat2/internal/heartbeat"
	"github.com/deadlytoah/heartbeat2/internal/logging"
	"github.com/deadlytoah/heartbeat2/internal/resolver"
	"github.com/deadlytoah/heartbeat2/internal/restart"
	"github.com/deadlytoah/heartbeat2/internal/signals"
	"github.com/deadlytoah/heartbeat2/internal/supervisor"
)

// EventQueueSize is the capacity of the shared event queue. A single
// slot is enough because at most one event is ever in flight between
// a producer noticing a state change and the reducer consuming it.
const EventQueueSize = 1

// Conductor wires together a single run of the watchdog: a
// heartbeat prober, a child supervisor, a signal listener, an event
// reducer, and a restart policy deciding what happens when the
// child exits badly.
type Conductor struct {
	config     *config.Config
	logger     *logging.Logger
	heartbeat  *heartbeat.Prober
	supervisor *supervisor.Supervisor
	signals    *signals.Listener
	reducer    *reducer
	restart    *restart.Policy
}

// New builds a Conductor from cfg, which must already have its
// "heartbeat" section loaded, and its "sup" section loaded if the
// heartbeat section resolves its target by TARGET-ID rather than a
// direct TARGET-ENDPOINT.
func New(cfg *config.Config, logger *logging.Logger) (*Conductor, error) {
	queue := events.NewQueue(EventQueueSize)

	var sup heartbeat.Resolver
	if supSection, err := cfg.Section(config.SectionSup); err == nil {
		s, err := resolver.NewSup(supSection)
		if err != nil {
			return nil, err
		}
		sup = s
	}

	hb := heartbeat.New(cfg, sup, logger, queue)
	svr := supervisor.New(cfg, logger, queue)
	sig := signals.New(logger, queue)

	return &Conductor{
		config:     cfg,
		logger:     logger,
		heartbeat:  hb,
		supervisor: svr,
		signals:    sig,
		reducer:    newReducer(svr, hb, sig, logger, queue),
		restart:    restart.New(cfg, logger),
	}, nil
}

// Run drives rounds of heartbeat probing, child supervision, signal
// listening and event reduction until the child completes on its
// own or the watchdog gives up restarting it.
func (c *Conductor) Run(ctx context.Context) error {
	for {
		var outcome supervisor.Outcome

		g := errgroup.Group{}
		g.Go(func() error { return c.heartbeat.Run(ctx) })
		g.Go(func() error {
			o, err := c.supervisor.RunProcess(ctx)
			outcome = o
			return err
		})
		g.Go(func() error { return c.signals.Run(ctx) })
		g.Go(func() error { return c.reducer.run(ctx) })

		if err := g.Wait(); err != nil {
			return err
		}

		switch outcome {
		case supervisor.Abort:
			if err := c.restart.AddProcessAbort(); err != nil {
				return err
			}
			should, err := c.restart.ShouldRestart()
			if err != nil {
				return err
			}
			if !should {
				c.logger.Log(logging.Info, "giving up due to too many retries")
				c.supervisor.SetTerminated()
				return nil
			}
			c.logger.Log(logging.Info, "attempt to restart process")
			if err := c.supervisor.Reset(); err != nil {
				return err
			}
			c.heartbeat.Reset()
			c.reducer.reset()
		case supervisor.Complete:
			return nil
		}
	}
}
