package session

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// DefaultPruneSchedule runs the idle-session sweep every ten minutes
const DefaultPruneSchedule = "@every 10m"

// Pruner periodically drops sessions that have been idle longer than maxIdle
type Pruner struct {
	store   *Store
	cron    *cron.Cron
	maxIdle time.Duration
	logger  arbor.ILogger
}

// NewPruner creates a pruner for the given store
func NewPruner(store *Store, maxIdle time.Duration, logger arbor.ILogger) *Pruner {
	return &Pruner{
		store:   store,
		cron:    cron.New(),
		maxIdle: maxIdle,
		logger:  logger,
	}
}

// Start schedules the sweep. An empty schedule uses DefaultPruneSchedule.
func (p *Pruner) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultPruneSchedule
	}

	if _, err := p.cron.AddFunc(schedule, p.RunNow); err != nil {
		return err
	}

	p.cron.Start()
	p.logger.Info().
		Str("schedule", schedule).
		Dur("max_idle", p.maxIdle).
		Msg("Session pruner started")

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (p *Pruner) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info().Msg("Session pruner stopped")
}

// RunNow sweeps idle sessions immediately
func (p *Pruner) RunNow() {
	p.store.Prune(p.maxIdle)
}
