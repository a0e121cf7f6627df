package token

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/osplatform/permissions-client/pkg/observability"
)

// DefaultRefreshSchedule refreshes every 10 minutes.
const DefaultRefreshSchedule = "@every 10m"

// Refresher refreshes all configured service tokens on a cron schedule,
// keeping storage warm so request paths rarely pay the refresh cost.
type Refresher struct {
	cron    *cron.Cron
	manager *Manager
	logger  *observability.Logger
}

// NewRefresher schedules manager.RefreshAll on the given cron spec
// (e.g. "@every 10m"). An empty schedule means DefaultRefreshSchedule.
func NewRefresher(manager *Manager, schedule string, logger *observability.Logger) (*Refresher, error) {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	r := &Refresher{
		cron:    cron.New(),
		manager: manager,
		logger:  logger,
	}

	_, err := r.cron.AddFunc(schedule, func() {
		if err := r.manager.RefreshAll(context.Background()); err != nil {
			r.logger.WithError(err).Warn("scheduled token refresh failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins the schedule in its own goroutine.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule, waiting for a running refresh to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
