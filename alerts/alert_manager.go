package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/omni/bridge-orchestrator/config"
	"github.com/omni/bridge-orchestrator/entity"
	"github.com/omni/bridge-orchestrator/logging"
)

const StuckPendingActionAlert = "stuck_pending_action"

type AlertManager struct {
	logger logging.Logger
	jobs   map[string]*Job
}

func NewAlertManager(logger logging.Logger, repo entity.PendingActionsRepo, cfg map[string]*config.AlertConfig) (*AlertManager, error) {
	provider := NewPendingActionsProvider(repo, nil)
	jobs := make(map[string]*Job, len(cfg))

	for name, alertCfg := range cfg {
		switch name {
		case StuckPendingActionAlert:
			jobs[name] = &Job{
				Interval: time.Minute,
				Timeout:  time.Second * 10,
				Func:     provider.FindStuckPendingActions,
				Metric:   AlertStuckPendingAction,
			}
		default:
			return nil, fmt.Errorf("unknown alert type %q", name)
		}
		jobs[name].logger = logger.WithField("alert_job", name)
		jobs[name].Params = &AlertJobParams{
			Threshold: alertCfg.Threshold,
		}
	}

	return &AlertManager{
		logger: logger,
		jobs:   jobs,
	}, nil
}

func (m *AlertManager) Start(ctx context.Context) {
	m.logger.WithField("count", len(m.jobs)).Info("starting alert manager jobs")
	for _, job := range m.jobs {
		go job.Start(ctx)
	}
}

// RunOnce evaluates every job a single time.
func (m *AlertManager) RunOnce(ctx context.Context) error {
	for name, job := range m.jobs {
		if err := job.RunOnce(ctx); err != nil {
			return fmt.Errorf("alert job %s: %w", name, err)
		}
	}
	return nil
}
