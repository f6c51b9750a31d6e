package nativesyncer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/config"
	"github.com/omni/bridge-orchestrator/logging"
	"github.com/omni/bridge-orchestrator/orchestrator"
	"github.com/omni/bridge-orchestrator/utils"
)

const defaultRetryInterval = 10 * time.Second

type CursorStore interface {
	GetNativeEventCursors(ctx context.Context, modules []string) ([]*bridge.EventID, error)
}

// Syncer polls events of the configured bridge modules and delivers them page by page.
type Syncer struct {
	logger        logging.Logger
	cfg           *config.NativeConfig
	client        Client
	store         CursorStore
	retryInterval time.Duration
}

func New(logger logging.Logger, cfg *config.NativeConfig, client Client, store CursorStore) *Syncer {
	return &Syncer{
		logger:        logger,
		cfg:           cfg,
		client:        client,
		store:         store,
		retryInterval: defaultRetryInterval,
	}
}

// Run emits a batch for every non-empty page of module events. It only returns on context cancellation.
func (s *Syncer) Run(ctx context.Context, out chan<- *orchestrator.NativeEventBatch) error {
	var cursors []*bridge.EventID
	err := utils.Retry(ctx, s.logger, s.retryInterval, "can't load native event cursors, retrying", func(ctx context.Context) error {
		var err error
		cursors, err = s.store.GetNativeEventCursors(ctx, s.cfg.Modules)
		return err
	})
	if err != nil {
		return err
	}
	for i, module := range s.cfg.Modules {
		if cursors[i] == nil {
			s.logger.WithField("module", module).Warn("module cursor is not present, starting indexing from scratch")
		}
	}

	s.logger.Info("starting native event syncer")
	for {
		for i, module := range s.cfg.Modules {
			next, err := s.syncModule(ctx, module, cursors[i], out)
			cursors[i] = next
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				s.logger.WithError(err).WithField("module", module).Error("failed to query module events")
			}
		}

		if !utils.Sleep(ctx, s.cfg.Chain.BlockIndexInterval) {
			return ctx.Err()
		}
	}
}

func (s *Syncer) syncModule(ctx context.Context, module string, cursor *bridge.EventID, out chan<- *orchestrator.NativeEventBatch) (*bridge.EventID, error) {
	for {
		page, err := s.client.QueryEvents(ctx, s.cfg.PackageID, module, cursor, s.cfg.QueryLimit)
		if err != nil {
			return cursor, err
		}
		if len(page.Events) == 0 {
			return cursor, nil
		}

		last := page.Events[len(page.Events)-1].ID
		s.logger.WithFields(logrus.Fields{
			"module": module,
			"count":  len(page.Events),
			"cursor": last.String(),
		}).Info("fetched module events")
		batch := &orchestrator.NativeEventBatch{Module: module, Events: page.Events}
		select {
		case <-ctx.Done():
			return cursor, fmt.Errorf("can't deliver module events: %w", ctx.Err())
		case out <- batch:
		}
		FetchedEvents.WithLabelValues(module).Add(float64(len(page.Events)))
		cursor = &last

		if !page.HasNextPage {
			return cursor, nil
		}
	}
}
