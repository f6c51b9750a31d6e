package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/logging"
)

const (
	NativeWatcher = "native"
	EVMWatcher    = "evm"
)

// Orchestrator turns event batches of both chains into pending bridge actions.
// Actions are stored first and then handed to the executor through the actions channel.
type Orchestrator struct {
	logger     logging.Logger
	store      Store
	nativeDec  NativeEventDecoder
	evmDec     EVMLogDecoder
	actionChan chan<- bridge.Action
}

func New(logger logging.Logger, store Store, nativeDec NativeEventDecoder, evmDec EVMLogDecoder, actions chan<- bridge.Action) *Orchestrator {
	if nativeDec == nil {
		nativeDec = NativeEventDecoderFunc(bridge.DecodeNativeEvent)
	}
	return &Orchestrator{
		logger:     logger,
		store:      store,
		nativeDec:  nativeDec,
		evmDec:     evmDec,
		actionChan: actions,
	}
}

// Run starts both watchers and blocks until one of them fails or ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, nativeCh <-chan *NativeEventBatch, evmCh <-chan *EVMLogBatch) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.RunNativeWatcher(ctx, nativeCh)
	})
	g.Go(func() error {
		return o.RunEVMWatcher(ctx, evmCh)
	})
	return g.Wait()
}

func (o *Orchestrator) RunNativeWatcher(ctx context.Context, batches <-chan *NativeEventBatch) error {
	logger := o.logger.WithField("watcher", NativeWatcher)
	logger.Info("starting native watcher")
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping native watcher")
			return ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				logger.Error("native event channel closed")
				return &FatalError{Watcher: NativeWatcher, Err: ErrUpstreamClosed}
			}
			if batch == nil {
				logger.Error("received nil native event batch")
				return &FatalError{Watcher: NativeWatcher, Err: ErrNilBatch}
			}
			if err := o.ProcessNativeBatch(ctx, batch); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.WithError(err).WithField("module", batch.Module).Error("failed to process native events")
				return &FatalError{Watcher: NativeWatcher, Err: err}
			}
		}
	}
}

func (o *Orchestrator) RunEVMWatcher(ctx context.Context, batches <-chan *EVMLogBatch) error {
	logger := o.logger.WithField("watcher", EVMWatcher)
	logger.Info("starting evm watcher")
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping evm watcher")
			return ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				logger.Error("evm log channel closed")
				return &FatalError{Watcher: EVMWatcher, Err: ErrUpstreamClosed}
			}
			if batch == nil {
				logger.Error("received nil evm log batch")
				return &FatalError{Watcher: EVMWatcher, Err: ErrNilBatch}
			}
			if err := o.ProcessEVMBatch(ctx, batch); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.WithError(err).WithField("contract", batch.Address).Error("failed to process evm logs")
				return &FatalError{Watcher: EVMWatcher, Err: err}
			}
		}
	}
}

// ProcessNativeBatch handles a single batch of native events.
// An empty batch leaves the module cursor untouched, a malformed recognized event fails the whole batch.
func (o *Orchestrator) ProcessNativeBatch(ctx context.Context, batch *NativeEventBatch) error {
	if batch == nil {
		return ErrNilBatch
	}
	if len(batch.Events) == 0 {
		return nil
	}
	logger := o.logger.WithFields(logrus.Fields{
		"watcher": NativeWatcher,
		"module":  batch.Module,
	})

	decoded := make([]bridge.NativeBridgeEvent, len(batch.Events))
	for i, event := range batch.Events {
		res, err := o.nativeDec.DecodeNativeEvent(event)
		if err != nil {
			return fmt.Errorf("can't decode native event %s: %w", event.ID, err)
		}
		decoded[i] = res
	}

	actions := make([]bridge.Action, 0, len(decoded))
	for i, res := range decoded {
		event := batch.Events[i]
		if res == nil {
			logger.WithFields(logrus.Fields{
				"event_id":   event.ID.String(),
				"event_type": event.Type,
			}).Warn("skipping unrecognized native event")
			SkippedEvents.WithLabelValues(NativeWatcher, batch.Module).Inc()
			continue
		}
		if action := res.Action(event.ID.TxDigest, event.ID.EventSeq); action != nil {
			actions = append(actions, action)
		}
	}

	if err := o.storeAndSubmit(ctx, logger, NativeWatcher, actions); err != nil {
		return err
	}

	cursor := batch.Events[len(batch.Events)-1].ID
	if err := o.store.UpdateNativeEventCursor(ctx, batch.Module, cursor); err != nil {
		return fmt.Errorf("can't update native event cursor: %w", err)
	}
	LatestNativeCursorSeq.WithLabelValues(batch.Module).Set(float64(cursor.EventSeq))
	ProcessedBatches.WithLabelValues(NativeWatcher, batch.Module).Inc()
	logger.WithFields(logrus.Fields{
		"events":  len(batch.Events),
		"actions": len(actions),
		"cursor":  cursor.String(),
	}).Debug("processed native events")
	return nil
}

// ProcessEVMBatch handles a single batch of contract logs.
// The contract cursor is advanced to the batch end block even if no actions were produced.
func (o *Orchestrator) ProcessEVMBatch(ctx context.Context, batch *EVMLogBatch) error {
	if batch == nil {
		return ErrNilBatch
	}
	logger := o.logger.WithFields(logrus.Fields{
		"watcher":   EVMWatcher,
		"contract":  batch.Address,
		"end_block": batch.EndBlock,
	})
	source := batch.Address.String()

	actions := make([]bridge.Action, 0, len(batch.Logs))
	for _, log := range batch.Logs {
		logLogger := logger.WithFields(logrus.Fields{
			"tx_hash":   log.TxHash,
			"log_index": log.LogIndexInTx,
		})
		event, err := o.evmDec.DecodeLog(&log.Log)
		if err != nil {
			logLogger.WithError(err).Warn("skipping undecodable evm log")
			SkippedEvents.WithLabelValues(EVMWatcher, source).Inc()
			continue
		}
		if event == nil {
			logLogger.Warn("skipping unrecognized evm log")
			SkippedEvents.WithLabelValues(EVMWatcher, source).Inc()
			continue
		}
		if action := event.Action(log.TxHash, log.LogIndexInTx); action != nil {
			actions = append(actions, action)
		}
	}

	if err := o.storeAndSubmit(ctx, logger, EVMWatcher, actions); err != nil {
		return err
	}

	if err := o.store.UpdateEVMEventCursor(ctx, batch.Address, batch.EndBlock); err != nil {
		return fmt.Errorf("can't update evm event cursor: %w", err)
	}
	LatestEVMCursorBlock.WithLabelValues(source).Set(float64(batch.EndBlock))
	ProcessedBatches.WithLabelValues(EVMWatcher, source).Inc()
	if len(batch.Logs) > 0 {
		logger.WithFields(logrus.Fields{
			"logs":    len(batch.Logs),
			"actions": len(actions),
		}).Debug("processed evm logs")
	}
	return nil
}

// SubmitPendingActions resubmits actions stored by a previous run that the executor hasn't removed yet.
// It must be called before the watchers start.
func (o *Orchestrator) SubmitPendingActions(ctx context.Context) (int, error) {
	pending, err := o.store.GetAllPendingActions(ctx)
	if err != nil {
		return 0, fmt.Errorf("can't load pending actions: %w", err)
	}
	actions := make([]bridge.Action, 0, len(pending))
	for _, action := range pending {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool {
		a, b := actions[i].Key(), actions[j].Key()
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.SeqNum < b.SeqNum
	})
	for _, action := range actions {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case o.actionChan <- action:
		}
	}
	o.logger.WithField("count", len(actions)).Info("resubmitted pending actions")
	return len(actions), nil
}

func (o *Orchestrator) storeAndSubmit(ctx context.Context, logger logging.Logger, watcher string, actions []bridge.Action) error {
	if len(actions) == 0 {
		return nil
	}
	if err := o.store.InsertPendingActions(ctx, actions); err != nil {
		return fmt.Errorf("can't insert pending actions: %w", err)
	}
	for _, action := range actions {
		select {
		case <-ctx.Done():
			return fmt.Errorf("can't submit action %s: %w", action.Digest(), ctx.Err())
		case o.actionChan <- action:
		}
		SubmittedActions.WithLabelValues(watcher, strconv.Itoa(int(action.ActionType()))).Inc()
		logger.WithFields(logrus.Fields{
			"digest": action.Digest(),
			"kind":   action.Kind(),
			"seq":    action.SeqNumber(),
		}).Info("submitted bridge action")
	}
	return nil
}
