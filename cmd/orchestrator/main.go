package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/omni/bridge-orchestrator/alerts"
	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/config"
	"github.com/omni/bridge-orchestrator/contract"
	"github.com/omni/bridge-orchestrator/db"
	"github.com/omni/bridge-orchestrator/ethclient"
	"github.com/omni/bridge-orchestrator/evmsyncer"
	"github.com/omni/bridge-orchestrator/logging"
	"github.com/omni/bridge-orchestrator/nativesyncer"
	"github.com/omni/bridge-orchestrator/orchestrator"
	"github.com/omni/bridge-orchestrator/presenter"
	"github.com/omni/bridge-orchestrator/repository"
)

func main() {
	logger := logging.New()

	cfg, err := config.ReadConfigFromFile("config.yml")
	if err != nil {
		logger.WithError(err).Fatal("can't read config")
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.Native == nil || cfg.EVM == nil {
		logger.Fatal("both native and evm sections should be configured")
	}

	dbConn, err := db.ConnectToDBAndMigrate(cfg.DBConfig)
	if err != nil {
		logger.WithError(err).Fatal("can't connect to database and apply migrations")
	}
	defer dbConn.Close()

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(":2112", nil)
		if err != nil {
			logger.WithError(err).Fatal("can't start listener for prometheus metrics")
		}
	}()

	repo := repository.NewRepo(dbConn)
	if cfg.Presenter != nil {
		pr := presenter.NewPresenter(logger.WithField("service", "presenter"), repo, cfg)
		go func() {
			err := pr.Serve(cfg.Presenter.Host)
			if err != nil {
				logger.WithError(err).Fatal("can't serve presenter")
			}
		}()
	}

	nativeClient, err := nativesyncer.NewClient(cfg.Native.Chain.RPC.Host, cfg.Native.Chain.RPC.Timeout, cfg.Native.Chain.ChainID)
	if err != nil {
		logger.WithError(err).Fatal("can't dial native rpc client")
	}
	defer nativeClient.Close()
	evmClient, err := ethclient.NewClient(cfg.EVM.Chain.RPC.Host, cfg.EVM.Chain.RPC.Timeout, cfg.EVM.Chain.ChainID)
	if err != nil {
		logger.WithError(err).Fatal("can't dial evm rpc client")
	}
	defer evmClient.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, ctx := errgroup.WithContext(sigCtx)

	if len(cfg.Alerts) > 0 {
		alertManager, err := alerts.NewAlertManager(logger.WithField("service", "alert_manager"), repo.PendingActions, cfg.Alerts)
		if err != nil {
			logger.WithError(err).Fatal("can't initialize alert manager")
		}
		alertManager.Start(ctx)
	}

	nativeCh := make(chan *orchestrator.NativeEventBatch, cfg.Native.EventChannelCapacity)
	evmCh := make(chan *orchestrator.EVMLogBatch, cfg.EVM.LogChannelCapacity)
	actions := make(chan bridge.Action, cfg.Orchestrator.ActionChannelCapacity)

	nativeSyncer := nativesyncer.New(logger.WithField("service", "native_syncer"), cfg.Native, nativeClient, repo)
	evmSyncer := evmsyncer.New(logger.WithField("service", "evm_syncer"), cfg.EVM, evmClient, repo)
	orch := orchestrator.New(
		logger.WithField("service", "orchestrator"),
		repo,
		orchestrator.NativeEventDecoderFunc(bridge.DecodeNativeEvent),
		contract.NewBridgeLogDecoder(),
		actions,
	)

	g.Go(func() error {
		defer close(nativeCh)
		return nativeSyncer.Run(ctx, nativeCh)
	})
	g.Go(func() error {
		defer close(evmCh)
		return evmSyncer.Run(ctx, evmCh)
	})
	g.Go(func() error {
		if _, err := orch.SubmitPendingActions(ctx); err != nil {
			return err
		}
		return orch.Run(ctx, nativeCh, evmCh)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case action := <-actions:
				logger.WithFields(logrus.Fields{
					"digest": action.Digest(),
					"kind":   action.Kind(),
					"chain":  action.ChainID(),
					"seq":    action.SeqNumber(),
				}).Info("bridge action is pending execution")
			}
		}
	})

	err = g.Wait()
	if sigCtx.Err() == nil {
		logger.WithError(err).Fatal("orchestrator stopped unexpectedly")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("orchestrator stopped with error during shutdown")
	}
	logger.Warn("caught CTRL-C, gracefully terminated")
}
