package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/config"
	"github.com/omni/bridge-orchestrator/contract"
	"github.com/omni/bridge-orchestrator/db"
	"github.com/omni/bridge-orchestrator/ethclient"
	"github.com/omni/bridge-orchestrator/evmsyncer"
	"github.com/omni/bridge-orchestrator/logging"
	"github.com/omni/bridge-orchestrator/orchestrator"
	"github.com/omni/bridge-orchestrator/repository"
)

var (
	address   = flag.String("address", "", "bridge contract address to replay logs of")
	fromBlock = flag.Uint64("fromBlock", 0, "starting block")
	toBlock   = flag.Uint64("toBlock", 0, "ending block")
)

// replayStore keeps event cursors untouched, so replaying an old range never moves them back.
type replayStore struct {
	orchestrator.Store
}

func (replayStore) UpdateEVMEventCursor(context.Context, common.Address, uint64) error {
	return nil
}

func main() {
	flag.Parse()

	logger := logging.New()

	cfg, err := config.ReadConfigFromFile("config.yml")
	if err != nil {
		logger.WithError(err).Fatal("can't read config")
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.EVM == nil {
		logger.Fatal("evm section is not configured")
	}
	if !common.IsHexAddress(*address) {
		logger.WithField("address", *address).Fatal("invalid contract address")
	}
	contractAddr := common.HexToAddress(*address)
	if *toBlock == 0 {
		logger.Fatal("toBlock is not specified")
	}
	if *toBlock < *fromBlock {
		logger.WithFields(logrus.Fields{
			"from_block": *fromBlock,
			"to_block":   *toBlock,
		}).Fatal("toBlock < fromBlock")
	}

	dbConn, err := db.ConnectToDBAndMigrate(cfg.DBConfig)
	if err != nil {
		logger.WithError(err).Fatal("can't connect to database and apply migrations")
	}
	defer dbConn.Close()

	client, err := ethclient.NewClient(cfg.EVM.Chain.RPC.Host, cfg.EVM.Chain.RPC.Timeout, cfg.EVM.Chain.ChainID)
	if err != nil {
		logger.WithError(err).Fatal("can't dial evm rpc client")
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo := repository.NewRepo(dbConn)
	syncer := evmsyncer.New(logger.WithField("service", "evm_syncer"), cfg.EVM, client, repo)

	// replayed actions are only stored here, a running orchestrator resubmits them from the pending log after its next restart
	actions := make(chan bridge.Action, cfg.Orchestrator.ActionChannelCapacity)
	go func() {
		for range actions {
		}
	}()
	orch := orchestrator.New(logger.WithField("service", "orchestrator"), replayStore{repo}, nil, contract.NewBridgeLogDecoder(), actions)

	for _, blocksRange := range evmsyncer.SplitBlockRange(*fromBlock, *toBlock, uint64(cfg.EVM.MaxBlockRangeSize)) {
		batch, err := syncer.FetchRange(ctx, contractAddr, blocksRange)
		if err != nil {
			logger.WithError(err).Fatal("can't fetch logs in block range")
		}
		if err = orch.ProcessEVMBatch(ctx, batch); err != nil {
			logger.WithError(err).Fatal("can't process logs in block range")
		}
	}
	close(actions)
	logger.WithFields(logrus.Fields{
		"from_block": *fromBlock,
		"to_block":   *toBlock,
	}).Info("replayed block range, new actions are submitted on the next orchestrator start")
}
