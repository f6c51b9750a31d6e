package evmsyncer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/omni/bridge-orchestrator/config"
	"github.com/omni/bridge-orchestrator/ethclient"
	"github.com/omni/bridge-orchestrator/logging"
	"github.com/omni/bridge-orchestrator/orchestrator"
	"github.com/omni/bridge-orchestrator/utils"
)

const defaultRetryInterval = 10 * time.Second

var ErrLogNotInReceipt = errors.New("log is missing in transaction receipt")

type CursorStore interface {
	GetEVMEventCursors(ctx context.Context, addresses []common.Address) ([]*uint64, error)
}

// Syncer delivers logs of the bridge contracts to the orchestrator in block order.
type Syncer struct {
	logger        logging.Logger
	cfg           *config.EVMConfig
	client        ethclient.Client
	store         CursorStore
	retryInterval time.Duration
}

func New(logger logging.Logger, cfg *config.EVMConfig, client ethclient.Client, store CursorStore) *Syncer {
	return &Syncer{
		logger:        logger,
		cfg:           cfg,
		client:        client,
		store:         store,
		retryInterval: defaultRetryInterval,
	}
}

// StartBlocks returns the first block to fetch for every configured contract.
func (s *Syncer) StartBlocks(ctx context.Context) ([]uint64, error) {
	addresses := make([]common.Address, len(s.cfg.Contracts))
	for i, c := range s.cfg.Contracts {
		addresses[i] = c.Address
	}
	cursors, err := s.store.GetEVMEventCursors(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("can't read evm event cursors: %w", err)
	}
	starts := make([]uint64, len(s.cfg.Contracts))
	for i, c := range s.cfg.Contracts {
		if cursors[i] != nil {
			starts[i] = *cursors[i] + 1
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"contract":    c.Address,
			"start_block": c.StartBlock,
		}).Warn("contract cursor is not present, staring indexing from scratch")
		starts[i] = uint64(c.StartBlock)
	}
	return starts, nil
}

// Run polls the chain head and emits a batch for every block range of every contract,
// including ranges without logs. It only returns on context cancellation.
func (s *Syncer) Run(ctx context.Context, out chan<- *orchestrator.EVMLogBatch) error {
	var starts []uint64
	err := utils.Retry(ctx, s.logger, s.retryInterval, "can't load evm start blocks, retrying", func(ctx context.Context) error {
		var err error
		starts, err = s.StartBlocks(ctx)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("starting evm log syncer")
	for {
		head, err := s.client.BlockNumber(ctx)
		if err != nil {
			s.logger.WithError(err).Error("can't fetch latest block number")
		} else if head >= uint64(s.cfg.BlockConfirmations) {
			head -= uint64(s.cfg.BlockConfirmations)
			LatestHeadBlock.WithLabelValues(s.cfg.Chain.ChainID).Set(float64(head))

			for i, c := range s.cfg.Contracts {
				next, err := s.syncContract(ctx, c.Address, starts[i], head, out)
				starts[i] = next
				if err != nil {
					return err
				}
			}
		}

		if !utils.Sleep(ctx, s.cfg.Chain.BlockIndexInterval) {
			return ctx.Err()
		}
	}
}

func (s *Syncer) syncContract(ctx context.Context, address common.Address, start, head uint64, out chan<- *orchestrator.EVMLogBatch) (uint64, error) {
	if start > head {
		return start, nil
	}
	for _, blocksRange := range SplitBlockRange(start, head, uint64(s.cfg.MaxBlockRangeSize)) {
		logger := s.logger.WithFields(logrus.Fields{
			"contract":   address,
			"from_block": blocksRange.From,
			"to_block":   blocksRange.To,
		})
		logger.Debug("scheduling new block range logs search")

		var batch *orchestrator.EVMLogBatch
		err := utils.Retry(ctx, logger, s.retryInterval, "failed logs fetching, retrying", func(ctx context.Context) error {
			var err error
			batch, err = s.FetchRange(ctx, address, blocksRange)
			return err
		})
		if err != nil {
			return blocksRange.From, err
		}

		select {
		case <-ctx.Done():
			return blocksRange.From, ctx.Err()
		case out <- batch:
		}
		LatestFetchedBlock.WithLabelValues(s.cfg.Chain.ChainID, address.String()).Set(float64(blocksRange.To))
	}
	return head + 1, nil
}

// FetchRange fetches all logs of address in the given range, ordered by block and log index,
// and resolves the index of every log within its transaction.
func (s *Syncer) FetchRange(ctx context.Context, address common.Address, blocksRange *BlocksRange) (*orchestrator.EVMLogBatch, error) {
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(blocksRange.From),
		ToBlock:   new(big.Int).SetUint64(blocksRange.To),
		Addresses: []common.Address{address},
	}
	var logs []types.Log
	var err error
	if s.cfg.Chain.SafeLogsRequest {
		logs, err = s.client.FilterLogsSafe(ctx, q)
	} else {
		logs, err = s.client.FilterLogs(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		return a.BlockNumber < b.BlockNumber || (a.BlockNumber == b.BlockNumber && a.Index < b.Index)
	})

	receipts := make(map[common.Hash]*types.Receipt)
	batch := &orchestrator.EVMLogBatch{
		Address:  address,
		EndBlock: blocksRange.To,
		Logs:     make([]*orchestrator.EVMLog, 0, len(logs)),
	}
	for _, log := range logs {
		receipt, ok := receipts[log.TxHash]
		if !ok {
			receipt, err = s.client.TransactionReceiptByHash(ctx, log.TxHash)
			if err != nil {
				return nil, fmt.Errorf("can't get receipt for tx %s: %w", log.TxHash, err)
			}
			receipts[log.TxHash] = receipt
		}
		indexInTx, err := logIndexInTx(receipt, log.Index)
		if err != nil {
			return nil, fmt.Errorf("tx %s: %w", log.TxHash, err)
		}
		batch.Logs = append(batch.Logs, &orchestrator.EVMLog{Log: log, LogIndexInTx: indexInTx})
	}

	s.logger.WithFields(logrus.Fields{
		"contract":   address,
		"count":      len(logs),
		"from_block": blocksRange.From,
		"to_block":   blocksRange.To,
	}).Info("fetched logs in range")
	FetchedLogs.WithLabelValues(s.cfg.Chain.ChainID, address.String()).Add(float64(len(logs)))
	return batch, nil
}

func logIndexInTx(receipt *types.Receipt, blockLogIndex uint) (uint16, error) {
	for i, log := range receipt.Logs {
		if log.Index == blockLogIndex {
			return uint16(i), nil
		}
	}
	return 0, fmt.Errorf("%w: block log index %d", ErrLogNotInReceipt, blockLogIndex)
}
