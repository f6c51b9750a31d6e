package ethclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	ErrIncompatibleChainID = errors.New("rpc url returned incompatible chainID")
	ErrNodeIsNotSynced     = errors.New("node is not synced to the requested block")
	ErrInvalidLogsQuery    = errors.New("invalid logs filter query")
)

// Client is the subset of the EVM JSON-RPC API used by the log syncer.
type Client interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	FilterLogsSafe(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	TransactionReceiptByHash(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	Close()
}

type rpcClient struct {
	chainID   string
	url       string
	timeout   time.Duration
	rawClient *rpc.Client
	client    *ethclient.Client
}

// Dial connects to a JSON-RPC endpoint, bounded by timeout.
func Dial(url string, timeout time.Duration) (*rpc.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rawClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("can't dial JSON rpc url: %w", err)
	}
	return rawClient, nil
}

// NewClient dials url and checks that the node serves the expected EVM chain.
func NewClient(url string, timeout time.Duration, chainID string) (Client, error) {
	rawClient, err := Dial(url, timeout)
	if err != nil {
		return nil, err
	}
	client := &rpcClient{
		chainID:   chainID,
		url:       url,
		timeout:   timeout,
		rawClient: rawClient,
		client:    ethclient.NewClient(rawClient),
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	rpcChainID, err := client.client.ChainID(ctx)
	if err != nil {
		rawClient.Close()
		return nil, fmt.Errorf("can't get chainID: %w", err)
	}
	if rpcChainID.String() != chainID {
		rawClient.Close()
		return nil, fmt.Errorf("received chainID %s != expected %s: %w", rpcChainID, chainID, ErrIncompatibleChainID)
	}
	return client, nil
}

func (c *rpcClient) instrument(ctx context.Context, query string) (context.Context, func(err error)) {
	return Instrument(ctx, c.timeout, c.chainID, c.url, query)
}

func (c *rpcClient) BlockNumber(ctx context.Context) (n uint64, err error) {
	ctx, done := c.instrument(ctx, "eth_blockNumber")
	defer func() { done(err) }()

	return c.client.BlockNumber(ctx)
}

func (c *rpcClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) (logs []types.Log, err error) {
	ctx, done := c.instrument(ctx, "eth_getLogs")
	defer func() { done(err) }()

	return c.client.FilterLogs(ctx, q)
}

// FilterLogsSafe is the same as FilterLogs, but makes an additional eth_blockNumber
// request in the same batch to ensure that the node behind RPC is synced to the needed point.
func (c *rpcClient) FilterLogsSafe(ctx context.Context, q ethereum.FilterQuery) (logs []types.Log, err error) {
	ctx, done := c.instrument(ctx, "eth_getLogsSafe")
	defer func() { done(err) }()

	arg, err := toFilterArg(q)
	if err != nil {
		return nil, fmt.Errorf("can't encode filter argument: %w", err)
	}
	var blockNumber hexutil.Uint64
	batch := []rpc.BatchElem{
		{Method: "eth_getLogs", Args: []interface{}{arg}, Result: &logs},
		{Method: "eth_blockNumber", Result: &blockNumber},
	}
	if err = c.rawClient.BatchCallContext(ctx, batch); err != nil {
		return nil, fmt.Errorf("can't make batch request: %w", err)
	}
	if err = batch[0].Error; err != nil {
		return nil, fmt.Errorf("can't request logs: %w", err)
	}
	if err = batch[1].Error; err != nil {
		return nil, fmt.Errorf("can't request block number: %w", err)
	}
	if uint64(blockNumber) < q.ToBlock.Uint64() {
		err = fmt.Errorf("current block %d is older than toBlock %s in the query: %w", blockNumber, q.ToBlock, ErrNodeIsNotSynced)
		return nil, err
	}
	return logs, nil
}

func (c *rpcClient) TransactionReceiptByHash(ctx context.Context, txHash common.Hash) (receipt *types.Receipt, err error) {
	ctx, done := c.instrument(ctx, "eth_getTransactionReceipt")
	defer func() { done(err) }()

	return c.client.TransactionReceipt(ctx, txHash)
}

func (c *rpcClient) Close() {
	c.rawClient.Close()
}

func toFilterArg(q ethereum.FilterQuery) (interface{}, error) {
	if q.BlockHash != nil {
		return nil, ErrInvalidLogsQuery
	}
	if q.ToBlock == nil || q.ToBlock.Sign() <= 0 {
		return nil, fmt.Errorf("only positive toBlock is supported: %w", ErrInvalidLogsQuery)
	}
	arg := map[string]interface{}{
		"address": q.Addresses,
		"topics":  q.Topics,
		"toBlock": hexutil.EncodeBig(q.ToBlock),
	}
	if q.FromBlock == nil {
		arg["fromBlock"] = "0x0"
	} else {
		arg["fromBlock"] = hexutil.EncodeBig(q.FromBlock)
	}
	return arg, nil
}
