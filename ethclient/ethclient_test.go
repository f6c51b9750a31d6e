package ethclient_test

import (
	"context"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/ethclient"
)

var bridgeAddr = common.HexToAddress("0x00000000000000000000000000000000000000c1")

type ethService struct {
	head uint64
	logs []types.Log
}

func (s *ethService) ChainId() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(11155111))
}

func (s *ethService) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(s.head)
}

func (s *ethService) GetLogs(arg map[string]interface{}) []types.Log {
	return s.logs
}

func newTestServer(t *testing.T, svc *ethService) string {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", svc))
	srv := httptest.NewServer(server)
	t.Cleanup(func() {
		srv.Close()
		server.Stop()
	})
	return srv.URL
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	url := newTestServer(t, &ethService{})

	client, err := ethclient.NewClient(url, time.Second, "11155111")
	require.NoError(t, err)
	client.Close()

	_, err = ethclient.NewClient(url, time.Second, "1")
	require.ErrorIs(t, err, ethclient.ErrIncompatibleChainID)
}

func TestClient_Logs(t *testing.T) {
	t.Parallel()

	logs := []types.Log{{
		Address:     bridgeAddr,
		Topics:      []common.Hash{common.HexToHash("0x01")},
		Data:        []byte{0x01, 0x02},
		BlockNumber: 95,
		TxHash:      common.HexToHash("0xaa"),
		Index:       3,
	}}
	client, err := ethclient.NewClient(newTestServer(t, &ethService{head: 100, logs: logs}), time.Second, "11155111")
	require.NoError(t, err)
	t.Cleanup(client.Close)

	ctx := context.Background()
	head, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(100), head)

	q := ethereum.FilterQuery{
		FromBlock: big.NewInt(90),
		ToBlock:   big.NewInt(100),
		Addresses: []common.Address{bridgeAddr},
	}
	res, err := client.FilterLogs(ctx, q)
	require.NoError(t, err)
	require.Equal(t, logs, res)

	res, err = client.FilterLogsSafe(ctx, q)
	require.NoError(t, err)
	require.Equal(t, logs, res)

	q.ToBlock = big.NewInt(101)
	_, err = client.FilterLogsSafe(ctx, q)
	require.ErrorIs(t, err, ethclient.ErrNodeIsNotSynced)

	q.ToBlock = nil
	_, err = client.FilterLogsSafe(ctx, q)
	require.ErrorIs(t, err, ethclient.ErrInvalidLogsQuery)
}
