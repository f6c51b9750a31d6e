package repository_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/config"
	"github.com/omni/bridge-orchestrator/db"
	"github.com/omni/bridge-orchestrator/repository"
)

func newTestRepo(t *testing.T) *repository.Repo {
	t.Helper()

	conn, err := db.ConnectToDBAndMigrate(&config.DBConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, conn.Close())
	})
	return repository.NewRepo(conn)
}

func TestRepo_PendingActions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)

	pause := &bridge.Emergency{Nonce: 1, Chain: bridge.EthSepolia, Op: bridge.EmergencyOpPause}
	limit := &bridge.LimitUpdate{Nonce: 2, Chain: bridge.EthSepolia, SendingChainID: bridge.IotaTestnet, NewUSDLimit: 100}

	require.NoError(t, repo.InsertPendingActions(ctx, []bridge.Action{pause, limit}))
	// re-insertion is a no-op
	require.NoError(t, repo.InsertPendingActions(ctx, []bridge.Action{pause}))
	require.NoError(t, repo.InsertPendingActions(ctx, nil))

	all, err := repo.GetAllPendingActions(ctx)
	require.NoError(t, err)
	require.Equal(t, map[common.Hash]bridge.Action{
		pause.Digest(): pause,
		limit.Digest(): limit,
	}, all)

	action, err := repo.GetPendingAction(ctx, limit.Digest())
	require.NoError(t, err)
	require.Equal(t, limit, action)

	require.NoError(t, repo.RemovePendingAction(ctx, limit.Digest()))
	_, err = repo.GetPendingAction(ctx, limit.Digest())
	require.ErrorIs(t, err, db.ErrNotFound)

	all, err = repo.GetAllPendingActions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestRepo_NativeEventCursors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)

	cursors, err := repo.GetNativeEventCursors(ctx, []string{"bridge", "treasury"})
	require.NoError(t, err)
	require.Equal(t, []*bridge.EventID{nil, nil}, cursors)

	first := bridge.EventID{TxDigest: common.HexToHash("0x01"), EventSeq: 1}
	second := bridge.EventID{TxDigest: common.HexToHash("0x02"), EventSeq: 0}
	require.NoError(t, repo.UpdateNativeEventCursor(ctx, "bridge", first))
	require.NoError(t, repo.UpdateNativeEventCursor(ctx, "bridge", second))

	cursors, err = repo.GetNativeEventCursors(ctx, []string{"bridge", "treasury"})
	require.NoError(t, err)
	require.Equal(t, []*bridge.EventID{&second, nil}, cursors)
}

func TestRepo_EVMEventCursors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)
	addr1 := common.HexToAddress("0x01")
	addr2 := common.HexToAddress("0x02")

	require.NoError(t, repo.UpdateEVMEventCursor(ctx, addr1, 100))
	require.NoError(t, repo.UpdateEVMEventCursor(ctx, addr1, 150))

	cursors, err := repo.GetEVMEventCursors(ctx, []common.Address{addr1, addr2})
	require.NoError(t, err)
	require.Len(t, cursors, 2)
	require.NotNil(t, cursors[0])
	require.Equal(t, uint64(150), *cursors[0])
	require.Nil(t, cursors[1])

	all, err := repo.EVMEventCursors.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].UpdatedAt)
}

func TestRepo_HighBitValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)
	const high = uint64(1<<63) + 5

	pause := &bridge.Emergency{Nonce: high, Chain: bridge.EthSepolia, Op: bridge.EmergencyOpPause}
	require.NoError(t, repo.InsertPendingActions(ctx, []bridge.Action{pause}))
	rows, err := repo.PendingActions.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, high, uint64(rows[0].SeqNum))
	action, err := repo.GetPendingAction(ctx, pause.Digest())
	require.NoError(t, err)
	require.Equal(t, pause, action)

	addr := common.HexToAddress("0x01")
	require.NoError(t, repo.UpdateEVMEventCursor(ctx, addr, high))
	blocks, err := repo.GetEVMEventCursors(ctx, []common.Address{addr})
	require.NoError(t, err)
	require.Equal(t, high, *blocks[0])

	cursor := bridge.EventID{TxDigest: common.HexToHash("0x01"), EventSeq: ^uint64(0)}
	require.NoError(t, repo.UpdateNativeEventCursor(ctx, "bridge", cursor))
	cursors, err := repo.GetNativeEventCursors(ctx, []string{"bridge"})
	require.NoError(t, err)
	require.Equal(t, []*bridge.EventID{&cursor}, cursors)
}
