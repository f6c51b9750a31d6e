package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/alerts"
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

func TestConvertToAlertMetricValues(t *testing.T) {
	t.Parallel()

	values, err := alerts.ConvertToAlertMetricValues([]alerts.StuckPendingAction{
		{ChainID: "eth_sepolia", ActionType: "limit_update", SeqNum: 7, Age: 120},
	})
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, 120.0, values[0].Value())
	labels := values[0].Labels()
	require.Equal(t, "eth_sepolia", labels["chain_id"])
	require.Equal(t, "7", labels["seq_num"])
	require.NotContains(t, labels, alerts.ValueLabelTag)
}

func TestPendingActionsProvider(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepo(t)
	action := &bridge.LimitUpdate{Nonce: 7, Chain: bridge.EthSepolia, SendingChainID: bridge.IotaTestnet, NewUSDLimit: 100}
	require.NoError(t, repo.InsertPendingActions(ctx, []bridge.Action{action}))

	params := &alerts.AlertJobParams{Threshold: 30 * time.Minute}

	res, err := alerts.NewPendingActionsProvider(repo.PendingActions, nil).FindStuckPendingActions(ctx, params)
	require.NoError(t, err)
	require.Empty(t, res)

	later := func() time.Time { return time.Now().Add(time.Hour) }
	res, err = alerts.NewPendingActionsProvider(repo.PendingActions, later).FindStuckPendingActions(ctx, params)
	require.NoError(t, err)
	stuck := res.([]alerts.StuckPendingAction)
	require.Len(t, stuck, 1)
	require.Equal(t, action.Digest(), stuck[0].Digest)
	require.Equal(t, uint64(7), stuck[0].SeqNum)
	require.Equal(t, bridge.EthSepolia.String(), stuck[0].ChainID)
	require.InDelta(t, 3600, stuck[0].Age, 60)
}

func TestAlertManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger, _ := logtest.NewNullLogger()
	repo := newTestRepo(t)

	_, err := alerts.NewAlertManager(logger, repo.PendingActions, map[string]*config.AlertConfig{
		"unknown": {Threshold: time.Minute},
	})
	require.Error(t, err)

	action := &bridge.Emergency{Nonce: 1, Chain: bridge.EthSepolia, Op: bridge.EmergencyOpPause}
	require.NoError(t, repo.InsertPendingActions(ctx, []bridge.Action{action}))

	m, err := alerts.NewAlertManager(logger, repo.PendingActions, map[string]*config.AlertConfig{
		alerts.StuckPendingActionAlert: {Threshold: 0},
	})
	require.NoError(t, err)
	require.NoError(t, m.RunOnce(ctx))
	require.Equal(t, 1, testutil.CollectAndCount(alerts.AlertStuckPendingAction))
}
