package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/entity"
)

func TestUint64(t *testing.T) {
	t.Parallel()

	for _, v := range []uint64{0, 1, 1<<63 - 1, 1 << 63, ^uint64(0)} {
		stored, err := entity.Uint64(v).Value()
		require.NoError(t, err)
		require.IsType(t, int64(0), stored)

		var scanned entity.Uint64
		require.NoError(t, scanned.Scan(stored))
		require.Equal(t, v, uint64(scanned))
	}

	var u entity.Uint64
	require.NoError(t, u.Scan([]byte("-1")))
	require.Equal(t, ^uint64(0), uint64(u))
	require.Error(t, u.Scan(1.5))
}
