package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/bridge"
)

func TestMarshalAction(t *testing.T) {
	t.Parallel()

	for _, action := range allActions() {
		action := action
		t.Run(string(action.Kind()), func(t *testing.T) {
			t.Parallel()

			data, err := bridge.MarshalAction(action)
			require.NoError(t, err)

			decoded, err := bridge.UnmarshalAction(data)
			require.NoError(t, err)
			require.Equal(t, action.Kind(), decoded.Kind())
			require.Equal(t, action.Digest(), decoded.Digest())
			require.Equal(t, action, decoded)
		})
	}
}

func TestUnmarshalAction_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := bridge.UnmarshalAction([]byte(`{"kind":"mint","action":{}}`))
	require.ErrorIs(t, err, bridge.ErrUnknownActionKind)

	_, err = bridge.UnmarshalAction([]byte(`not json`))
	require.Error(t, err)
}
