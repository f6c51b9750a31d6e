package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/bridge"
)

func TestIsRouteValid(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		Name     string
		One      bridge.ChainID
		Other    bridge.ChainID
		Expected bool
	}{
		{"Mainnets", bridge.IotaMainnet, bridge.EthMainnet, true},
		{"Mainnets reversed", bridge.EthMainnet, bridge.IotaMainnet, true},
		{"Testnet to sepolia", bridge.IotaTestnet, bridge.EthSepolia, true},
		{"Custom to sepolia", bridge.IotaCustom, bridge.EthSepolia, true},
		{"Testnet to eth custom", bridge.IotaTestnet, bridge.EthCustom, true},
		{"Custom to custom", bridge.EthCustom, bridge.IotaCustom, true},
		{"Native mainnet to sepolia", bridge.IotaMainnet, bridge.EthSepolia, false},
		{"Eth mainnet to native testnet", bridge.EthMainnet, bridge.IotaTestnet, false},
		{"Sepolia to native mainnet", bridge.EthSepolia, bridge.IotaMainnet, false},
		{"Native to native", bridge.IotaTestnet, bridge.IotaCustom, false},
		{"Native mainnet to itself", bridge.IotaMainnet, bridge.IotaMainnet, false},
		{"EVM to EVM", bridge.EthMainnet, bridge.EthSepolia, false},
		{"Native testnet to unknown", bridge.IotaTestnet, bridge.ChainID(5), false},
		{"Unknown to eth custom", bridge.ChainID(200), bridge.EthCustom, false},
	} {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, test.Expected, bridge.IsRouteValid(test.One, test.Other))
		})
	}
}

func TestParseChainID(t *testing.T) {
	t.Parallel()

	id, err := bridge.ParseChainID("eth_sepolia")
	require.NoError(t, err)
	require.Equal(t, bridge.EthSepolia, id)
	require.Equal(t, "eth_sepolia", id.String())

	id, err = bridge.ParseChainID(" IOTA_Mainnet ")
	require.NoError(t, err)
	require.Equal(t, bridge.IotaMainnet, id)

	_, err = bridge.ParseChainID("bsc")
	require.ErrorIs(t, err, bridge.ErrUnknownChainID)

	require.False(t, bridge.ChainID(5).IsValid())
	require.Equal(t, "chain_5", bridge.ChainID(5).String())
}
