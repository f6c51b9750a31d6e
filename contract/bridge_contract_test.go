package contract_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/contract"
	"github.com/omni/bridge-orchestrator/contract/abi"
)

var (
	sender    = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	recipient = bridge.NativeAddress{31: 0xbb}
)

func depositLog(t *testing.T, src, dst bridge.ChainID, recipient []byte) *types.Log {
	t.Helper()

	event := abi.BridgeABI.Events["TokensDeposited"]
	data, err := event.Inputs.NonIndexed().Pack(uint8(3), uint64(1000), sender, recipient)
	require.NoError(t, err)
	return &types.Log{
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(big.NewInt(int64(src))),
			common.BigToHash(big.NewInt(42)),
			common.BigToHash(big.NewInt(int64(dst))),
		},
		Data:   data,
		TxHash: common.HexToHash("0x01"),
	}
}

func TestBridgeLogDecoder_TokensDeposited(t *testing.T) {
	t.Parallel()

	decoder := contract.NewBridgeLogDecoder()
	event, err := decoder.DecodeLog(depositLog(t, bridge.EthSepolia, bridge.IotaTestnet, recipient[:]))
	require.NoError(t, err)
	require.Equal(t, &bridge.EVMTokensDeposited{
		SourceChainID:      uint8(bridge.EthSepolia),
		Nonce:              42,
		DestinationChainID: uint8(bridge.IotaTestnet),
		TokenID:            3,
		IotaAdjustedAmount: 1000,
		SenderAddress:      sender,
		RecipientAddress:   recipient[:],
	}, event)

	action := event.Action(common.HexToHash("0x01"), 2)
	require.Equal(t, &bridge.EVMToNativeTransfer{
		TxHash:       common.HexToHash("0x01"),
		LogIndexInTx: 2,
		Event: bridge.EVMToNativeTokenBridge{
			Nonce:          42,
			EVMChainID:     bridge.EthSepolia,
			NativeChainID:  bridge.IotaTestnet,
			EVMAddress:     sender,
			NativeAddress:  recipient,
			TokenID:        3,
			AmountAdjusted: 1000,
		},
	}, action)
}

func TestBridgeLogDecoder_Invalid(t *testing.T) {
	t.Parallel()

	decoder := contract.NewBridgeLogDecoder()

	_, err := decoder.DecodeLog(depositLog(t, bridge.EthSepolia, bridge.IotaTestnet, recipient[:20]))
	require.Error(t, err)

	_, err = decoder.DecodeLog(depositLog(t, bridge.IotaTestnet, bridge.IotaTestnet, recipient[:]))
	require.Error(t, err)

	_, err = decoder.DecodeLog(&types.Log{})
	require.ErrorIs(t, err, abi.ErrInvalidEvent)

	log := depositLog(t, bridge.EthSepolia, bridge.IotaTestnet, recipient[:])
	log.Data = log.Data[:32]
	_, err = decoder.DecodeLog(log)
	require.Error(t, err)
}

func TestBridgeLogDecoder_NoAction(t *testing.T) {
	t.Parallel()

	decoder := contract.NewBridgeLogDecoder()
	paused := abi.BridgeABI.Events["Paused"]
	data, err := paused.Inputs.Pack(sender)
	require.NoError(t, err)

	event, err := decoder.DecodeLog(&types.Log{Topics: []common.Hash{paused.ID}, Data: data})
	require.NoError(t, err)
	require.Equal(t, &bridge.EVMPaused{Account: sender}, event)
	require.Nil(t, event.Action(common.Hash{}, 0))

	event, err = decoder.DecodeLog(&types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}})
	require.NoError(t, err)
	require.Nil(t, event)
}
