package bridge

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EVMBridgeEvent is a recognized event of the EVM bridge contract. Action
// returns nil for events that don't require committee approval.
type EVMBridgeEvent interface {
	Action(txHash common.Hash, logIndexInTx uint16) Action
}

// EVMTokensDeposited is emitted when tokens are locked on the EVM chain to be
// bridged to the native chain.
type EVMTokensDeposited struct {
	SourceChainID      uint8
	Nonce              uint64
	DestinationChainID uint8
	TokenID            uint8
	IotaAdjustedAmount uint64
	SenderAddress      common.Address
	RecipientAddress   []byte
}

func (e *EVMTokensDeposited) Validate() error {
	if src := ChainID(e.SourceChainID); !src.IsValid() || src.IsNative() {
		return fmt.Errorf("invalid source chain %d", e.SourceChainID)
	}
	if dst := ChainID(e.DestinationChainID); !dst.IsValid() || !dst.IsNative() {
		return fmt.Errorf("invalid destination chain %d", e.DestinationChainID)
	}
	if len(e.RecipientAddress) != len(NativeAddress{}) {
		return fmt.Errorf("invalid recipient address length %d", len(e.RecipientAddress))
	}
	return nil
}

func (e *EVMTokensDeposited) Action(txHash common.Hash, logIndexInTx uint16) Action {
	var recipient NativeAddress
	copy(recipient[:], e.RecipientAddress)
	return &EVMToNativeTransfer{
		TxHash:       txHash,
		LogIndexInTx: logIndexInTx,
		Event: EVMToNativeTokenBridge{
			Nonce:          e.Nonce,
			EVMChainID:     ChainID(e.SourceChainID),
			NativeChainID:  ChainID(e.DestinationChainID),
			EVMAddress:     e.SenderAddress,
			NativeAddress:  recipient,
			TokenID:        e.TokenID,
			AmountAdjusted: e.IotaAdjustedAmount,
		},
	}
}

// EVMTokensClaimed, EVMPaused and EVMUnpaused are recognized but carry no action.
type EVMTokensClaimed struct {
	SourceChainID uint8
	Nonce         uint64
}

func (e *EVMTokensClaimed) Action(common.Hash, uint16) Action { return nil }

type EVMPaused struct {
	Account common.Address
}

func (e *EVMPaused) Action(common.Hash, uint16) Action { return nil }

type EVMUnpaused struct {
	Account common.Address
}

func (e *EVMUnpaused) Action(common.Hash, uint16) Action { return nil }
