package contract

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/contract/abi"
)

var ErrUnexpectedEventData = errors.New("unexpected event data")

// BridgeLogDecoder turns EVM bridge contract logs into bridge events.
type BridgeLogDecoder struct {
	abi abi.ABI
}

func NewBridgeLogDecoder() *BridgeLogDecoder {
	return &BridgeLogDecoder{abi: abi.BridgeABI}
}

// DecodeLog returns (nil, nil) for logs of events it doesn't know.
func (d *BridgeLogDecoder) DecodeLog(log *types.Log) (bridge.EVMBridgeEvent, error) {
	event, data, err := d.abi.ParseLog(log)
	if err != nil {
		return nil, fmt.Errorf("can't parse log: %w", err)
	}
	switch event {
	case abi.TokensDeposited:
		res := &bridge.EVMTokensDeposited{}
		if err = unpack(data, map[string]interface{}{
			"sourceChainID":      &res.SourceChainID,
			"nonce":              &res.Nonce,
			"destinationChainID": &res.DestinationChainID,
			"tokenID":            &res.TokenID,
			"iotaAdjustedAmount": &res.IotaAdjustedAmount,
			"senderAddress":      &res.SenderAddress,
			"recipientAddress":   &res.RecipientAddress,
		}); err != nil {
			return nil, err
		}
		if err = res.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s log: %w", event, err)
		}
		return res, nil
	case abi.TokensClaimed:
		res := &bridge.EVMTokensClaimed{}
		if err = unpack(data, map[string]interface{}{
			"sourceChainID": &res.SourceChainID,
			"nonce":         &res.Nonce,
		}); err != nil {
			return nil, err
		}
		return res, nil
	case abi.Paused:
		res := &bridge.EVMPaused{}
		return res, unpack(data, map[string]interface{}{"account": &res.Account})
	case abi.Unpaused:
		res := &bridge.EVMUnpaused{}
		return res, unpack(data, map[string]interface{}{"account": &res.Account})
	default:
		return nil, nil
	}
}

func unpack(data map[string]interface{}, dst map[string]interface{}) error {
	for name, ptr := range dst {
		value, ok := data[name]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrUnexpectedEventData, name)
		}
		var matched bool
		switch p := ptr.(type) {
		case *uint8:
			var v uint8
			v, matched = value.(uint8)
			*p = v
		case *uint64:
			var v uint64
			v, matched = value.(uint64)
			*p = v
		case *common.Address:
			var v common.Address
			v, matched = value.(common.Address)
			*p = v
		case *[]byte:
			var v []byte
			v, matched = value.([]byte)
			*p = v
		}
		if !matched {
			return fmt.Errorf("%w: %s has type %T", ErrUnexpectedEventData, name, value)
		}
	}
	return nil
}
