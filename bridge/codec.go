package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActionKind names the concrete Action variant in persisted form.
type ActionKind string

const (
	KindNativeToEVMTransfer ActionKind = "native_to_evm_transfer"
	KindEVMToNativeTransfer ActionKind = "evm_to_native_transfer"
	KindBlocklistCommittee  ActionKind = "blocklist_committee"
	KindEmergency           ActionKind = "emergency"
	KindLimitUpdate         ActionKind = "limit_update"
	KindAssetPriceUpdate    ActionKind = "asset_price_update"
	KindEVMContractUpgrade  ActionKind = "evm_contract_upgrade"
	KindAddTokensOnNative   ActionKind = "add_tokens_on_native"
	KindAddTokensOnEVM      ActionKind = "add_tokens_on_evm"
)

var ErrUnknownActionKind = errors.New("unknown action kind")

type taggedAction struct {
	Kind   ActionKind      `json:"kind"`
	Action json.RawMessage `json:"action"`
}

func newActionOfKind(kind ActionKind) (Action, error) {
	switch kind {
	case KindNativeToEVMTransfer:
		return new(NativeToEVMTransfer), nil
	case KindEVMToNativeTransfer:
		return new(EVMToNativeTransfer), nil
	case KindBlocklistCommittee:
		return new(BlocklistCommittee), nil
	case KindEmergency:
		return new(Emergency), nil
	case KindLimitUpdate:
		return new(LimitUpdate), nil
	case KindAssetPriceUpdate:
		return new(AssetPriceUpdate), nil
	case KindEVMContractUpgrade:
		return new(EVMContractUpgrade), nil
	case KindAddTokensOnNative:
		return new(AddTokensOnNative), nil
	case KindAddTokensOnEVM:
		return new(AddTokensOnEVM), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionKind, kind)
	}
}

// MarshalAction encodes an action together with its kind tag.
func MarshalAction(a Action) ([]byte, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("can't marshal %s action: %w", a.Kind(), err)
	}
	return json.Marshal(taggedAction{Kind: a.Kind(), Action: raw})
}

func UnmarshalAction(data []byte) (Action, error) {
	var tagged taggedAction
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, fmt.Errorf("can't unmarshal tagged action: %w", err)
	}
	a, err := newActionOfKind(tagged.Kind)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(tagged.Action, a); err != nil {
		return nil, fmt.Errorf("can't unmarshal %s action: %w", tagged.Kind, err)
	}
	return a, nil
}
