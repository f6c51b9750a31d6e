package bridge

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ActionType is the message type byte of the canonical encoding.
type ActionType uint8

const (
	ActionTypeTokenTransfer ActionType = iota
	ActionTypeUpdateCommitteeBlocklist
	ActionTypeEmergencyButton
	ActionTypeLimitUpdate
	ActionTypeAssetPriceUpdate
	ActionTypeEVMContractUpgrade
	ActionTypeAddTokensOnNative
	ActionTypeAddTokensOnEVM
)

var actionTypeNames = [...]string{
	"token_transfer",
	"update_committee_blocklist",
	"emergency_button",
	"limit_update",
	"asset_price_update",
	"evm_contract_upgrade",
	"add_tokens_on_native",
	"add_tokens_on_evm",
}

func (t ActionType) String() string {
	if int(t) < len(actionTypeNames) {
		return actionTypeNames[t]
	}
	return fmt.Sprintf("action_type_%d", uint8(t))
}

// Approval thresholds, in basis points of the total committee voting power.
const (
	ApprovalThresholdTokenTransfer      uint64 = 3334
	ApprovalThresholdCommitteeBlocklist uint64 = 5001
	ApprovalThresholdEmergencyPause     uint64 = 450
	ApprovalThresholdEmergencyUnpause   uint64 = 5001
	ApprovalThresholdLimitUpdate        uint64 = 5001
	ApprovalThresholdAssetPriceUpdate   uint64 = 5001
	ApprovalThresholdEVMContractUpgrade uint64 = 5001
	ApprovalThresholdAddTokensOnNative  uint64 = 5001
	ApprovalThresholdAddTokensOnEVM     uint64 = 5001
)

// ActionKey is the logical identity of an action: nonces are unique per action type and chain.
type ActionKey struct {
	Type    ActionType `json:"action_type"`
	ChainID ChainID    `json:"chain_id"`
	SeqNum  uint64     `json:"seq_num"`
}

func (k ActionKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Type, k.ChainID, k.SeqNum)
}

// NativeAddress is a 32-byte account address on the native chain.
type NativeAddress [32]byte

func BytesToNativeAddress(b []byte) (NativeAddress, error) {
	var a NativeAddress
	if len(b) != len(a) {
		return a, fmt.Errorf("invalid native address length %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

func (a NativeAddress) Hex() string {
	return hexutil.Encode(a[:])
}

func (a NativeAddress) String() string {
	return a.Hex()
}

func (a NativeAddress) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

func (a *NativeAddress) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("NativeAddress", input, a[:])
}

// AuthorityPublicKeyBytes is a compressed secp256k1 public key of a committee member.
type AuthorityPublicKeyBytes [33]byte

func BytesToAuthorityPublicKey(b []byte) (AuthorityPublicKeyBytes, error) {
	var k AuthorityPublicKeyBytes
	if len(b) != len(k) {
		return k, fmt.Errorf("invalid authority public key length %d", len(b))
	}
	copy(k[:], b)
	return k, nil
}

func (k AuthorityPublicKeyBytes) Hex() string {
	return hexutil.Encode(k[:])
}

func (k AuthorityPublicKeyBytes) String() string {
	return k.Hex()
}

// EVMAddress derives the ethereum address controlled by the key.
func (k AuthorityPublicKeyBytes) EVMAddress() (common.Address, error) {
	pub, err := crypto.DecompressPubkey(k[:])
	if err != nil {
		return common.Address{}, fmt.Errorf("can't decompress authority public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func (k AuthorityPublicKeyBytes) MarshalText() ([]byte, error) {
	return hexutil.Bytes(k[:]).MarshalText()
}

func (k *AuthorityPublicKeyBytes) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("AuthorityPublicKeyBytes", input, k[:])
}

type BlocklistType uint8

const (
	BlocklistTypeBlocklist BlocklistType = iota
	BlocklistTypeUnblocklist
)

type EmergencyOp uint8

const (
	EmergencyOpPause EmergencyOp = iota
	EmergencyOpUnpause
)

func (op EmergencyOp) String() string {
	if op == EmergencyOpPause {
		return "pause"
	}
	return "unpause"
}
