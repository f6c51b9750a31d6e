package bridge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Action is a bridge action awaiting committee approval. The set of
// implementations is closed, see Kind for the full list.
type Action interface {
	Kind() ActionKind
	ActionType() ActionType
	ChainID() ChainID
	SeqNumber() uint64
	IsGovernanceAction() bool
	ApprovalThreshold() uint64
	Key() ActionKey
	Digest() common.Hash
	Encode() []byte

	isAction()
}

// NativeToEVMTokenBridge is the payload of a deposit made on the native chain.
type NativeToEVMTokenBridge struct {
	Nonce          uint64         `json:"nonce"`
	NativeChainID  ChainID        `json:"native_chain_id"`
	EVMChainID     ChainID        `json:"evm_chain_id"`
	NativeAddress  NativeAddress  `json:"native_address"`
	EVMAddress     common.Address `json:"evm_address"`
	TokenID        uint8          `json:"token_id"`
	AmountAdjusted uint64         `json:"amount_adjusted"`
}

// EVMToNativeTokenBridge is the payload of a deposit made on the EVM chain.
type EVMToNativeTokenBridge struct {
	Nonce          uint64         `json:"nonce"`
	EVMChainID     ChainID        `json:"evm_chain_id"`
	NativeChainID  ChainID        `json:"native_chain_id"`
	EVMAddress     common.Address `json:"evm_address"`
	NativeAddress  NativeAddress  `json:"native_address"`
	TokenID        uint8          `json:"token_id"`
	AmountAdjusted uint64         `json:"amount_adjusted"`
}

type NativeToEVMTransfer struct {
	TxDigest common.Hash            `json:"tx_digest"`
	EventSeq uint64                 `json:"event_seq"`
	Event    NativeToEVMTokenBridge `json:"event"`
}

type EVMToNativeTransfer struct {
	TxHash       common.Hash            `json:"tx_hash"`
	LogIndexInTx uint16                 `json:"log_index_in_tx"`
	Event        EVMToNativeTokenBridge `json:"event"`
}

type BlocklistCommittee struct {
	Nonce           uint64                    `json:"nonce"`
	Chain           ChainID                   `json:"chain_id"`
	BlocklistType   BlocklistType             `json:"blocklist_type"`
	MembersToUpdate []AuthorityPublicKeyBytes `json:"members_to_update"`
}

type Emergency struct {
	Nonce uint64      `json:"nonce"`
	Chain ChainID     `json:"chain_id"`
	Op    EmergencyOp `json:"op"`
}

type LimitUpdate struct {
	Nonce          uint64  `json:"nonce"`
	Chain          ChainID `json:"chain_id"`
	SendingChainID ChainID `json:"sending_chain_id"`
	NewUSDLimit    uint64  `json:"new_usd_limit"`
}

type AssetPriceUpdate struct {
	Nonce       uint64  `json:"nonce"`
	Chain       ChainID `json:"chain_id"`
	TokenID     uint8   `json:"token_id"`
	NewUSDPrice uint64  `json:"new_usd_price"`
}

type EVMContractUpgrade struct {
	Nonce          uint64         `json:"nonce"`
	Chain          ChainID        `json:"chain_id"`
	ProxyAddress   common.Address `json:"proxy_address"`
	NewImplAddress common.Address `json:"new_impl_address"`
	CallData       []byte         `json:"call_data"`
}

type AddTokensOnNative struct {
	Nonce          uint64   `json:"nonce"`
	Chain          ChainID  `json:"chain_id"`
	Native         bool     `json:"native"`
	TokenIDs       []uint8  `json:"token_ids"`
	TokenTypeNames []string `json:"token_type_names"`
	TokenPrices    []uint64 `json:"token_prices"`
}

type AddTokensOnEVM struct {
	Nonce               uint64           `json:"nonce"`
	Chain               ChainID          `json:"chain_id"`
	Native              bool             `json:"native"`
	TokenIDs            []uint8          `json:"token_ids"`
	TokenAddresses      []common.Address `json:"token_addresses"`
	TokenNativeDecimals []uint8          `json:"token_native_decimals"`
	TokenPrices         []uint64         `json:"token_prices"`
}

func keyOf(a Action) ActionKey {
	return ActionKey{Type: a.ActionType(), ChainID: a.ChainID(), SeqNum: a.SeqNumber()}
}

func digestOf(a Action) common.Hash {
	return crypto.Keccak256Hash(a.Encode())
}

func (a *NativeToEVMTransfer) Kind() ActionKind          { return KindNativeToEVMTransfer }
func (a *NativeToEVMTransfer) ActionType() ActionType    { return ActionTypeTokenTransfer }
func (a *NativeToEVMTransfer) ChainID() ChainID          { return a.Event.NativeChainID }
func (a *NativeToEVMTransfer) SeqNumber() uint64         { return a.Event.Nonce }
func (a *NativeToEVMTransfer) IsGovernanceAction() bool  { return false }
func (a *NativeToEVMTransfer) ApprovalThreshold() uint64 { return ApprovalThresholdTokenTransfer }
func (a *NativeToEVMTransfer) Key() ActionKey            { return keyOf(a) }
func (a *NativeToEVMTransfer) Digest() common.Hash       { return digestOf(a) }
func (a *NativeToEVMTransfer) isAction()                 {}

func (a *EVMToNativeTransfer) Kind() ActionKind          { return KindEVMToNativeTransfer }
func (a *EVMToNativeTransfer) ActionType() ActionType    { return ActionTypeTokenTransfer }
func (a *EVMToNativeTransfer) ChainID() ChainID          { return a.Event.EVMChainID }
func (a *EVMToNativeTransfer) SeqNumber() uint64         { return a.Event.Nonce }
func (a *EVMToNativeTransfer) IsGovernanceAction() bool  { return false }
func (a *EVMToNativeTransfer) ApprovalThreshold() uint64 { return ApprovalThresholdTokenTransfer }
func (a *EVMToNativeTransfer) Key() ActionKey            { return keyOf(a) }
func (a *EVMToNativeTransfer) Digest() common.Hash       { return digestOf(a) }
func (a *EVMToNativeTransfer) isAction()                 {}

func (a *BlocklistCommittee) Kind() ActionKind       { return KindBlocklistCommittee }
func (a *BlocklistCommittee) ActionType() ActionType { return ActionTypeUpdateCommitteeBlocklist }
func (a *BlocklistCommittee) ChainID() ChainID       { return a.Chain }
func (a *BlocklistCommittee) SeqNumber() uint64      { return a.Nonce }
func (a *BlocklistCommittee) IsGovernanceAction() bool {
	return true
}
func (a *BlocklistCommittee) ApprovalThreshold() uint64 {
	return ApprovalThresholdCommitteeBlocklist
}
func (a *BlocklistCommittee) Key() ActionKey      { return keyOf(a) }
func (a *BlocklistCommittee) Digest() common.Hash { return digestOf(a) }
func (a *BlocklistCommittee) isAction()           {}

func (a *Emergency) Kind() ActionKind         { return KindEmergency }
func (a *Emergency) ActionType() ActionType   { return ActionTypeEmergencyButton }
func (a *Emergency) ChainID() ChainID         { return a.Chain }
func (a *Emergency) SeqNumber() uint64        { return a.Nonce }
func (a *Emergency) IsGovernanceAction() bool { return true }

// ApprovalThreshold keeps pausing cheap and requires a majority to unpause.
func (a *Emergency) ApprovalThreshold() uint64 {
	if a.Op == EmergencyOpPause {
		return ApprovalThresholdEmergencyPause
	}
	return ApprovalThresholdEmergencyUnpause
}
func (a *Emergency) Key() ActionKey      { return keyOf(a) }
func (a *Emergency) Digest() common.Hash { return digestOf(a) }
func (a *Emergency) isAction()           {}

func (a *LimitUpdate) Kind() ActionKind          { return KindLimitUpdate }
func (a *LimitUpdate) ActionType() ActionType    { return ActionTypeLimitUpdate }
func (a *LimitUpdate) ChainID() ChainID          { return a.Chain }
func (a *LimitUpdate) SeqNumber() uint64         { return a.Nonce }
func (a *LimitUpdate) IsGovernanceAction() bool  { return true }
func (a *LimitUpdate) ApprovalThreshold() uint64 { return ApprovalThresholdLimitUpdate }
func (a *LimitUpdate) Key() ActionKey            { return keyOf(a) }
func (a *LimitUpdate) Digest() common.Hash       { return digestOf(a) }
func (a *LimitUpdate) isAction()                 {}

func (a *AssetPriceUpdate) Kind() ActionKind          { return KindAssetPriceUpdate }
func (a *AssetPriceUpdate) ActionType() ActionType    { return ActionTypeAssetPriceUpdate }
func (a *AssetPriceUpdate) ChainID() ChainID          { return a.Chain }
func (a *AssetPriceUpdate) SeqNumber() uint64         { return a.Nonce }
func (a *AssetPriceUpdate) IsGovernanceAction() bool  { return true }
func (a *AssetPriceUpdate) ApprovalThreshold() uint64 { return ApprovalThresholdAssetPriceUpdate }
func (a *AssetPriceUpdate) Key() ActionKey            { return keyOf(a) }
func (a *AssetPriceUpdate) Digest() common.Hash       { return digestOf(a) }
func (a *AssetPriceUpdate) isAction()                 {}

func (a *EVMContractUpgrade) Kind() ActionKind         { return KindEVMContractUpgrade }
func (a *EVMContractUpgrade) ActionType() ActionType   { return ActionTypeEVMContractUpgrade }
func (a *EVMContractUpgrade) ChainID() ChainID         { return a.Chain }
func (a *EVMContractUpgrade) SeqNumber() uint64        { return a.Nonce }
func (a *EVMContractUpgrade) IsGovernanceAction() bool { return true }
func (a *EVMContractUpgrade) ApprovalThreshold() uint64 {
	return ApprovalThresholdEVMContractUpgrade
}
func (a *EVMContractUpgrade) Key() ActionKey      { return keyOf(a) }
func (a *EVMContractUpgrade) Digest() common.Hash { return digestOf(a) }
func (a *EVMContractUpgrade) isAction()           {}

func (a *AddTokensOnNative) Kind() ActionKind          { return KindAddTokensOnNative }
func (a *AddTokensOnNative) ActionType() ActionType    { return ActionTypeAddTokensOnNative }
func (a *AddTokensOnNative) ChainID() ChainID          { return a.Chain }
func (a *AddTokensOnNative) SeqNumber() uint64         { return a.Nonce }
func (a *AddTokensOnNative) IsGovernanceAction() bool  { return true }
func (a *AddTokensOnNative) ApprovalThreshold() uint64 { return ApprovalThresholdAddTokensOnNative }
func (a *AddTokensOnNative) Key() ActionKey            { return keyOf(a) }
func (a *AddTokensOnNative) Digest() common.Hash       { return digestOf(a) }
func (a *AddTokensOnNative) isAction()                 {}

func (a *AddTokensOnEVM) Kind() ActionKind          { return KindAddTokensOnEVM }
func (a *AddTokensOnEVM) ActionType() ActionType    { return ActionTypeAddTokensOnEVM }
func (a *AddTokensOnEVM) ChainID() ChainID          { return a.Chain }
func (a *AddTokensOnEVM) SeqNumber() uint64         { return a.Nonce }
func (a *AddTokensOnEVM) IsGovernanceAction() bool  { return true }
func (a *AddTokensOnEVM) ApprovalThreshold() uint64 { return ApprovalThresholdAddTokensOnEVM }
func (a *AddTokensOnEVM) Key() ActionKey            { return keyOf(a) }
func (a *AddTokensOnEVM) Digest() common.Hash       { return digestOf(a) }
func (a *AddTokensOnEVM) isAction()                 {}
