package bridge

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// MessagePrefix starts every encoded bridge message, so that a signature over
// a bridge message can never be replayed as a signature over anything else.
const MessagePrefix = "IOTA_BRIDGE_MESSAGE"

const (
	tokenTransferMessageVersion      = 1
	committeeBlocklistMessageVersion = 1
	emergencyMessageVersion          = 1
	limitUpdateMessageVersion        = 1
	assetPriceUpdateMessageVersion   = 1
	evmContractUpgradeMessageVersion = 1
	addTokensMessageVersion          = 1
)

var (
	addressType, _ = abi.NewType("address", "", nil)
	bytesType, _   = abi.NewType("bytes", "", nil)
	upgradeArgs    = abi.Arguments{
		{Name: "proxyAddress", Type: addressType},
		{Name: "newImplAddress", Type: addressType},
		{Name: "callData", Type: bytesType},
	}
)

type messageWriter struct {
	buf bytes.Buffer
}

func newMessageWriter(t ActionType, version uint8, seqNum uint64) *messageWriter {
	w := new(messageWriter)
	w.buf.WriteString(MessagePrefix)
	w.u8(uint8(t))
	w.u8(version)
	w.u64(seqNum)
	return w
}

func (w *messageWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *messageWriter) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *messageWriter) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// length writes n as ULEB128, so values below 128 take a single byte.
func (w *messageWriter) length(n int) {
	var b [binary.MaxVarintLen64]byte
	w.buf.Write(b[:binary.PutUvarint(b[:], uint64(n))])
}

func (w *messageWriter) lenPrefixed(b []byte) {
	w.length(len(b))
	w.buf.Write(b)
}

func (w *messageWriter) bytes() []byte {
	return w.buf.Bytes()
}

func (a *NativeToEVMTransfer) Encode() []byte {
	e := a.Event
	w := newMessageWriter(ActionTypeTokenTransfer, tokenTransferMessageVersion, e.Nonce)
	w.u8(uint8(e.NativeChainID))
	w.lenPrefixed(e.NativeAddress[:])
	w.u8(uint8(e.EVMChainID))
	w.lenPrefixed(e.EVMAddress[:])
	w.u8(e.TokenID)
	w.u64(e.AmountAdjusted)
	return w.bytes()
}

func (a *EVMToNativeTransfer) Encode() []byte {
	e := a.Event
	w := newMessageWriter(ActionTypeTokenTransfer, tokenTransferMessageVersion, e.Nonce)
	w.u8(uint8(e.EVMChainID))
	w.lenPrefixed(e.EVMAddress[:])
	w.u8(uint8(e.NativeChainID))
	w.lenPrefixed(e.NativeAddress[:])
	w.u8(e.TokenID)
	w.u64(e.AmountAdjusted)
	return w.bytes()
}

func (a *BlocklistCommittee) Encode() []byte {
	w := newMessageWriter(ActionTypeUpdateCommitteeBlocklist, committeeBlocklistMessageVersion, a.Nonce)
	w.u8(uint8(a.Chain))
	w.u8(uint8(a.BlocklistType))
	w.length(len(a.MembersToUpdate))
	for _, member := range a.MembersToUpdate {
		w.buf.Write(member[:])
	}
	return w.bytes()
}

func (a *Emergency) Encode() []byte {
	w := newMessageWriter(ActionTypeEmergencyButton, emergencyMessageVersion, a.Nonce)
	w.u8(uint8(a.Chain))
	w.u8(uint8(a.Op))
	return w.bytes()
}

func (a *LimitUpdate) Encode() []byte {
	w := newMessageWriter(ActionTypeLimitUpdate, limitUpdateMessageVersion, a.Nonce)
	w.u8(uint8(a.Chain))
	w.u8(uint8(a.SendingChainID))
	w.u64(a.NewUSDLimit)
	return w.bytes()
}

func (a *AssetPriceUpdate) Encode() []byte {
	w := newMessageWriter(ActionTypeAssetPriceUpdate, assetPriceUpdateMessageVersion, a.Nonce)
	w.u8(uint8(a.Chain))
	w.u8(a.TokenID)
	w.u64(a.NewUSDPrice)
	return w.bytes()
}

func (a *EVMContractUpgrade) Encode() []byte {
	w := newMessageWriter(ActionTypeEVMContractUpgrade, evmContractUpgradeMessageVersion, a.Nonce)
	w.u8(uint8(a.Chain))
	payload, err := upgradeArgs.Pack(a.ProxyAddress, a.NewImplAddress, nonNilBytes(a.CallData))
	if err != nil {
		// argument types are fixed above, packing can't fail for well-typed values
		panic(fmt.Sprintf("can't abi encode evm contract upgrade payload: %v", err))
	}
	w.buf.Write(payload)
	return w.bytes()
}

func (a *AddTokensOnNative) Encode() []byte {
	w := newMessageWriter(ActionTypeAddTokensOnNative, addTokensMessageVersion, a.Nonce)
	w.u8(uint8(a.Chain))
	w.bool(a.Native)
	w.lenPrefixed(a.TokenIDs)
	w.length(len(a.TokenTypeNames))
	for _, name := range a.TokenTypeNames {
		w.lenPrefixed([]byte(name))
	}
	w.length(len(a.TokenPrices))
	for _, price := range a.TokenPrices {
		w.u64(price)
	}
	return w.bytes()
}

func (a *AddTokensOnEVM) Encode() []byte {
	w := newMessageWriter(ActionTypeAddTokensOnEVM, addTokensMessageVersion, a.Nonce)
	w.u8(uint8(a.Chain))
	w.bool(a.Native)
	w.lenPrefixed(a.TokenIDs)
	w.length(len(a.TokenAddresses))
	for _, addr := range a.TokenAddresses {
		w.buf.Write(addr[:])
	}
	w.lenPrefixed(a.TokenNativeDecimals)
	w.length(len(a.TokenPrices))
	for _, price := range a.TokenPrices {
		w.u64(price)
	}
	return w.bytes()
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
