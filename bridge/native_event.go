package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EventID locates an event on the native chain.
type EventID struct {
	TxDigest common.Hash `json:"tx_digest"`
	EventSeq uint64      `json:"event_seq"`
}

func (id EventID) String() string {
	return fmt.Sprintf("%s:%d", id.TxDigest, id.EventSeq)
}

// NativeEvent is a raw event emitted by a native chain module. Type is the
// fully qualified struct tag, e.g. "0xb::bridge::TokenDepositedEvent".
type NativeEvent struct {
	ID         EventID         `json:"id"`
	Type       string          `json:"type"`
	ParsedJSON json.RawMessage `json:"parsed_json"`
}

// StructName returns the last segment of the event type tag.
func (e *NativeEvent) StructName() string {
	if i := strings.LastIndex(e.Type, "::"); i >= 0 {
		return e.Type[i+2:]
	}
	return e.Type
}

// NativeBridgeEvent is a recognized native bridge event. Action returns nil
// for events that don't require committee approval.
type NativeBridgeEvent interface {
	Action(txDigest common.Hash, eventSeq uint64) Action
}

var ErrMalformedNativeEvent = errors.New("malformed native bridge event")

// DecodeNativeEvent recognizes bridge module events. It returns (nil, nil)
// for events of other types.
func DecodeNativeEvent(e *NativeEvent) (NativeBridgeEvent, error) {
	var res NativeBridgeEvent
	switch e.StructName() {
	case "TokenDepositedEvent":
		res = new(NativeTokenDeposited)
	case "TokenTransferApproved", "TokenTransferClaimed",
		"TokenTransferAlreadyApproved", "TokenTransferAlreadyClaimed",
		"TokenTransferLimitExceed":
		res = new(NativeTokenTransferStatus)
	case "EmergencyOpEvent":
		res = new(NativeEmergencyOp)
	default:
		return nil, nil
	}
	if err := json.Unmarshal(e.ParsedJSON, res); err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %v", ErrMalformedNativeEvent, e.Type, e.ID, err)
	}
	if v, ok := res.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s at %s: %v", ErrMalformedNativeEvent, e.Type, e.ID, err)
		}
	}
	return res, nil
}

// NativeTokenDeposited is emitted when tokens are locked on the native chain
// to be bridged to an EVM chain.
type NativeTokenDeposited struct {
	SeqNum             moveU64   `json:"seq_num"`
	SourceChain        uint8     `json:"source_chain"`
	SenderAddress      moveBytes `json:"sender_address"`
	TargetChain        uint8     `json:"target_chain"`
	TargetAddress      moveBytes `json:"target_address"`
	TokenType          uint8     `json:"token_type"`
	AmountIotaAdjusted moveU64   `json:"amount_iota_adjusted"`
}

func (e *NativeTokenDeposited) validate() error {
	if len(e.SenderAddress) != len(NativeAddress{}) {
		return fmt.Errorf("invalid sender address length %d", len(e.SenderAddress))
	}
	if len(e.TargetAddress) != common.AddressLength {
		return fmt.Errorf("invalid target address length %d", len(e.TargetAddress))
	}
	if src := ChainID(e.SourceChain); !src.IsValid() || !src.IsNative() {
		return fmt.Errorf("invalid source chain %d", e.SourceChain)
	}
	if dst := ChainID(e.TargetChain); !dst.IsValid() || dst.IsNative() {
		return fmt.Errorf("invalid target chain %d", e.TargetChain)
	}
	return nil
}

func (e *NativeTokenDeposited) Action(txDigest common.Hash, eventSeq uint64) Action {
	var sender NativeAddress
	copy(sender[:], e.SenderAddress)
	return &NativeToEVMTransfer{
		TxDigest: txDigest,
		EventSeq: eventSeq,
		Event: NativeToEVMTokenBridge{
			Nonce:          uint64(e.SeqNum),
			NativeChainID:  ChainID(e.SourceChain),
			EVMChainID:     ChainID(e.TargetChain),
			NativeAddress:  sender,
			EVMAddress:     common.BytesToAddress(e.TargetAddress),
			TokenID:        e.TokenType,
			AmountAdjusted: uint64(e.AmountIotaAdjusted),
		},
	}
}

// NativeTokenTransferStatus covers the approval and claim status events
// keyed by the transfer message key.
type NativeTokenTransferStatus struct {
	MessageKey struct {
		SourceChain  uint8   `json:"source_chain"`
		MessageType  uint8   `json:"message_type"`
		BridgeSeqNum moveU64 `json:"bridge_seq_num"`
	} `json:"message_key"`
}

func (e *NativeTokenTransferStatus) Action(common.Hash, uint64) Action {
	return nil
}

type NativeEmergencyOp struct {
	Frozen bool `json:"frozen"`
}

func (e *NativeEmergencyOp) Action(common.Hash, uint64) Action {
	return nil
}

// moveU64 accepts both the string form used by native RPC nodes for u64
// values and plain JSON numbers.
type moveU64 uint64

func (v *moveU64) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u64 %s: %w", data, err)
	}
	*v = moveU64(n)
	return nil
}

// moveBytes accepts vector<u8> rendered either as an array of numbers or as
// a 0x-prefixed hex string.
type moveBytes []byte

func (b *moveBytes) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		decoded, err := hexutil.Decode(s)
		if err != nil {
			return fmt.Errorf("invalid hex bytes %q: %w", s, err)
		}
		*b = decoded
		return nil
	}
	var nums []uint8
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	*b = nums
	return nil
}
