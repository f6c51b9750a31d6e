package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/omni/bridge-orchestrator/bridge"
)

// NativeEventBatch is a page of events of a single native module, ordered by event id.
type NativeEventBatch struct {
	Module string
	Events []*bridge.NativeEvent
}

// EVMLog is a contract log with its position inside the emitting transaction.
type EVMLog struct {
	types.Log
	LogIndexInTx uint16
}

// EVMLogBatch holds all logs of Address up to and including EndBlock that
// were not delivered before.
type EVMLogBatch struct {
	Address  common.Address
	EndBlock uint64
	Logs     []*EVMLog
}

// Store persists pending actions and watcher progress.
type Store interface {
	InsertPendingActions(ctx context.Context, actions []bridge.Action) error
	UpdateNativeEventCursor(ctx context.Context, module string, cursor bridge.EventID) error
	UpdateEVMEventCursor(ctx context.Context, address common.Address, blockNumber uint64) error
	GetAllPendingActions(ctx context.Context) (map[common.Hash]bridge.Action, error)
	GetNativeEventCursors(ctx context.Context, modules []string) ([]*bridge.EventID, error)
	GetEVMEventCursors(ctx context.Context, addresses []common.Address) ([]*uint64, error)
}

// NativeEventDecoder recognizes native bridge events. It returns (nil, nil)
// for events it doesn't know and an error for malformed recognized events.
type NativeEventDecoder interface {
	DecodeNativeEvent(event *bridge.NativeEvent) (bridge.NativeBridgeEvent, error)
}

type NativeEventDecoderFunc func(event *bridge.NativeEvent) (bridge.NativeBridgeEvent, error)

func (f NativeEventDecoderFunc) DecodeNativeEvent(event *bridge.NativeEvent) (bridge.NativeBridgeEvent, error) {
	return f(event)
}

// EVMLogDecoder recognizes EVM bridge contract logs. It returns (nil, nil)
// for logs it doesn't know.
type EVMLogDecoder interface {
	DecodeLog(log *types.Log) (bridge.EVMBridgeEvent, error)
}

var (
	ErrUpstreamClosed = errors.New("upstream channel closed")
	ErrNilBatch       = errors.New("nil batch received from upstream")
)

// FatalError stops the orchestrator, the host process is expected to exit.
type FatalError struct {
	Watcher string
	Err     error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s watcher: %v", e.Watcher, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
