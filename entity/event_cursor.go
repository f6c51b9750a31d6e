package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type NativeEventCursor struct {
	Module    string      `db:"module"`
	TxDigest  common.Hash `db:"tx_digest"`
	EventSeq  Uint64      `db:"event_seq"`
	CreatedAt *time.Time  `db:"created_at"`
	UpdatedAt *time.Time  `db:"updated_at"`
}

type NativeEventCursorsRepo interface {
	Ensure(ctx context.Context, cursor *NativeEventCursor) error
	GetByModule(ctx context.Context, module string) (*NativeEventCursor, error)
	FindAll(ctx context.Context) ([]*NativeEventCursor, error)
}

type EVMEventCursor struct {
	Address     common.Address `db:"address"`
	BlockNumber Uint64         `db:"block_number"`
	CreatedAt   *time.Time     `db:"created_at"`
	UpdatedAt   *time.Time     `db:"updated_at"`
}

type EVMEventCursorsRepo interface {
	Ensure(ctx context.Context, cursor *EVMEventCursor) error
	GetByAddress(ctx context.Context, address common.Address) (*EVMEventCursor, error)
	FindAll(ctx context.Context) ([]*EVMEventCursor, error)
}
