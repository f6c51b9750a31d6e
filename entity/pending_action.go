package entity

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PendingAction is a bridge action stored until it is executed. Data holds
// the tagged JSON form of the action.
type PendingAction struct {
	Digest     common.Hash `db:"digest"`
	ActionType uint8       `db:"action_type"`
	ChainID    uint8       `db:"chain_id"`
	SeqNum     Uint64      `db:"seq_num"`
	Data       string      `db:"data"`
	CreatedAt  *time.Time  `db:"created_at"`
}

type PendingActionsRepo interface {
	Ensure(ctx context.Context, actions ...*PendingAction) error
	GetByDigest(ctx context.Context, digest common.Hash) (*PendingAction, error)
	FindAll(ctx context.Context) ([]*PendingAction, error)
	Remove(ctx context.Context, digest common.Hash) error
}
