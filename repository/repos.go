package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/bridge-orchestrator/bridge"
	"github.com/omni/bridge-orchestrator/db"
	"github.com/omni/bridge-orchestrator/entity"
	"github.com/omni/bridge-orchestrator/repository/postgres"
)

type Repo struct {
	PendingActions     entity.PendingActionsRepo
	NativeEventCursors entity.NativeEventCursorsRepo
	EVMEventCursors    entity.EVMEventCursorsRepo
}

func NewRepo(db *db.DB) *Repo {
	return &Repo{
		PendingActions:     postgres.NewPendingActionsRepo("pending_actions", db),
		NativeEventCursors: postgres.NewNativeEventCursorsRepo("native_event_cursors", db),
		EVMEventCursors:    postgres.NewEVMEventCursorsRepo("evm_event_cursors", db),
	}
}

// NewPendingAction converts a bridge action into its stored form.
func NewPendingAction(action bridge.Action) (*entity.PendingAction, error) {
	data, err := bridge.MarshalAction(action)
	if err != nil {
		return nil, err
	}
	return &entity.PendingAction{
		Digest:     action.Digest(),
		ActionType: uint8(action.ActionType()),
		ChainID:    uint8(action.ChainID()),
		SeqNum:     entity.Uint64(action.SeqNumber()),
		Data:       string(data),
	}, nil
}

func (r *Repo) InsertPendingActions(ctx context.Context, actions []bridge.Action) error {
	rows := make([]*entity.PendingAction, len(actions))
	for i, action := range actions {
		row, err := NewPendingAction(action)
		if err != nil {
			return err
		}
		rows[i] = row
	}
	return r.PendingActions.Ensure(ctx, rows...)
}

func (r *Repo) RemovePendingAction(ctx context.Context, digest common.Hash) error {
	return r.PendingActions.Remove(ctx, digest)
}

func (r *Repo) GetPendingAction(ctx context.Context, digest common.Hash) (bridge.Action, error) {
	row, err := r.PendingActions.GetByDigest(ctx, digest)
	if err != nil {
		return nil, err
	}
	return bridge.UnmarshalAction([]byte(row.Data))
}

func (r *Repo) GetAllPendingActions(ctx context.Context) (map[common.Hash]bridge.Action, error) {
	rows, err := r.PendingActions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make(map[common.Hash]bridge.Action, len(rows))
	for _, row := range rows {
		action, err := bridge.UnmarshalAction([]byte(row.Data))
		if err != nil {
			return nil, fmt.Errorf("can't decode pending action %s: %w", row.Digest, err)
		}
		res[row.Digest] = action
	}
	return res, nil
}

func (r *Repo) UpdateNativeEventCursor(ctx context.Context, module string, cursor bridge.EventID) error {
	return r.NativeEventCursors.Ensure(ctx, &entity.NativeEventCursor{
		Module:   module,
		TxDigest: cursor.TxDigest,
		EventSeq: entity.Uint64(cursor.EventSeq),
	})
}

func (r *Repo) UpdateEVMEventCursor(ctx context.Context, address common.Address, blockNumber uint64) error {
	return r.EVMEventCursors.Ensure(ctx, &entity.EVMEventCursor{
		Address:     address,
		BlockNumber: entity.Uint64(blockNumber),
	})
}

// GetNativeEventCursors returns cursors in the order of modules, nil for modules without one.
func (r *Repo) GetNativeEventCursors(ctx context.Context, modules []string) ([]*bridge.EventID, error) {
	res := make([]*bridge.EventID, len(modules))
	for i, module := range modules {
		cursor, err := r.NativeEventCursors.GetByModule(ctx, module)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				continue
			}
			return nil, err
		}
		res[i] = &bridge.EventID{TxDigest: cursor.TxDigest, EventSeq: uint64(cursor.EventSeq)}
	}
	return res, nil
}

// GetEVMEventCursors returns cursors in the order of addresses, nil for addresses without one.
func (r *Repo) GetEVMEventCursors(ctx context.Context, addresses []common.Address) ([]*uint64, error) {
	res := make([]*uint64, len(addresses))
	for i, address := range addresses {
		cursor, err := r.EVMEventCursors.GetByAddress(ctx, address)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				continue
			}
			return nil, err
		}
		blockNumber := uint64(cursor.BlockNumber)
		res[i] = &blockNumber
	}
	return res, nil
}
