package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ethereum/go-ethereum/common"

	"github.com/omni/bridge-orchestrator/db"
	"github.com/omni/bridge-orchestrator/entity"
)

var pendingActionColumns = []string{"digest", "action_type", "chain_id", "seq_num", "data", "created_at"}

type pendingActionsRepo basePostgresRepo

func NewPendingActionsRepo(table string, db *db.DB) entity.PendingActionsRepo {
	return (*pendingActionsRepo)(newBasePostgresRepo(table, db))
}

// Ensure inserts all actions in a single statement, already stored digests are left untouched.
func (r *pendingActionsRepo) Ensure(ctx context.Context, actions ...*entity.PendingAction) error {
	if len(actions) == 0 {
		return nil
	}
	builder := r.sb.Insert(r.table).
		Columns("digest", "action_type", "chain_id", "seq_num", "data")
	for _, a := range actions {
		builder = builder.Values(a.Digest, a.ActionType, a.ChainID, a.SeqNum, a.Data)
	}
	q, args, err := builder.
		Suffix("ON CONFLICT (digest) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't insert pending actions: %w", err)
	}
	return nil
}

func (r *pendingActionsRepo) GetByDigest(ctx context.Context, digest common.Hash) (*entity.PendingAction, error) {
	q, args, err := r.sb.Select(pendingActionColumns...).
		From(r.table).
		Where(sq.Eq{"digest": digest}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	action := new(entity.PendingAction)
	err = r.db.GetContext(ctx, action, q, args...)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("can't get pending action by digest: %w", err)
	}
	return action, nil
}

func (r *pendingActionsRepo) FindAll(ctx context.Context) ([]*entity.PendingAction, error) {
	q, args, err := r.sb.Select(pendingActionColumns...).
		From(r.table).
		OrderBy("action_type", "chain_id", "seq_num").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	actions := make([]*entity.PendingAction, 0, 10)
	err = r.db.SelectContext(ctx, &actions, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get pending actions: %w", err)
	}
	return actions, nil
}

func (r *pendingActionsRepo) Remove(ctx context.Context, digest common.Hash) error {
	q, args, err := r.sb.Delete(r.table).
		Where(sq.Eq{"digest": digest}).
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't remove pending action: %w", err)
	}
	return nil
}
