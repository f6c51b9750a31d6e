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

type nativeEventCursorsRepo basePostgresRepo

func NewNativeEventCursorsRepo(table string, db *db.DB) entity.NativeEventCursorsRepo {
	return (*nativeEventCursorsRepo)(newBasePostgresRepo(table, db))
}

func (r *nativeEventCursorsRepo) Ensure(ctx context.Context, cursor *entity.NativeEventCursor) error {
	q, args, err := r.sb.Insert(r.table).
		Columns("module", "tx_digest", "event_seq").
		Values(cursor.Module, cursor.TxDigest, cursor.EventSeq).
		Suffix("ON CONFLICT (module) DO UPDATE SET updated_at = CURRENT_TIMESTAMP, tx_digest = EXCLUDED.tx_digest, event_seq = EXCLUDED.event_seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't ensure native event cursor: %w", err)
	}
	return nil
}

func (r *nativeEventCursorsRepo) GetByModule(ctx context.Context, module string) (*entity.NativeEventCursor, error) {
	q, args, err := r.sb.Select("module", "tx_digest", "event_seq", "created_at", "updated_at").
		From(r.table).
		Where(sq.Eq{"module": module}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	cursor := new(entity.NativeEventCursor)
	err = r.db.GetContext(ctx, cursor, q, args...)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("can't get native event cursor by module: %w", err)
	}
	return cursor, nil
}

func (r *nativeEventCursorsRepo) FindAll(ctx context.Context) ([]*entity.NativeEventCursor, error) {
	q, args, err := r.sb.Select("module", "tx_digest", "event_seq", "created_at", "updated_at").
		From(r.table).
		OrderBy("module").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	cursors := make([]*entity.NativeEventCursor, 0, 4)
	err = r.db.SelectContext(ctx, &cursors, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get native event cursors: %w", err)
	}
	return cursors, nil
}

type evmEventCursorsRepo basePostgresRepo

func NewEVMEventCursorsRepo(table string, db *db.DB) entity.EVMEventCursorsRepo {
	return (*evmEventCursorsRepo)(newBasePostgresRepo(table, db))
}

func (r *evmEventCursorsRepo) Ensure(ctx context.Context, cursor *entity.EVMEventCursor) error {
	q, args, err := r.sb.Insert(r.table).
		Columns("address", "block_number").
		Values(cursor.Address, cursor.BlockNumber).
		Suffix("ON CONFLICT (address) DO UPDATE SET updated_at = CURRENT_TIMESTAMP, block_number = EXCLUDED.block_number").
		ToSql()
	if err != nil {
		return fmt.Errorf("can't build query: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("can't ensure evm event cursor: %w", err)
	}
	return nil
}

func (r *evmEventCursorsRepo) GetByAddress(ctx context.Context, address common.Address) (*entity.EVMEventCursor, error) {
	q, args, err := r.sb.Select("address", "block_number", "created_at", "updated_at").
		From(r.table).
		Where(sq.Eq{"address": address}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	cursor := new(entity.EVMEventCursor)
	err = r.db.GetContext(ctx, cursor, q, args...)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("can't get evm event cursor by address: %w", err)
	}
	return cursor, nil
}

func (r *evmEventCursorsRepo) FindAll(ctx context.Context) ([]*entity.EVMEventCursor, error) {
	q, args, err := r.sb.Select("address", "block_number", "created_at", "updated_at").
		From(r.table).
		OrderBy("address").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("can't build query: %w", err)
	}
	cursors := make([]*entity.EVMEventCursor, 0, 4)
	err = r.db.SelectContext(ctx, &cursors, q, args...)
	if err != nil {
		return nil, fmt.Errorf("can't get evm event cursors: %w", err)
	}
	return cursors, nil
}
