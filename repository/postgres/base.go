package postgres

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/omni/bridge-orchestrator/db"
)

// basePostgresRepo is shared by all repos. Its statement builder carries the bind
// variable format of the configured driver, so the same queries run on postgres and sqlite.
type basePostgresRepo struct {
	table string
	db    *db.DB
	sb    sq.StatementBuilderType
}

func newBasePostgresRepo(table string, db *db.DB) *basePostgresRepo {
	return &basePostgresRepo{
		table: table,
		db:    db,
		sb:    sq.StatementBuilder.PlaceholderFormat(db.Placeholder()),
	}
}
