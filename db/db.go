package db

//nolint:golint,revive
import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/omni/bridge-orchestrator/config"
)

//go:embed migrations
var migrations embed.FS

type DB struct {
	cfg *config.DBConfig
	db  *sqlx.DB
}

func (db *DB) Migrate() error {
	src, err := iofs.New(migrations, "migrations/"+db.cfg.Driver)
	if err != nil {
		return fmt.Errorf("can't open %s migrations: %w", db.cfg.Driver, err)
	}
	var m *migrate.Migrate
	if db.cfg.Driver == config.DriverSQLite {
		driver, err2 := migratesqlite3.WithInstance(db.db.DB, &migratesqlite3.Config{})
		if err2 != nil {
			return fmt.Errorf("can't init sqlite3 migration driver: %w", err2)
		}
		// the driver shares the connection, closing it would close the database
		m, err = migrate.NewWithInstance("iofs", src, config.DriverSQLite, driver)
	} else {
		m, err = migrate.NewWithSourceInstance("iofs", src, db.dbURL("pgx"))
		if m != nil {
			defer m.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("can't connect to %s database: %w", db.cfg.Driver, err)
	}
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("can't apply %s database migrations: %w", db.cfg.Driver, err)
	}
	return nil
}

func (db *DB) dbURL(prefix string) string {
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", prefix, db.cfg.User, db.cfg.Password, db.cfg.Host, db.cfg.Port, db.cfg.DB)
}

func NewDB(cfg *config.DBConfig) (*DB, error) {
	db := &DB{
		cfg: cfg,
	}
	var conn *sqlx.DB
	var err error
	switch cfg.Driver {
	case config.DriverSQLite:
		conn, err = sqlx.ConnectContext(context.Background(), "sqlite3", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("can't open sqlite3 database %s: %w", cfg.Path, err)
		}
		// every connection to :memory: is a separate database
		conn.SetMaxOpenConns(1)
	case config.DriverPostgres:
		conn, err = sqlx.ConnectContext(context.Background(), "pgx", db.dbURL("postgres"))
		if err != nil {
			return nil, fmt.Errorf("can't connect to postgres database: %w", err)
		}
		conn.SetMaxIdleConns(3)
		conn.SetMaxOpenConns(10)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, cfg.Driver)
	}
	db.db = conn
	return db, nil
}

func ConnectToDBAndMigrate(cfg *config.DBConfig) (*DB, error) {
	db, err := NewDB(cfg)
	if err != nil {
		return nil, err
	}
	err = db.Migrate()
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Placeholder returns the bind variable format of the underlying driver.
func (db *DB) Placeholder() sq.PlaceholderFormat {
	if db.cfg.Driver == config.DriverSQLite {
		return sq.Question
	}
	return sq.Dollar
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) PingContext(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer db.observeDuration()()
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer db.observeDuration()()
	return translateError(db.db.GetContext(ctx, dest, query, args...))
}

func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer db.observeDuration()()
	return db.db.SelectContext(ctx, dest, query, args...)
}
