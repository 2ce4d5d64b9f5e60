package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Options configures the connection pool.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to the database named by opts and pings it.
func Open(ctx context.Context, opts Options) (*bun.DB, error) {
	sqldb, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	var db *bun.DB
	switch opts.Driver {
	case DriverPostgres:
		db = bun.NewDB(sqldb, pgdialect.New())
	case DriverSQLite:
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		_ = sqldb.Close()
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}
	return db, nil
}

// CreateSchema creates the catalog tables when missing.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	queries := []*bun.CreateTableQuery{
		db.NewCreateTable().Model((*menuModel)(nil)).IfNotExists(),
		db.NewCreateTable().Model((*submenuModel)(nil)).IfNotExists().
			ForeignKey(`("menu_id") REFERENCES "menus" ("id") ON DELETE CASCADE`),
		db.NewCreateTable().Model((*dishModel)(nil)).IfNotExists().
			ForeignKey(`("menu_id") REFERENCES "menus" ("id") ON DELETE CASCADE`).
			ForeignKey(`("submenu_id") REFERENCES "submenus" ("id") ON DELETE CASCADE`),
	}
	for _, q := range queries {
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	indexes := []*bun.CreateIndexQuery{
		db.NewCreateIndex().Model((*submenuModel)(nil)).Index("submenus_menu_id_idx").Column("menu_id").IfNotExists(),
		db.NewCreateIndex().Model((*dishModel)(nil)).Index("dishes_menu_id_idx").Column("menu_id").IfNotExists(),
		db.NewCreateIndex().Model((*dishModel)(nil)).Index("dishes_submenu_id_idx").Column("submenu_id").IfNotExists(),
	}
	for _, q := range indexes {
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// DropSchema removes the catalog tables.
func DropSchema(ctx context.Context, db bun.IDB) error {
	models := []any{(*dishModel)(nil), (*submenuModel)(nil), (*menuModel)(nil)}
	for _, m := range models {
		if _, err := db.NewDropTable().Model(m).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	return nil
}
