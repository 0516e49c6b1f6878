// Package localstore persists small pieces of client state (the refresh
// token and cached identity) in a local SQLite database so a session can be
// resumed silently on the next start.
package localstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Keys under which session state is cached.
const (
	KeyRefreshToken = "refresh_token"
	KeyUserID       = "user_id"
	KeyEmail        = "email"
)

// Repository is a string-keyed byte store. Get returns (nil, nil) for
// missing keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Open opens (creating if needed) the local database at dsn and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}
