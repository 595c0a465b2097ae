package sqldb

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration embedded under migrations/ and
// returns the number applied. It is idempotent and must run before the
// HTTP server starts accepting requests.
//
// A goose Provider is used instead of the package-level goose functions so
// concurrent callers (parallel tests) do not share dialect or FS state.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	dialect, err := gooseDialect(db.driver)
	if err != nil {
		return 0, err
	}

	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("sqldb: sub migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db.conn.DB, sub)
	if err != nil {
		return 0, fmt.Errorf("sqldb: creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("sqldb: running migrations: %w", err)
	}
	return len(results), nil
}

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	case DriverPostgres:
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("sqldb: no migration dialect for driver %q", driver)
	}
}
