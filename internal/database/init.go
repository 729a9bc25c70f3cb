package database

import (
	"context"

	"github.com/Nikhil170404/Tradee/internal/config"
)

// requiredTables are the tables the repositories read and write.
var requiredTables = []string{"backtest_results", "screener_signals"}

// Initialize creates a database connection pool and sanity-checks the schema.
// Missing tables are reported, not fatal, so a fresh database can still be
// pointed at before the schema is created.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, []string, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, table := range requiredTables {
		var exists bool
		err := db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists)
		if err != nil || !exists {
			missing = append(missing, table)
		}
	}
	return db, missing, nil
}
