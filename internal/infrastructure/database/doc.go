// Package database provides the SQLite backend used as a local stand-in
// for the analytical warehouse.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Embedded schema migrations mirroring the warehouse tables
//   - Connection lifecycle and health checks
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Warehouse.SQLite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files live in the top-level migrations package and follow the
// YYYYMMDD_HHMMSS_description.{up,down}.sql naming scheme.
package database
