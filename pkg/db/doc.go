// Package db opens the relational databases contacts are read from.
//
// PostgreSQL is reached through a small [github.com/jackc/pgx/v5/pgxpool]
// pool with retry on startup, and ad-hoc contact queries run inside a
// read-only transaction so a mistyped --query can never modify data:
//
//	pool, err := db.Connect(ctx, db.Config{ConnectionString: url})
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	err = db.ReadOnly(ctx, pool, func(tx pgx.Tx) error {
//		rows, err := tx.Query(ctx, query)
//		...
//	})
//
// SQLite files are opened with the pure-Go modernc.org/sqlite driver in
// query-only mode:
//
//	conn, err := db.OpenSQLite(ctx, "contacts.db")
//
// Retry behaviour is configured from the environment:
//
//	DATABASE_RETRY_ATTEMPTS - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL - Base retry interval (default: 2s)
package db
