// Package sqlengine implements the library storage on SQL databases.
//
// Statements are built with goqu and executed fully interpolated through one of three adapters:
// a pgx pool (optionally with a read replica), a database/sql DB (lib/pq or go-sqlite3) or a sqlx DB.
// Postgres and SQLite share one schema, applied with MigrateUp from embedded migration files.
//
// Invariants that must hold under concurrency are pushed into the database:
//   - copies are taken and returned with conditional updates that never leave 0..totalCopies
//   - a partial unique index allows one active loan per user and book
//   - a loan is closed only if it is still active, so a double return changes nothing
//   - find-or-create of authors and categories inserts with ON CONFLICT DO NOTHING, then selects
//
// Constraint violations of all drivers are mapped to the sentinels of package librarystore.
package sqlengine
