// Package adapters provides the database adapter implementations used by the SQL engine.
//
// It implements the adapter pattern over pgxpool.Pool, sql.DB and sqlx.DB. All adapters expose the
// same DBAdapter interface for plain statements and the same DBTx interface for statements inside a
// transaction, so the engine works unchanged with any supported connection type. sql.DB covers both
// lib/pq and go-sqlite3 connections.
package adapters
