package config

import "fmt"

// SQLiteDSN returns a go-sqlite3 DSN for the database file at path with foreign keys enforced,
// WAL journaling and immediate write transactions, so that concurrent writers queue up on BEGIN.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL", path)
}

// PostgresDSN returns a libpq style URL.
func PostgresDSN(user, password, host string, port int, database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", user, password, host, port, database)
}
