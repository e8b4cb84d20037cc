package repository

import (
	"database/sql"
)

// SQLExecutor is what pinRepository runs its statements on: the pool
// outside a transaction, the *sql.Tx inside one.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var (
	_ SQLExecutor = (*sql.DB)(nil)
	_ SQLExecutor = (*sql.Tx)(nil)
)
