package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type (
	DBExecutor interface {
		sqlx.ExtContext

		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		PingContext(ctx context.Context) error
		Close() error
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}

	// TxRunner runs fn inside one transaction; repositories receive `exec` as their executor.
	TxRunner interface {
		WithTx(ctx context.Context, fn func(exec DBExecutor) error) error
	}
)

// DBStatus is what the storage layer reports about itself.
type DBStatus struct {
	Time    time.Time `json:"time"`
	Version string    `json:"version"`
}

// DBChecker reports the storage status (used by the /api/test-db probe).
type DBChecker interface {
	CheckDB(ctx context.Context) (DBStatus, error)
}
