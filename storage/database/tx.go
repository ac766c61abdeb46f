package database

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/agendaestudiantil/backend/core"
)

type txRunner struct {
	db    core.DB
	begin func(ctx context.Context) (core.DBTransactor, error)
}

var (
	_ core.TxRunner  = (*txRunner)(nil) // interface compliance check
	_ core.DBChecker = (*txRunner)(nil)
)

// NewTxRunner returns the transaction runner and DB checker backed by `db`.
func NewTxRunner(db core.DB) *txRunner {
	return &txRunner{
		db: db,
		begin: func(ctx context.Context) (core.DBTransactor, error) {
			tx, err := db.BeginTxx(ctx, nil)
			if err != nil {
				return nil, err
			}
			return tx, nil
		},
	}
}

// WithTx runs fn inside a single transaction: commit when fn returns nil,
// rollback when it returns an error or panics.
func (r *txRunner) WithTx(ctx context.Context, fn func(exec core.DBExecutor) error) (err error) {
	var tx core.DBTransactor
	tx, err = r.begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Wrap(err, fmt.Sprintf("rollback failed: %v", rbErr))
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = errors.Wrap(err, "committing transaction")
		}
	}()

	err = fn(tx)
	return err
}

func (r *txRunner) CheckDB(ctx context.Context) (core.DBStatus, error) {
	var status core.DBStatus
	row := r.db.QueryRowxContext(ctx, "SELECT NOW(), version()")
	if err := row.Scan(&status.Time, &status.Version); err != nil {
		return core.DBStatus{}, errors.Wrap(err, "checking database")
	}
	return status, nil
}
