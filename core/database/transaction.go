package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slot-swapper/core/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrConflict means a compare-and-set lost against a concurrent writer, or the
// store gave up waiting for a lock. Callers may retry.
var ErrConflict = errors.New("database: concurrent modification")

// Transactor runs fn atomically. Repositories called with the ctx handed to fn
// join the transaction; nested calls reuse the outer one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func txFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok
}

func (d *Database) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := d.sqlx.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Translate(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	// Row locks held by a concurrent swap must not stall us; give up and report a conflict.
	if d.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", d.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return Translate(err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("Database:WithinTransaction:Rollback", "error", rbErr)
		}
		return Translate(err)
	}

	if err := tx.Commit(); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate maps Postgres lock, serialization and uniqueness failures onto ErrConflict.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03", // lock_not_available
			"23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
		}
	}
	return err
}
