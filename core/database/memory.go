package database

import (
	"context"
	"fmt"
	"time"
)

// MemoryTransactor serializes transactions over in-memory repositories. Writes made
// inside a transaction register undo steps with OnRollback; a failed fn replays them
// in reverse order.
type MemoryTransactor struct {
	sem     chan struct{}
	timeout time.Duration
}

func NewMemoryTransactor(timeout time.Duration) *MemoryTransactor {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &MemoryTransactor{
		sem:     make(chan struct{}, 1),
		timeout: timeout,
	}
}

type journal struct {
	undo []func()
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type journalKey struct{}

func (m *MemoryTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case m.sem <- struct{}{}:
	case <-timer.C:
		return fmt.Errorf("%w: transaction lock wait exceeded %s", ErrConflict, m.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-m.sem }()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			j.rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		j.rollback()
		return err
	}
	return nil
}

// OnRollback records undo for the in-memory transaction bound to ctx.
// Outside a transaction it does nothing.
func OnRollback(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

// InTransaction reports whether ctx carries an open transaction of either kind.
func InTransaction(ctx context.Context) bool {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return true
	}
	_, ok := txFromContext(ctx)
	return ok
}
