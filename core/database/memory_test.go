package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryTransactor_RollbackReplaysUndoInReverse(t *testing.T) {
	tx := NewMemoryTransactor(time.Second)
	var order []int
	state := 0

	boom := errors.New("boom")
	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		state = 1
		OnRollback(ctx, func() { order = append(order, 1); state = 0 })
		state = 2
		OnRollback(ctx, func() { order = append(order, 2); state = 1 })
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if state != 0 {
		t.Errorf("expected state restored to 0, got %d", state)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("expected undo order [2 1], got %v", order)
	}
}

func TestMemoryTransactor_CommitKeepsWrites(t *testing.T) {
	tx := NewMemoryTransactor(time.Second)
	state := 0

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		state = 5
		OnRollback(ctx, func() { state = 0 })
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != 5 {
		t.Errorf("expected 5, got %d", state)
	}
}

func TestMemoryTransactor_NestedJoinsOuter(t *testing.T) {
	tx := NewMemoryTransactor(50 * time.Millisecond)
	state := 0

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := tx.WithinTransaction(ctx, func(inner context.Context) error {
			state = 1
			OnRollback(inner, func() { state = 0 })
			return nil
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if state != 0 {
		t.Errorf("inner write should be undone by outer rollback, got %d", state)
	}
}

func TestMemoryTransactor_LockWaitFailsFast(t *testing.T) {
	tx := NewMemoryTransactor(20 * time.Millisecond)
	hold := make(chan struct{})
	entered := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
			close(entered)
			<-hold
			return nil
		})
	}()

	<-entered
	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error { return nil })
	close(hold)
	wg.Wait()

	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestOnRollback_OutsideTransactionIsNoop(t *testing.T) {
	called := false
	OnRollback(context.Background(), func() { called = true })
	if called {
		t.Error("undo must not run outside a transaction")
	}
	if InTransaction(context.Background()) {
		t.Error("background context is not in a transaction")
	}
}
