package service

import (
	"context"
	stderrors "errors"
	"slot-swapper/core/database"
	"slot-swapper/core/errors"
	"slot-swapper/modules/slot/entity"
	"slot-swapper/modules/slot/repository"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newRegistry(t *testing.T) (*SlotRegistry, *repository.MemorySlotRepository) {
	t.Helper()
	repo := repository.NewMemorySlotRepository()
	return NewSlotRegistry(repo, database.NewMemoryTransactor(time.Second)), repo
}

func seedSlot(t *testing.T, repo repository.SlotRepositoryInterface, owner uuid.UUID, status entity.SlotStatus) *entity.Slot {
	t.Helper()
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	slot, err := repo.Create(context.Background(), &entity.Slot{
		OwnerID:   owner,
		Title:     "standup",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	})
	if err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slot
}

func wantCode(t *testing.T, err *errors.AppError, code errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if err.Code != code {
		t.Fatalf("expected %s, got %s (%v)", code, err.Code, err)
	}
}

func TestSetStatus_TransitionTable(t *testing.T) {
	owner := uuid.New()
	cases := []struct {
		from, to entity.SlotStatus
		code     errors.ErrorCode
	}{
		{entity.StatusBusy, entity.StatusSwappable, ""},
		{entity.StatusBusy, entity.StatusBusy, ""},
		{entity.StatusBusy, entity.StatusSwapPending, errors.ErrInvalidTransition},
		{entity.StatusSwappable, entity.StatusSwapPending, ""},
		{entity.StatusSwappable, entity.StatusBusy, ""},
		{entity.StatusSwapPending, entity.StatusSwappable, ""},
		{entity.StatusSwapPending, entity.StatusSwapPending, errors.ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			reg, repo := newRegistry(t)
			slot := seedSlot(t, repo, owner, tc.from)

			got, err := reg.SetStatus(context.Background(), slot.ID, &owner, tc.to)
			if tc.code != "" {
				wantCode(t, err, tc.code)
				stored, _ := repo.GetByID(context.Background(), slot.ID)
				if stored.Status != tc.from {
					t.Errorf("rejected transition changed status to %s", stored.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tc.to {
				t.Errorf("status = %s, want %s", got.Status, tc.to)
			}
		})
	}
}

func TestSetStatus_Errors(t *testing.T) {
	reg, repo := newRegistry(t)
	owner := uuid.New()
	slot := seedSlot(t, repo, owner, entity.StatusBusy)
	ctx := context.Background()

	_, err := reg.SetStatus(ctx, uuid.New(), nil, entity.StatusSwappable)
	wantCode(t, err, errors.ErrNotFound)

	stranger := uuid.New()
	_, err = reg.SetStatus(ctx, slot.ID, &stranger, entity.StatusSwappable)
	wantCode(t, err, errors.ErrNotOwner)

	_, err = reg.SetStatus(ctx, slot.ID, &owner, entity.SlotStatus("LOST"))
	wantCode(t, err, errors.ErrInvalidStatus)
}

func TestSetStatusAsOwner_CannotTouchSwapPending(t *testing.T) {
	reg, repo := newRegistry(t)
	owner := uuid.New()
	ctx := context.Background()

	swappable := seedSlot(t, repo, owner, entity.StatusSwappable)
	_, err := reg.SetStatusAsOwner(ctx, swappable.ID, owner, entity.StatusSwapPending)
	wantCode(t, err, errors.ErrInvalidTransition)

	pending := seedSlot(t, repo, owner, entity.StatusSwapPending)
	_, err = reg.SetStatusAsOwner(ctx, pending.ID, owner, entity.StatusSwappable)
	wantCode(t, err, errors.ErrInvalidTransition)
}

func TestTransferOwnership(t *testing.T) {
	reg, repo := newRegistry(t)
	alice, bob := uuid.New(), uuid.New()
	a := seedSlot(t, repo, alice, entity.StatusSwapPending)
	b := seedSlot(t, repo, bob, entity.StatusSwapPending)

	newA, newB, err := reg.TransferOwnership(context.Background(), a, b)
	if err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if newA.OwnerID != bob || newB.OwnerID != alice {
		t.Errorf("owners not swapped: a=%s b=%s", newA.OwnerID, newB.OwnerID)
	}
	if newA.Status != entity.StatusBusy || newB.Status != entity.StatusBusy {
		t.Errorf("both slots should be BUSY, got %s and %s", newA.Status, newB.Status)
	}
	if newA.Title != a.Title || !newA.StartTime.Equal(a.StartTime) || !newA.EndTime.Equal(a.EndTime) {
		t.Error("transfer must not alter other fields")
	}
}

func TestTransferOwnership_StaleSnapshotWritesNothing(t *testing.T) {
	reg, repo := newRegistry(t)
	alice, bob := uuid.New(), uuid.New()
	a := seedSlot(t, repo, alice, entity.StatusSwapPending)
	b := seedSlot(t, repo, bob, entity.StatusSwapPending)

	// b moves after the caller read it
	if _, err := reg.SetStatus(context.Background(), b.ID, nil, entity.StatusSwappable); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	_, _, err := reg.TransferOwnership(context.Background(), a, b)
	wantCode(t, err, errors.ErrTransactionFailed)

	storedA, _ := repo.GetByID(context.Background(), a.ID)
	if storedA.OwnerID != alice || storedA.Status != entity.StatusSwapPending || storedA.Version != a.Version {
		t.Errorf("slot a was partially modified: %+v", storedA)
	}
}

func TestSetStatus_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	reg, repo := newRegistry(t)
	owner := uuid.New()
	slot := seedSlot(t, repo, owner, entity.StatusSwappable)

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.SetStatus(context.Background(), slot.ID, nil, entity.StatusSwapPending); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if err.Code != errors.ErrInvalidTransition && err.Code != errors.ErrTransactionFailed {
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestSetStatusAsOwner_WaitsForOpenTransaction(t *testing.T) {
	repo := repository.NewMemorySlotRepository()
	tx := database.NewMemoryTransactor(time.Second)
	reg := NewSlotRegistry(repo, tx)
	owner := uuid.New()
	slot := seedSlot(t, repo, owner, entity.StatusSwappable)
	ctx := context.Background()

	written := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := reg.SetStatus(ctx, slot.ID, nil, entity.StatusSwapPending); err != nil {
				return err
			}
			close(written)
			<-release
			return stderrors.New("abort")
		})
	}()
	<-written

	type result struct {
		slot *entity.Slot
		err  *errors.AppError
	}
	ownerDone := make(chan result, 1)
	go func() {
		s, err := reg.SetStatusAsOwner(ctx, slot.ID, owner, entity.StatusBusy)
		ownerDone <- result{s, err}
	}()

	select {
	case r := <-ownerDone:
		t.Fatalf("owner write finished while another transaction was open: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-txDone; err == nil {
		t.Fatal("expected the held transaction to roll back")
	}

	r := <-ownerDone
	if r.err != nil {
		t.Fatalf("SetStatusAsOwner: %v", r.err)
	}
	if r.slot.Status != entity.StatusBusy {
		t.Errorf("expected BUSY, got %s", r.slot.Status)
	}
	stored, _ := repo.GetByID(ctx, slot.ID)
	if stored.Status != entity.StatusBusy {
		t.Errorf("owner write was lost: stored status %s", stored.Status)
	}
}

func TestMemoryRollback_KeepsLaterWrite(t *testing.T) {
	repo := repository.NewMemorySlotRepository()
	tx := database.NewMemoryTransactor(time.Second)
	slot := seedSlot(t, repo, uuid.New(), entity.StatusSwappable)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		pending, err := repo.CompareAndSetStatus(ctx, slot, entity.StatusSwapPending)
		if err != nil {
			return err
		}
		// a write outside the transaction lands on top of the uncommitted one
		if _, err := repo.CompareAndSetStatus(context.Background(), pending, entity.StatusBusy); err != nil {
			return err
		}
		return stderrors.New("abort")
	})
	if err == nil {
		t.Fatal("expected rollback")
	}

	stored, _ := repo.GetByID(context.Background(), slot.ID)
	if stored.Status != entity.StatusBusy {
		t.Errorf("rollback overwrote a newer version: status %s version %d", stored.Status, stored.Version)
	}
}
