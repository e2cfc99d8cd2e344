package service

import (
	"context"
	stderrors "errors"
	"slot-swapper/core/database"
	"slot-swapper/core/errors"
	"slot-swapper/core/logger"
	"slot-swapper/modules/slot/entity"
	"slot-swapper/modules/slot/repository"

	"github.com/google/uuid"
)

// Registry owns slot records and the legality of their status changes. It is the only
// writer of slot status and ownership.
type Registry interface {
	GetSlot(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError)
	GetSlots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.Slot, error)
	SetStatus(ctx context.Context, id uuid.UUID, expectedOwner *uuid.UUID, status entity.SlotStatus) (*entity.Slot, *errors.AppError)
	SetStatusAsOwner(ctx context.Context, id uuid.UUID, owner uuid.UUID, status entity.SlotStatus) (*entity.Slot, *errors.AppError)
	ListSwappable(ctx context.Context, excludingOwner uuid.UUID) ([]entity.Slot, error)
	TransferOwnership(ctx context.Context, a, b *entity.Slot) (*entity.Slot, *entity.Slot, *errors.AppError)
}

type SlotRegistry struct {
	repo       repository.SlotRepositoryInterface
	transactor database.Transactor
}

func NewSlotRegistry(repo repository.SlotRepositoryInterface, transactor database.Transactor) *SlotRegistry {
	return &SlotRegistry{repo: repo, transactor: transactor}
}

func (r *SlotRegistry) GetSlot(ctx context.Context, id uuid.UUID) (*entity.Slot, *errors.AppError) {
	slot, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get slot", err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "slot not found", nil)
	}
	return slot, nil
}

func (r *SlotRegistry) GetSlots(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.Slot, error) {
	slots, err := r.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]entity.Slot, len(slots))
	for _, s := range slots {
		out[s.ID] = s
	}
	return out, nil
}

func (r *SlotRegistry) ListSwappable(ctx context.Context, excludingOwner uuid.UUID) ([]entity.Slot, error) {
	return r.repo.ListSwappable(ctx, excludingOwner)
}

// SetStatus moves a slot to status when the transition table allows it. A nil
// expectedOwner skips the ownership check. Setting the current status of a slot is a
// no-op except for SWAP_PENDING, which can never be re-entered.
func (r *SlotRegistry) SetStatus(ctx context.Context, id uuid.UUID, expectedOwner *uuid.UUID, status entity.SlotStatus) (*entity.Slot, *errors.AppError) {
	return r.setStatus(ctx, id, expectedOwner, status, nil)
}

// SetStatusAsOwner is the owner-facing variant: owners toggle BUSY and SWAPPABLE only.
// SWAP_PENDING is entered and left through swap negotiation.
func (r *SlotRegistry) SetStatusAsOwner(ctx context.Context, id uuid.UUID, owner uuid.UUID, status entity.SlotStatus) (*entity.Slot, *errors.AppError) {
	return r.setStatus(ctx, id, &owner, status, func(from entity.SlotStatus) *errors.AppError {
		if from == entity.StatusSwapPending || status == entity.StatusSwapPending {
			return errors.NewAppError(errors.ErrInvalidTransition, "slot status SWAP_PENDING is managed by swap requests", nil)
		}
		return nil
	})
}

func (r *SlotRegistry) setStatus(ctx context.Context, id uuid.UUID, expectedOwner *uuid.UUID, status entity.SlotStatus, guard func(from entity.SlotStatus) *errors.AppError) (*entity.Slot, *errors.AppError) {
	if !status.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidStatus, "invalid status", nil)
	}

	var result *entity.Slot
	err := r.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		slot, appErr := r.GetSlot(ctx, id)
		if appErr != nil {
			return appErr
		}
		if expectedOwner != nil && slot.OwnerID != *expectedOwner {
			return errors.NewAppError(errors.ErrNotOwner, "slot is not owned by caller", nil)
		}
		if guard != nil {
			if appErr := guard(slot.Status); appErr != nil {
				return appErr
			}
		}

		switch entity.CheckTransition(slot.Status, status) {
		case entity.TransitionNoop:
			result = slot
			return nil
		case entity.TransitionDenied:
			return errors.NewAppError(errors.ErrInvalidTransition,
				"cannot change slot status from "+string(slot.Status)+" to "+string(status), nil)
		}

		// the write is conditional on the snapshot checked above
		updated, err := r.repo.CompareAndSetStatus(ctx, slot, status)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, conflictOrInternal("SlotRegistry:SetStatus", err)
	}
	return result, nil
}

// TransferOwnership swaps the owners of a and b and sets both BUSY. a and b are the
// snapshots the caller read; if either changed since, nothing is written.
func (r *SlotRegistry) TransferOwnership(ctx context.Context, a, b *entity.Slot) (*entity.Slot, *entity.Slot, *errors.AppError) {
	if a == nil || b == nil || a.ID == b.ID {
		return nil, nil, errors.NewAppError(errors.ErrInvalidInput, "two distinct slots are required", nil)
	}

	var newA, newB *entity.Slot
	err := r.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if newA, err = r.repo.CompareAndSetOwner(ctx, a, b.OwnerID, entity.StatusBusy); err != nil {
			return err
		}
		if newB, err = r.repo.CompareAndSetOwner(ctx, b, a.OwnerID, entity.StatusBusy); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, conflictOrInternal("SlotRegistry:TransferOwnership", err)
	}
	return newA, newB, nil
}

func conflictOrInternal(step string, err error) *errors.AppError {
	if stderrors.Is(err, database.ErrConflict) {
		logger.Info(step+":Conflict", "error", err)
		return errors.NewAppError(errors.ErrTransactionFailed, "slot was modified concurrently, retry", err)
	}
	logger.Error(step+":Error", "error", err)
	return errors.NewAppError(errors.ErrInternalServer, "failed to update slot", err)
}
