package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"slot-swapper/core/constants"
	"slot-swapper/core/database"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/core/logger"
	"slot-swapper/modules/notification/channel"
	slotEntity "slot-swapper/modules/slot/entity"
	slotService "slot-swapper/modules/slot/service"
	"slot-swapper/modules/swap/entity"
	"slot-swapper/modules/swap/repository"

	"github.com/google/uuid"
)

// Notifier delivers an event to a user after the state change it describes has committed.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, evt channel.Event)
}

// Engine runs swap negotiation. Slot status and ownership are only changed through the
// slot registry; every command is one transaction and notifies only after it commits.
type Engine struct {
	repo       repository.SwapRepositoryInterface
	slots      slotService.Registry
	transactor database.Transactor
	notifier   Notifier
}

func NewEngine(repo repository.SwapRepositoryInterface, slots slotService.Registry, transactor database.Transactor, notifier Notifier) *Engine {
	return &Engine{
		repo:       repo,
		slots:      slots,
		transactor: transactor,
		notifier:   notifier,
	}
}

func txFailed(err error) *errors.AppError {
	return errors.NewAppError(errors.ErrTransactionFailed, "swap could not be completed, retry", err)
}

// retryable reports a slot that drifted from its request as TransactionFailed. Internal
// errors pass through.
func retryable(appErr *errors.AppError) *errors.AppError {
	if appErr.Code == errors.ErrInternalServer || appErr.Code == errors.ErrTransactionFailed {
		return appErr
	}
	return txFailed(appErr)
}

// settle turns the error a transaction returned into the caller-facing AppError.
func settle(step string, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, database.ErrConflict) {
		logger.Info(step+":Conflict", "error", err)
		return txFailed(err)
	}
	logger.Error(step+":Error", "error", err)
	return errors.NewAppError(errors.ErrInternalServer, "internal server error", err)
}

// Propose offers mySlotID in exchange for theirSlotID. On success both slots are
// SWAP_PENDING and the returned request is PENDING.
func (e *Engine) Propose(ctx context.Context, requester *coreEntity.Identity, mySlotID, theirSlotID uuid.UUID) (*entity.SwapRequest, *errors.AppError) {
	if mySlotID == uuid.Nil || theirSlotID == uuid.Nil {
		return nil, errors.NewAppError(errors.ErrMissingInput, "both slot ids are required", nil)
	}

	notMine := errors.NewAppError(errors.ErrNotOwnedOrNotSwappable, "your slot is not swappable", nil)

	mine, appErr := e.slots.GetSlot(ctx, mySlotID)
	if appErr != nil {
		if appErr.Code == errors.ErrNotFound {
			return nil, notMine
		}
		return nil, appErr
	}
	if mine.OwnerID != requester.ID || mine.Status != slotEntity.StatusSwappable {
		return nil, notMine
	}

	theirs, appErr := e.slots.GetSlot(ctx, theirSlotID)
	if appErr != nil {
		return nil, appErr
	}
	if theirs.OwnerID == requester.ID {
		return nil, errors.NewAppError(errors.ErrSelfSwapForbidden, "cannot swap with your own slot", nil)
	}
	if theirs.Status != slotEntity.StatusSwappable {
		return nil, errors.NewAppError(errors.ErrTargetNotSwappable, "target slot is not swappable", nil)
	}

	var created *entity.SwapRequest
	err := e.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, appErr := e.slots.SetStatus(ctx, mine.ID, &requester.ID, slotEntity.StatusSwapPending); appErr != nil {
			switch appErr.Code {
			case errors.ErrInvalidTransition, errors.ErrNotOwner, errors.ErrNotFound:
				return notMine
			}
			return appErr
		}

		if _, appErr := e.slots.SetStatus(ctx, theirs.ID, &theirs.OwnerID, slotEntity.StatusSwapPending); appErr != nil {
			switch appErr.Code {
			case errors.ErrInvalidTransition:
				return errors.NewAppError(errors.ErrTargetNotSwappable, "target slot is not swappable", nil)
			case errors.ErrNotOwner, errors.ErrNotFound:
				return txFailed(appErr)
			}
			return appErr
		}

		var err error
		created, err = e.repo.Create(ctx, &entity.SwapRequest{
			RequesterID:     requester.ID,
			RecipientID:     theirs.OwnerID,
			RequesterSlotID: mine.ID,
			RecipientSlotID: theirs.ID,
			Status:          entity.SwapPending,
		})
		return err
	})
	if err != nil {
		return nil, settle("SwapEngine:Propose", err)
	}

	logger.Info("SwapEngine:Propose:Success",
		"swap_request_id", created.ID,
		"requester_id", requester.ID,
		"recipient_id", created.RecipientID,
	)

	e.notifier.Notify(ctx, created.RecipientID, channel.NewEvent(
		constants.EventSwapRequestReceived,
		fmt.Sprintf("%s wants to swap slots with you!", requester.Username),
		map[string]any{
			"swap_request_id": created.ID.String(),
			"requester_slot":  mine.Title,
			"recipient_slot":  theirs.Title,
		},
	))
	return created, nil
}

// Respond accepts or rejects a PENDING request addressed to responder. A request that is
// missing, already answered, or addressed to someone else is reported as not found.
func (e *Engine) Respond(ctx context.Context, responder *coreEntity.Identity, requestID uuid.UUID, accept *bool) (*entity.SwapRequest, *errors.AppError) {
	if accept == nil {
		return nil, errors.NewAppError(errors.ErrMissingInput, "accept is required", nil)
	}

	notFound := errors.NewAppError(errors.ErrNotFound, "swap request not found", nil)
	target := entity.SwapRejected
	if *accept {
		target = entity.SwapAccepted
	}

	var answered *entity.SwapRequest
	err := e.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := e.repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil || req.Status != entity.SwapPending || req.RecipientID != responder.ID {
			return notFound
		}

		answered, err = e.repo.CompareAndSetStatus(ctx, req.ID, entity.SwapPending, target)
		if err != nil {
			if stderrors.Is(err, repository.ErrStatusMismatch) {
				// answered concurrently
				return notFound
			}
			return err
		}

		slots, err := e.slots.GetSlots(ctx, req.SlotIDs())
		if err != nil {
			return err
		}
		offered, okOffered := slots[req.RequesterSlotID]
		wanted, okWanted := slots[req.RecipientSlotID]
		if !okOffered || !okWanted {
			return txFailed(fmt.Errorf("swap request %s references a missing slot", req.ID))
		}

		if *accept {
			if offered.OwnerID != req.RequesterID || wanted.OwnerID != req.RecipientID ||
				offered.Status != slotEntity.StatusSwapPending || wanted.Status != slotEntity.StatusSwapPending {
				return txFailed(fmt.Errorf("swap request %s no longer matches its slots", req.ID))
			}
			if _, _, appErr := e.slots.TransferOwnership(ctx, &offered, &wanted); appErr != nil {
				return appErr
			}
			return nil
		}

		if _, appErr := e.slots.SetStatus(ctx, offered.ID, &req.RequesterID, slotEntity.StatusSwappable); appErr != nil {
			return retryable(appErr)
		}
		if _, appErr := e.slots.SetStatus(ctx, wanted.ID, &req.RecipientID, slotEntity.StatusSwappable); appErr != nil {
			return retryable(appErr)
		}
		return nil
	})
	if err != nil {
		return nil, settle("SwapEngine:Respond", err)
	}

	logger.Info("SwapEngine:Respond:Success",
		"swap_request_id", answered.ID,
		"responder_id", responder.ID,
		"status", answered.Status,
	)

	evt := channel.NewEvent(
		constants.EventSwapRequestRejected,
		fmt.Sprintf("%s rejected your swap request.", responder.Username),
		map[string]any{"swap_request_id": answered.ID.String()},
	)
	if *accept {
		evt = channel.NewEvent(
			constants.EventSwapRequestAccepted,
			fmt.Sprintf("%s accepted your swap request!", responder.Username),
			map[string]any{"swap_request_id": answered.ID.String()},
		)
	}
	e.notifier.Notify(ctx, answered.RequesterID, evt)

	return answered, nil
}

// ListForUser returns PENDING requests addressed to user and every request user made.
func (e *Engine) ListForUser(ctx context.Context, user *coreEntity.Identity) (incoming, outgoing []entity.SwapRequest, appErr *errors.AppError) {
	incoming, err := e.repo.ListIncoming(ctx, user.ID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to list swap requests", err)
	}
	outgoing, err = e.repo.ListOutgoing(ctx, user.ID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to list swap requests", err)
	}
	return incoming, outgoing, nil
}
