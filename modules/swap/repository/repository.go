package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slot-swapper/core/database"
	"slot-swapper/core/logger"
	"slot-swapper/modules/swap/entity"

	"github.com/google/uuid"
)

// ErrStatusMismatch is returned by CompareAndSetStatus when no request matched the
// expected status. It is also a database.ErrConflict.
var ErrStatusMismatch = fmt.Errorf("%w: swap request status changed", database.ErrConflict)

// SwapRepositoryInterface stores swap requests. Create fails with database.ErrConflict
// when either slot already has a PENDING request. CompareAndSetStatus fails with
// ErrStatusMismatch when the request is no longer in the expected status, and with a
// plain database.ErrConflict when the store gave up on a lock.
type SwapRepositoryInterface interface {
	Create(ctx context.Context, req *entity.SwapRequest) (*entity.SwapRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error)
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to entity.SwapStatus) (*entity.SwapRequest, error)
	ListIncoming(ctx context.Context, recipientID uuid.UUID) ([]entity.SwapRequest, error)
	ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]entity.SwapRequest, error)
}

type SwapRepository struct {
	DB database.IDatabase
}

func NewSwapRepository(db database.IDatabase) *SwapRepository {
	return &SwapRepository{DB: db}
}

const swapColumns = `id, requester_id, recipient_id, requester_slot_id, recipient_slot_id, status, created_at, updated_at`

func (r *SwapRepository) Create(ctx context.Context, req *entity.SwapRequest) (*entity.SwapRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	query := `
		INSERT INTO swap_requests (id, requester_id, recipient_id, requester_slot_id, recipient_slot_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + swapColumns

	var created entity.SwapRequest
	err := r.DB.GetContext(ctx, &created, query,
		req.ID, req.RequesterID, req.RecipientID, req.RequesterSlotID, req.RecipientSlotID, req.Status)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			logger.Info("SwapRepository:Create:Conflict", "requester_slot_id", req.RequesterSlotID, "recipient_slot_id", req.RecipientSlotID)
			return nil, err
		}
		logger.Error("SwapRepository:Create:Error", "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	var req entity.SwapRequest
	err := r.DB.GetContext(ctx, &req, `SELECT `+swapColumns+` FROM swap_requests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("SwapRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &req, nil
}

func (r *SwapRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to entity.SwapStatus) (*entity.SwapRequest, error) {
	query := `
		UPDATE swap_requests SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + swapColumns

	var updated entity.SwapRequest
	err := r.DB.GetContext(ctx, &updated, query, id, from, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusMismatch
		}
		logger.Error("SwapRepository:CompareAndSetStatus:Error", "error", err)
		return nil, err
	}
	return &updated, nil
}

func (r *SwapRepository) ListIncoming(ctx context.Context, recipientID uuid.UUID) ([]entity.SwapRequest, error) {
	requests := []entity.SwapRequest{}
	query := `SELECT ` + swapColumns + ` FROM swap_requests
		WHERE recipient_id = $1 AND status = $2
		ORDER BY created_at DESC`
	if err := r.DB.SelectContext(ctx, &requests, query, recipientID, entity.SwapPending); err != nil {
		logger.Error("SwapRepository:ListIncoming:Error", "error", err)
		return nil, err
	}
	return requests, nil
}

func (r *SwapRepository) ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]entity.SwapRequest, error) {
	requests := []entity.SwapRequest{}
	query := `SELECT ` + swapColumns + ` FROM swap_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC`
	if err := r.DB.SelectContext(ctx, &requests, query, requesterID); err != nil {
		logger.Error("SwapRepository:ListOutgoing:Error", "error", err)
		return nil, err
	}
	return requests, nil
}
