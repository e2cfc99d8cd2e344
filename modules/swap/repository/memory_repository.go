package repository

import (
	"context"
	"slot-swapper/core/database"
	"slot-swapper/modules/swap/entity"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySwapRepository mirrors the Postgres constraints: one PENDING request per slot
// on either side.
type MemorySwapRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]entity.SwapRequest
	now      func() time.Time
}

func NewMemorySwapRepository() *MemorySwapRepository {
	return &MemorySwapRepository{
		requests: make(map[uuid.UUID]entity.SwapRequest),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemorySwapRepository) put(ctx context.Context, req entity.SwapRequest) {
	prev, existed := r.requests[req.ID]
	r.requests[req.ID] = req
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if existed {
			r.requests[req.ID] = prev
		} else {
			delete(r.requests, req.ID)
		}
	})
}

func (r *MemorySwapRepository) Create(ctx context.Context, req *entity.SwapRequest) (*entity.SwapRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.requests {
		if existing.Status != entity.SwapPending {
			continue
		}
		if existing.RequesterSlotID == req.RequesterSlotID || existing.RecipientSlotID == req.RecipientSlotID ||
			existing.RequesterSlotID == req.RecipientSlotID || existing.RecipientSlotID == req.RequesterSlotID {
			return nil, database.ErrConflict
		}
	}

	created := *req
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := r.now()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.put(ctx, created)
	return &created, nil
}

func (r *MemorySwapRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *MemorySwapRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to entity.SwapStatus) (*entity.SwapRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return nil, ErrStatusMismatch
	}
	req.Status = to
	req.UpdatedAt = r.now()
	r.put(ctx, req)
	return &req, nil
}

func (r *MemorySwapRepository) list(match func(entity.SwapRequest) bool) []entity.SwapRequest {
	r.mu.RLock()
	out := make([]entity.SwapRequest, 0)
	for _, req := range r.requests {
		if match(req) {
			out = append(out, req)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *MemorySwapRepository) ListIncoming(_ context.Context, recipientID uuid.UUID) ([]entity.SwapRequest, error) {
	return r.list(func(req entity.SwapRequest) bool {
		return req.RecipientID == recipientID && req.Status == entity.SwapPending
	}), nil
}

func (r *MemorySwapRepository) ListOutgoing(_ context.Context, requesterID uuid.UUID) ([]entity.SwapRequest, error) {
	return r.list(func(req entity.SwapRequest) bool {
		return req.RequesterID == requesterID
	}), nil
}

// All returns every stored request.
func (r *MemorySwapRepository) All() []entity.SwapRequest {
	return r.list(func(entity.SwapRequest) bool { return true })
}
