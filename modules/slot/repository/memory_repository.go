package repository

import (
	"context"
	"slot-swapper/core/database"
	"slot-swapper/core/params"
	"slot-swapper/modules/slot/entity"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySlotRepository keeps slots in a map. Writes made inside a
// database.MemoryTransactor transaction are undone if it rolls back.
type MemorySlotRepository struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]entity.Slot
	now   func() time.Time
}

func NewMemorySlotRepository() *MemorySlotRepository {
	return &MemorySlotRepository{
		slots: make(map[uuid.UUID]entity.Slot),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// put stores slot. On rollback the previous value comes back only if the stored slot is
// still the version written here.
func (r *MemorySlotRepository) put(ctx context.Context, slot entity.Slot) {
	prev, existed := r.slots[slot.ID]
	r.slots[slot.ID] = slot
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		current, ok := r.slots[slot.ID]
		if !ok || current.Version != slot.Version {
			return
		}
		if existed {
			r.slots[slot.ID] = prev
		} else {
			delete(r.slots, slot.ID)
		}
	})
}

func (r *MemorySlotRepository) Create(ctx context.Context, slot *entity.Slot) (*entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *slot
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := r.now()
	created.Version = 1
	created.CreatedAt = now
	created.UpdatedAt = now
	r.put(ctx, created)
	return &created, nil
}

func (r *MemorySlotRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r *MemorySlotRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Slot, 0, len(ids))
	for _, id := range ids {
		if slot, ok := r.slots[id]; ok {
			out = append(out, slot)
		}
	}
	return out, nil
}

func sortByStart(slots []entity.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].ID.String() < slots[j].ID.String()
	})
}

func (r *MemorySlotRepository) ListByOwner(_ context.Context, ownerID uuid.UUID, params params.QueryParams) (*entity.PaginatedSlotEntity, error) {
	r.mu.RLock()
	matched := make([]entity.Slot, 0)
	search := strings.ToLower(params.Search)
	for _, slot := range r.slots {
		if slot.OwnerID != ownerID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(slot.Title), search) {
			continue
		}
		matched = append(matched, slot)
	}
	r.mu.RUnlock()

	sortByStart(matched)

	start := params.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &entity.PaginatedSlotEntity{
		Items:      matched[start:end],
		TotalItems: len(matched),
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *MemorySlotRepository) ListSwappable(_ context.Context, excludingOwner uuid.UUID) ([]entity.Slot, error) {
	r.mu.RLock()
	out := make([]entity.Slot, 0)
	for _, slot := range r.slots {
		if slot.Status == entity.StatusSwappable && slot.OwnerID != excludingOwner {
			out = append(out, slot)
		}
	}
	r.mu.RUnlock()

	sortByStart(out)
	return out, nil
}

// cas applies mutate to the stored slot if it still matches the snapshot.
func (r *MemorySlotRepository) cas(ctx context.Context, snapshot *entity.Slot, match func(current entity.Slot) bool, mutate func(s *entity.Slot)) (*entity.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slots[snapshot.ID]
	if !ok || current.Version != snapshot.Version || !match(current) {
		return nil, database.ErrConflict
	}

	mutate(&current)
	current.Version++
	current.UpdatedAt = r.now()
	r.put(ctx, current)
	return &current, nil
}

func (r *MemorySlotRepository) UpdateDetails(ctx context.Context, snapshot *entity.Slot, title string, start, end time.Time) (*entity.Slot, error) {
	return r.cas(ctx, snapshot,
		func(entity.Slot) bool { return true },
		func(s *entity.Slot) {
			s.Title = title
			s.StartTime = start
			s.EndTime = end
		})
}

func (r *MemorySlotRepository) CompareAndSetStatus(ctx context.Context, snapshot *entity.Slot, status entity.SlotStatus) (*entity.Slot, error) {
	return r.cas(ctx, snapshot,
		func(current entity.Slot) bool { return current.Status == snapshot.Status },
		func(s *entity.Slot) { s.Status = status })
}

func (r *MemorySlotRepository) CompareAndSetOwner(ctx context.Context, snapshot *entity.Slot, owner uuid.UUID, status entity.SlotStatus) (*entity.Slot, error) {
	return r.cas(ctx, snapshot,
		func(current entity.Slot) bool { return current.OwnerID == snapshot.OwnerID },
		func(s *entity.Slot) {
			s.OwnerID = owner
			s.Status = status
		})
}

func (r *MemorySlotRepository) Delete(ctx context.Context, snapshot *entity.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slots[snapshot.ID]
	if !ok || current.Version != snapshot.Version {
		return database.ErrConflict
	}
	delete(r.slots, snapshot.ID)
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.slots[current.ID]; !ok {
			r.slots[current.ID] = current
		}
	})
	return nil
}
