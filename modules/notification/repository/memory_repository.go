package repository

import (
	"context"
	"slot-swapper/core/params"
	"slot-swapper/modules/notification/entity"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]entity.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		notifications: make(map[uuid.UUID]entity.Notification),
	}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if _, exists := r.notifications[notification.ID]; exists {
		return nil
	}
	r.notifications[notification.ID] = *notification
	return nil
}

func (r *MemoryNotificationRepository) GetByUserID(_ context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	r.mu.RLock()
	matched := make([]entity.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start := params.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &entity.PaginatedNotificationEntity{
		Items:      matched[start:end],
		TotalItems: len(matched),
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *MemoryNotificationRepository) MarkAsRead(_ context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range ids {
		n, ok := r.notifications[id]
		if !ok || n.UserID != userID {
			continue
		}
		n.IsRead = true
		n.UpdatedAt = now
		r.notifications[id] = n
	}
	return nil
}

func (r *MemoryNotificationRepository) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.UpdatedAt = now
			r.notifications[id] = n
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
