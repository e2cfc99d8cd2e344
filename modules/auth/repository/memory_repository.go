package repository

import (
	"context"
	"slot-swapper/modules/auth/entity"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryAuthRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]entity.User
	byUsername map[string]uuid.UUID
}

func NewMemoryAuthRepository() *MemoryAuthRepository {
	return &MemoryAuthRepository{
		users:      make(map[uuid.UUID]entity.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (r *MemoryAuthRepository) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	return &user, nil
}

func (r *MemoryAuthRepository) GetUserByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *MemoryAuthRepository) GetUsersByIDs(_ context.Context, ids []uuid.UUID) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *MemoryAuthRepository) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return nil, ErrUsernameTaken
	}

	created := *user
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.users[created.ID] = created
	r.byUsername[created.Username] = created.ID
	return &created, nil
}
