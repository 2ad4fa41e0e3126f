// Package memory provides an in-memory AuthRepository used for local
// development and tests. Records live only for the process lifetime.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"reuse-gateway/internal/auth/domain/model"
	"reuse-gateway/internal/auth/usecase"

	"github.com/google/uuid"
)

// MemoryAuthRepository implements AuthRepository with a mutex-guarded map
type MemoryAuthRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*model.User
	byID    map[string]*model.User
}

// NewMemoryAuthRepository creates an empty in-memory repository
func NewMemoryAuthRepository() *MemoryAuthRepository {
	return &MemoryAuthRepository{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
	}
}

// CreateUser stores a new credential record
func (r *MemoryAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return usecase.ErrEmailTaken
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byEmail[email] = &stored
	r.byID[user.ID] = &stored
	return nil
}

// GetUserByEmail retrieves a credential record by email
func (r *MemoryAuthRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByID retrieves a credential record by ID
func (r *MemoryAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}
