// Package memory provides in-memory repository implementations for local
// development and tests. They mirror the behaviour of the postgres adapter,
// including the domain errors it returns.
package memory

import (
	"context"
	"sync"

	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

type userRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]domain.User
}

func NewUserRepository() interfaces.UserRepository {
	return &userRepository{nextID: 1, users: make(map[int]domain.User)}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.Conflictf("Email already registered")
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.NotFoundf("User not found")
}

func (r *userRepository) FindByID(_ context.Context, id int) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.NotFoundf("User not found")
	}
	u := user
	return &u, nil
}
