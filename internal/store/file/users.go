package file

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// InsertUser adds a new user, rejecting duplicate emails. The email is
// assumed to be normalized by the caller.
func (s *Store) InsertUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return core.User{}, store.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Currency == "" {
		u.Currency = core.DefaultCurrency
	}

	next := append(append([]core.User(nil), s.users...), u)
	if err := s.writeCollection(usersFile, next); err != nil {
		return core.User{}, err
	}
	s.users = next
	return u, nil
}

func (s *Store) FindUserByID(_ context.Context, id string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

// UpdateUserProfile replaces name, currency and monthly budget.
func (s *Store) UpdateUserProfile(_ context.Context, id string, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.users {
		if s.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.User{}, store.ErrNotFound
	}

	updated := s.users[idx]
	updated.Name = u.Name
	updated.Currency = u.Currency
	updated.MonthlyBudget = u.MonthlyBudget
	updated.UpdatedAt = time.Now().UTC()

	next := append([]core.User(nil), s.users...)
	next[idx] = updated
	if err := s.writeCollection(usersFile, next); err != nil {
		return core.User{}, err
	}
	s.users = next
	return updated, nil
}
