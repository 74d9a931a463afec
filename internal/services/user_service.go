package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// ErrInvalidCredentials is returned for both unknown email and wrong
// password, so login failures never reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService handles registration, authentication and profiles.
type UserService struct {
	store store.UserStore
}

func NewUserService(store store.UserStore) *UserService {
	return &UserService{store: store}
}

// Register validates, hashes the password and persists a new user.
func (s *UserService) Register(ctx context.Context, name, email, password string) (core.User, error) {
	u := core.User{
		Name:  name,
		Email: core.NormalizeEmail(email),
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	if err := core.ValidPassword(password); err != nil {
		return core.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	return s.store.InsertUser(ctx, u)
}

// Authenticate checks email and password, returning the user on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	u, err := s.store.FindUserByEmail(ctx, core.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return core.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns a user profile by id.
func (s *UserService) Get(ctx context.Context, id string) (core.User, error) {
	return s.store.FindUserByID(ctx, id)
}

// UpdateProfile replaces name, currency and monthly budget.
func (s *UserService) UpdateProfile(ctx context.Context, id string, u core.User) (core.User, error) {
	if err := core.ValidName(u.Name); err != nil {
		return core.User{}, err
	}
	return s.store.UpdateUserProfile(ctx, id, u)
}
