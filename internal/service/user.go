// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inventory/inventory-api/internal/metrics"
	"github.com/inventory/inventory-api/internal/model"
	"github.com/inventory/inventory-api/internal/repository"
)

// Service errors.
var (
	ErrInvalidEmail = errors.New("email is required")
	ErrEmailTooLong = errors.New("email exceeds 255 characters")
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the persistence the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UserService handles user registry business logic.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
		now:     time.Now,
	}
}

// CreateUser registers a new user with the given email.
// The email is stored exactly as given; uniqueness is case-sensitive.
func (s *UserService) CreateUser(ctx context.Context, email string) (*model.User, error) {
	if err := model.ValidateEmail(email); err != nil {
		if errors.Is(err, model.ErrEmailTooLong) {
			return nil, ErrEmailTooLong
		}
		return nil, ErrInvalidEmail
	}

	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncUserEmailConflict()
			return nil, ErrEmailExists
		}
		s.metrics.IncUserCreateFailed()
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserCreated()
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
