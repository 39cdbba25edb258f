package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"muuapp-api/internal/domain"
	"muuapp-api/internal/repository"
	"muuapp-api/internal/validation"
)

// UserService describes user record operations.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	// Get returns the user with its ranches resolved.
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, fullName, email, password string) (*domain.User, error)
	// Delete is idempotent: deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users   repository.UserRepository
	ranches repository.RanchRepository
	hasher  PasswordHasher
}

func NewUserService(users repository.UserRepository, ranches repository.RanchRepository, hasher PasswordHasher) UserService {
	return &userService{
		users:   users,
		ranches: ranches,
		hasher:  hasher,
	}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	out := make([]domain.User, len(users))
	for i := range users {
		out[i] = *sanitizeUser(&users[i])
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError(domain.MsgUserNotFound)
		}
		return nil, domain.InternalError(err)
	}

	ranches, err := s.ranches.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	user.Ranches = ranches
	return sanitizeUser(user), nil
}

func (s *userService) Create(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	if err := (validation.Registration{FullName: fullName, Email: email, Password: password}).Validate(); err != nil {
		return nil, err
	}
	email = validation.NormalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ConflictError(domain.MsgEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.InternalError(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domain.InternalError(err)
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration won the race; the unique index rejected ours
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domain.ConflictError(domain.MsgEmailTaken)
		}
		return nil, domain.InternalError(err)
	}

	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return domain.InternalError(fmt.Errorf("delete user %s: %w", id, err))
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Ranches:   user.Ranches,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
