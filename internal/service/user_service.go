package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kkkkikiki/advert/internal/model"
	"github.com/kkkkikiki/advert/internal/repository"
)

// UserService is the minimal user directory.
type UserService struct {
	db    *sqlx.DB
	users *repository.UserRepository
}

// NewUserService creates a new UserService instance
func NewUserService(db *sqlx.DB) *UserService {
	return &UserService{
		db:    db,
		users: repository.NewUserRepository(),
	}
}

// Create registers a new user with a unique name.
func (s *UserService) Create(ctx context.Context, name string) (*model.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrInvalidUser)
	}

	user := &model.User{
		ID:   uuid.New(),
		Name: name,
	}
	if err := s.users.Create(s.db, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.Get(s.db, id)
}
