package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kkkkikiki/advert/internal/model"
)

// UserRepository handles user directory operations
type UserRepository struct{}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Create inserts a new user. Names are unique; a duplicate maps to
// model.ErrUserExists.
func (r *UserRepository) Create(db DBExecutor, user *model.User) error {
	query := `
		INSERT INTO users (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	user.CreatedAt = time.Now()

	if _, err := db.Exec(query, user.ID, user.Name, user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return model.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(db DBExecutor, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, name, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Profile builds the participation view of a user consumed by the
// qualification evaluator.
func (r *UserRepository) Profile(db DBExecutor, userID uuid.UUID) (*model.UserParticipationProfile, error) {
	if _, err := r.Get(db, userID); err != nil {
		return nil, err
	}

	query := `
		SELECT advertisement_id
		FROM participations
		WHERE user_id = $1
	`

	var advertisementIDs []uuid.UUID
	if err := db.Select(&advertisementIDs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load participation history: %w", err)
	}

	profile := &model.UserParticipationProfile{
		UserID:                  userID,
		TotalParticipationCount: len(advertisementIDs),
		Participated:            make(map[uuid.UUID]bool, len(advertisementIDs)),
	}
	for _, id := range advertisementIDs {
		profile.Participated[id] = true
	}

	return profile, nil
}
