package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kkkkikiki/advert/internal/model"
)

// Store bundles the repositories behind the participation coordinator's
// storage interface. It is the only place where the participation insert and
// the quota decrement are combined; keeping them in one transaction means a
// crash cannot leave a record without a decrement or vice versa.
type Store struct {
	db             *sqlx.DB
	advertisements *AdvertisementRepository
	participations *ParticipationRepository
	users          *UserRepository
}

// NewStore creates a Postgres-backed store
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:             db,
		advertisements: NewAdvertisementRepository(),
		participations: NewParticipationRepository(),
		users:          NewUserRepository(),
	}
}

// GetAdvertisement retrieves an advertisement by ID
func (s *Store) GetAdvertisement(ctx context.Context, id uuid.UUID) (*model.Advertisement, error) {
	return s.advertisements.Get(s.db, id)
}

// HasParticipated reports whether the user already participated in the advertisement
func (s *Store) HasParticipated(ctx context.Context, advertisementID, userID uuid.UUID) (bool, error) {
	return s.participations.Exists(s.db, advertisementID, userID)
}

// UserProfile resolves a user into their participation profile
func (s *Store) UserProfile(ctx context.Context, userID uuid.UUID) (*model.UserParticipationProfile, error) {
	return s.users.Profile(s.db, userID)
}

// CommitParticipation appends the participation record and consumes one unit
// of the advertisement's quota in a single transaction.
func (s *Store) CommitParticipation(ctx context.Context, p *model.Participation) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.participations.Create(tx, p); err != nil {
		return err
	}

	if err := s.advertisements.DecrementRemaining(tx, p.AdvertisementID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit participation: %w", err)
	}

	return nil
}

// History retrieves a user's participation records within the window, oldest first
func (s *Store) History(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]model.Participation, error) {
	return s.participations.ListByUserBetween(s.db, userID, from, to, limit, offset)
}
