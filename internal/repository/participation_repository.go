package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kkkkikiki/advert/internal/model"
)

// ParticipationRepository handles participation ledger operations. The
// ledger is append-only; rows are never updated or deleted here.
type ParticipationRepository struct{}

// NewParticipationRepository creates a new participation repository
func NewParticipationRepository() *ParticipationRepository {
	return &ParticipationRepository{}
}

// Exists reports whether the user already participated in the advertisement
func (r *ParticipationRepository) Exists(db DBExecutor, advertisementID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participations
			WHERE advertisement_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := db.Get(&exists, query, advertisementID, userID); err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}

	return exists, nil
}

// Create appends a participation record. The (advertisement_id, user_id)
// unique index backs up the coordinator's duplicate check; a violation maps
// to model.ErrAlreadyParticipated.
func (r *ParticipationRepository) Create(db DBExecutor, p *model.Participation) error {
	query := `
		INSERT INTO participations (id, advertisement_id, user_id, participated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := db.Exec(query, p.ID, p.AdvertisementID, p.UserID, p.ParticipatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyParticipated
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}

	return nil
}

// ListByUserBetween retrieves a user's participation history within the
// given window, oldest first.
func (r *ParticipationRepository) ListByUserBetween(db DBExecutor, userID uuid.UUID, from, to time.Time, limit, offset int) ([]model.Participation, error) {
	query := `
		SELECT id, advertisement_id, user_id, participated_at
		FROM participations
		WHERE user_id = $1
		  AND participated_at >= $2
		  AND participated_at <= $3
		ORDER BY participated_at ASC
		LIMIT $4 OFFSET $5
	`

	participations := []model.Participation{}
	if err := db.Select(&participations, query, userID, from, to, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	return participations, nil
}
