package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kkkkikiki/advert/internal/model"
)

// DBExecutor interface for database operations (can be *sqlx.DB or *sqlx.Tx)
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
}

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

// AdvertisementRepository handles advertisement data operations
type AdvertisementRepository struct{}

// NewAdvertisementRepository creates a new advertisement repository
func NewAdvertisementRepository() *AdvertisementRepository {
	return &AdvertisementRepository{}
}

// Create inserts a new advertisement. The title carries a unique index;
// a duplicate maps to model.ErrTitleExists.
func (r *AdvertisementRepository) Create(db DBExecutor, ad *model.Advertisement) error {
	query := `
		INSERT INTO advertisements (
			id, title, description, image_url, reward_points,
			max_participation_count, remaining_participation_count,
			exposure_start_date, exposure_end_date, qualification_criteria,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	now := time.Now()
	ad.CreatedAt = now
	ad.UpdatedAt = now

	_, err := db.Exec(query,
		ad.ID, ad.Title, ad.Description, ad.ImageURL, ad.RewardPoints,
		ad.MaxParticipationCount, ad.RemainingParticipationCount,
		ad.ExposureStartDate, ad.ExposureEndDate, ad.QualificationCriteria,
		ad.CreatedAt, ad.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrTitleExists
		}
		return fmt.Errorf("failed to create advertisement: %w", err)
	}

	return nil
}

// Get retrieves an advertisement by ID
func (r *AdvertisementRepository) Get(db DBExecutor, id uuid.UUID) (*model.Advertisement, error) {
	query := `
		SELECT id, title, description, image_url, reward_points,
		       max_participation_count, remaining_participation_count,
		       exposure_start_date, exposure_end_date, qualification_criteria,
		       created_at, updated_at
		FROM advertisements
		WHERE id = $1
	`

	var ad model.Advertisement
	err := db.Get(&ad, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrAdvertisementNotFound
		}
		return nil, fmt.Errorf("failed to get advertisement: %w", err)
	}

	return &ad, nil
}

// DecrementRemaining consumes one unit of participation quota. The
// `remaining > 0` guard is the storage-level second line of defense behind
// the participation lock; a miss maps to model.ErrQuotaExhausted.
func (r *AdvertisementRepository) DecrementRemaining(db DBExecutor, id uuid.UUID) error {
	query := `
		UPDATE advertisements
		SET remaining_participation_count = remaining_participation_count - 1,
		    updated_at = $1
		WHERE id = $2 AND remaining_participation_count > 0
	`

	result, err := db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to decrement participation count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.ErrQuotaExhausted
	}

	return nil
}

// ListActive retrieves advertisements currently exposed with quota left,
// highest reward first.
func (r *AdvertisementRepository) ListActive(db DBExecutor, now time.Time, limit, offset int) ([]model.Advertisement, error) {
	query := `
		SELECT id, title, description, image_url, reward_points,
		       max_participation_count, remaining_participation_count,
		       exposure_start_date, exposure_end_date, qualification_criteria,
		       created_at, updated_at
		FROM advertisements
		WHERE exposure_start_date <= $1
		  AND exposure_end_date >= $1
		  AND remaining_participation_count > 0
		ORDER BY reward_points DESC, created_at ASC
		LIMIT $2 OFFSET $3
	`

	ads := []model.Advertisement{}
	if err := db.Select(&ads, query, now, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list active advertisements: %w", err)
	}

	return ads, nil
}
