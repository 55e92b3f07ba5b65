package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kkkkikiki/advert/internal/model"
	"github.com/kkkkikiki/advert/internal/repository"
)

// CreateAdvertisementInput carries the fields of a new advertisement.
type CreateAdvertisementInput struct {
	Title                 string
	Description           string
	ImageURL              string
	RewardPoints          int32
	MaxParticipationCount int32
	ExposureStartDate     time.Time
	ExposureEndDate       time.Time
	QualificationCriteria *string
}

// defaultListPageSize is the active-listing page size when none is given.
const defaultListPageSize = 10

// AdvertisementService manages advertisement creation and listing. The
// remaining participation count is written here exactly once, at creation;
// afterwards only the participation coordinator may touch it.
type AdvertisementService struct {
	db             *sqlx.DB
	advertisements *repository.AdvertisementRepository
}

// NewAdvertisementService creates a new AdvertisementService instance
func NewAdvertisementService(db *sqlx.DB) *AdvertisementService {
	return &AdvertisementService{
		db:             db,
		advertisements: repository.NewAdvertisementRepository(),
	}
}

// Create validates and stores a new advertisement with its full quota.
func (s *AdvertisementService) Create(ctx context.Context, in CreateAdvertisementInput) (*model.Advertisement, error) {
	if err := validateAdvertisementInput(in); err != nil {
		return nil, err
	}

	ad := &model.Advertisement{
		ID:                          uuid.New(),
		Title:                       in.Title,
		Description:                 in.Description,
		ImageURL:                    in.ImageURL,
		RewardPoints:                in.RewardPoints,
		MaxParticipationCount:       in.MaxParticipationCount,
		RemainingParticipationCount: in.MaxParticipationCount,
		ExposureStartDate:           in.ExposureStartDate,
		ExposureEndDate:             in.ExposureEndDate,
		QualificationCriteria:       in.QualificationCriteria,
	}

	if err := s.advertisements.Create(s.db, ad); err != nil {
		return nil, err
	}

	return ad, nil
}

// ListActive retrieves advertisements currently exposed with remaining
// quota, highest reward first.
func (s *AdvertisementService) ListActive(ctx context.Context, page, size int) ([]model.Advertisement, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultListPageSize
	}

	return s.advertisements.ListActive(s.db, time.Now(), size, page*size)
}

func validateAdvertisementInput(in CreateAdvertisementInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", model.ErrInvalidAdvertisement)
	}
	if in.RewardPoints <= 0 {
		return fmt.Errorf("%w: reward points must be positive", model.ErrInvalidAdvertisement)
	}
	if in.MaxParticipationCount <= 0 {
		return fmt.Errorf("%w: max participation count must be positive", model.ErrInvalidAdvertisement)
	}
	if in.ExposureStartDate.After(in.ExposureEndDate) {
		return fmt.Errorf("%w: exposure start date must not be after end date", model.ErrInvalidAdvertisement)
	}
	if in.QualificationCriteria != nil {
		if _, err := model.ParseQualificationCriteria(*in.QualificationCriteria); err != nil {
			return err
		}
	}
	return nil
}
