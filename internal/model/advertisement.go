package model

import (
	"time"

	"github.com/google/uuid"
)

// Advertisement represents a promotional campaign in the database
type Advertisement struct {
	ID                          uuid.UUID  `db:"id" json:"id"`
	Title                       string     `db:"title" json:"title"`
	Description                 string     `db:"description" json:"description"`
	ImageURL                    string     `db:"image_url" json:"image_url"`
	RewardPoints                int32      `db:"reward_points" json:"reward_points"`
	MaxParticipationCount       int32      `db:"max_participation_count" json:"max_participation_count"`
	RemainingParticipationCount int32      `db:"remaining_participation_count" json:"remaining_participation_count"`
	ExposureStartDate           time.Time  `db:"exposure_start_date" json:"exposure_start_date"`
	ExposureEndDate             time.Time  `db:"exposure_end_date" json:"exposure_end_date"`
	QualificationCriteria       *string    `db:"qualification_criteria" json:"qualification_criteria,omitempty"`
	CreatedAt                   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                   time.Time  `db:"updated_at" json:"updated_at"`
}

// Criteria parses the advertisement's qualification criteria JSON.
// A nil result means the advertisement is open to every user.
func (a *Advertisement) Criteria() (*QualificationCriteria, error) {
	if a.QualificationCriteria == nil {
		return nil, nil
	}
	return ParseQualificationCriteria(*a.QualificationCriteria)
}

// IsExposed reports whether the advertisement is within its exposure window.
func (a *Advertisement) IsExposed(now time.Time) bool {
	return !now.Before(a.ExposureStartDate) && !now.After(a.ExposureEndDate)
}
