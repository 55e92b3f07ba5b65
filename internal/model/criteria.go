package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// QualificationCriteria is the optional declarative predicate attached to an
// advertisement. Absent criteria means every user is eligible. All configured
// conditions must hold at once.
type QualificationCriteria struct {
	// FirstTimeParticipation restricts the advertisement to users with no
	// prior participation in any advertisement.
	FirstTimeParticipation bool `json:"first_time_participation,omitempty"`

	// MinParticipationCount requires at least this many prior participations.
	MinParticipationCount *int `json:"min_participation_count,omitempty"`

	// ExcludedAdvertisementID rejects users who already participated in the
	// referenced advertisement.
	ExcludedAdvertisementID *uuid.UUID `json:"excluded_advertisement_id,omitempty"`
}

// ParseQualificationCriteria decodes the criteria JSON stored on an
// advertisement row. Unknown fields and negative counts are rejected so that
// a typo in a criteria document fails loudly instead of silently admitting
// everyone.
func ParseQualificationCriteria(raw string) (*QualificationCriteria, error) {
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var criteria QualificationCriteria
	if err := dec.Decode(&criteria); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return &criteria, nil
}

// Validate checks the criteria values themselves, independent of any user.
func (c *QualificationCriteria) Validate() error {
	if c.MinParticipationCount != nil && *c.MinParticipationCount < 0 {
		return fmt.Errorf("%w: min_participation_count must not be negative", ErrInvalidCriteria)
	}
	return nil
}
