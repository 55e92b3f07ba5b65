package model

import (
	"time"

	"github.com/google/uuid"
)

// Participation records that a user took part in an advertisement.
// Rows are append-only; the (advertisement_id, user_id) pair is unique.
type Participation struct {
	ID              uuid.UUID `db:"id" json:"id"`
	AdvertisementID uuid.UUID `db:"advertisement_id" json:"advertisement_id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	ParticipatedAt  time.Time `db:"participated_at" json:"participated_at"`
}

// User represents a registered participant
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserParticipationProfile is the read view of a user's participation
// history consumed by the qualification evaluator.
type UserParticipationProfile struct {
	UserID                  uuid.UUID
	TotalParticipationCount int
	Participated            map[uuid.UUID]bool
}

// HasParticipatedIn reports whether the user participated in the given advertisement.
func (p *UserParticipationProfile) HasParticipatedIn(advertisementID uuid.UUID) bool {
	return p.Participated[advertisementID]
}
