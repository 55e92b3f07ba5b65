package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kkkkikiki/advert/internal/lock"
	"github.com/kkkkikiki/advert/internal/metrics"
	"github.com/kkkkikiki/advert/internal/model"
	"github.com/kkkkikiki/advert/internal/points"
	"github.com/kkkkikiki/advert/internal/qualification"
)

// ParticipationStatus is the outcome of a successful participation.
type ParticipationStatus string

const (
	// StatusAccepted means the participation committed and the reward was credited.
	StatusAccepted ParticipationStatus = "accepted"

	// StatusRewardDegraded means the participation committed but the point
	// credit failed. The participation is not rolled back; reconciliation of
	// the missing reward happens out-of-band.
	StatusRewardDegraded ParticipationStatus = "reward_degraded"
)

// ParticipationResult is returned for every successful participation.
type ParticipationResult struct {
	Status       ParticipationStatus
	RewardPoints int32
}

// ParticipationStore is the storage surface the coordinator needs. The
// Postgres implementation lives in the repository package.
type ParticipationStore interface {
	GetAdvertisement(ctx context.Context, id uuid.UUID) (*model.Advertisement, error)
	HasParticipated(ctx context.Context, advertisementID, userID uuid.UUID) (bool, error)
	UserProfile(ctx context.Context, userID uuid.UUID) (*model.UserParticipationProfile, error)
	CommitParticipation(ctx context.Context, p *model.Participation) error
	History(ctx context.Context, userID uuid.UUID, from, to time.Time, limit, offset int) ([]model.Participation, error)
}

// maxHistoryPageSize caps a single history page.
const maxHistoryPageSize = 50

// ParticipationService coordinates advertisement participation. All quota
// mutation goes through Participate; there is no other entry point into the
// remaining-count field.
type ParticipationService struct {
	store   ParticipationStore
	locker  lock.Locker
	rewards points.Gateway
}

// NewParticipationService creates the participation coordinator
func NewParticipationService(store ParticipationStore, locker lock.Locker, rewards points.Gateway) *ParticipationService {
	return &ParticipationService{
		store:   store,
		locker:  locker,
		rewards: rewards,
	}
}

func lockKey(advertisementID uuid.UUID) string {
	return "advertisement:" + advertisementID.String()
}

// Participate runs one participation attempt for the user on the
// advertisement. Requests for the same advertisement are serialized by a
// per-advertisement lease lock; the participation record and the quota
// decrement commit together while the lock is held. The reward credit runs
// after the lock is released and its failure degrades the result instead of
// rolling anything back.
func (s *ParticipationService) Participate(ctx context.Context, advertisementID, userID uuid.UUID) (*ParticipationResult, error) {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.RecordParticipationDuration(result, time.Since(start).Seconds())
	}()

	rewardPoints, err := s.commitParticipation(ctx, advertisementID, userID)
	if err != nil {
		result = failureLabel(err)
		return nil, err
	}

	// Reward disbursement is a best-effort side effect outside the lock's
	// consistency boundary. The participation above stays committed no
	// matter what happens here.
	if err := s.rewards.Credit(ctx, userID, rewardPoints); err != nil {
		log.Warn().
			Err(err).
			Str("advertisement_id", advertisementID.String()).
			Str("user_id", userID.String()).
			Int32("points", rewardPoints).
			Msg("participation committed but point credit failed")

		result = string(StatusRewardDegraded)
		return &ParticipationResult{Status: StatusRewardDegraded, RewardPoints: rewardPoints}, nil
	}

	result = string(StatusAccepted)
	return &ParticipationResult{Status: StatusAccepted, RewardPoints: rewardPoints}, nil
}

// commitParticipation holds the per-advertisement lock for the whole
// check-and-commit sequence and returns the reward amount to credit.
func (s *ParticipationService) commitParticipation(ctx context.Context, advertisementID, userID uuid.UUID) (int32, error) {
	lease, err := s.locker.Acquire(ctx, lockKey(advertisementID))
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			metrics.LockContention.Inc()
			return 0, model.ErrLockUnavailable
		}
		return 0, fmt.Errorf("failed to acquire participation lock: %w", err)
	}
	// Release must run on every exit path. The detached context lets the
	// release go through even when the caller already gave up.
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			log.Error().
				Err(err).
				Str("advertisement_id", advertisementID.String()).
				Msg("failed to release participation lock")
		}
	}()

	ad, err := s.store.GetAdvertisement(ctx, advertisementID)
	if err != nil {
		return 0, err
	}

	if ad.RemainingParticipationCount <= 0 {
		return 0, model.ErrQuotaExhausted
	}

	criteria, err := ad.Criteria()
	if err != nil {
		return 0, err
	}
	if criteria != nil {
		profile, err := s.store.UserProfile(ctx, userID)
		if err != nil {
			return 0, err
		}
		if !qualification.Evaluate(criteria, profile) {
			return 0, model.ErrNotEligible
		}
	}

	exists, err := s.store.HasParticipated(ctx, advertisementID, userID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, model.ErrAlreadyParticipated
	}

	participation := &model.Participation{
		ID:              uuid.New(),
		AdvertisementID: advertisementID,
		UserID:          userID,
		ParticipatedAt:  time.Now().UTC(),
	}
	if err := s.store.CommitParticipation(ctx, participation); err != nil {
		return 0, err
	}

	return ad.RewardPoints, nil
}

// History retrieves a user's participation records between from and to,
// oldest first. Page size is capped at 50.
func (s *ParticipationService) History(ctx context.Context, userID uuid.UUID, from, to time.Time, page, size int) ([]model.Participation, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > maxHistoryPageSize {
		size = maxHistoryPageSize
	}

	return s.store.History(ctx, userID, from, to, size, page*size)
}

// failureLabel maps a participation failure onto a stable metric label.
func failureLabel(err error) string {
	switch {
	case errors.Is(err, model.ErrLockUnavailable):
		return "lock_unavailable"
	case errors.Is(err, model.ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, model.ErrAlreadyParticipated):
		return "already_participated"
	case errors.Is(err, model.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, model.ErrAdvertisementNotFound), errors.Is(err, model.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, model.ErrInvalidCriteria):
		return "invalid_criteria"
	default:
		return "error"
	}
}
