// Package qualification evaluates an advertisement's qualification criteria
// against a user's participation profile.
package qualification

import "github.com/kkkkikiki/advert/internal/model"

// Evaluate reports whether the profile satisfies the criteria. All configured
// conditions are conjunctive; the first failing condition decides. Nil
// criteria admits everyone.
func Evaluate(criteria *model.QualificationCriteria, profile *model.UserParticipationProfile) bool {
	if criteria == nil {
		return true
	}

	if criteria.FirstTimeParticipation && profile.TotalParticipationCount > 0 {
		return false
	}

	if criteria.MinParticipationCount != nil &&
		profile.TotalParticipationCount < *criteria.MinParticipationCount {
		return false
	}

	if criteria.ExcludedAdvertisementID != nil &&
		profile.HasParticipatedIn(*criteria.ExcludedAdvertisementID) {
		return false
	}

	return true
}
