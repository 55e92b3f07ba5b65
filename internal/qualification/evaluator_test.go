package qualification

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kkkkikiki/advert/internal/model"
)

func intPtr(v int) *int { return &v }

func TestEvaluate(t *testing.T) {
	excludedID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name     string
		criteria *model.QualificationCriteria
		profile  *model.UserParticipationProfile
		want     bool
	}{
		{
			name:     "nil criteria admits everyone",
			criteria: nil,
			profile:  &model.UserParticipationProfile{TotalParticipationCount: 42},
			want:     true,
		},
		{
			name:     "empty criteria admits everyone",
			criteria: &model.QualificationCriteria{},
			profile:  &model.UserParticipationProfile{TotalParticipationCount: 42},
			want:     true,
		},
		{
			name:     "first time only with no history",
			criteria: &model.QualificationCriteria{FirstTimeParticipation: true},
			profile:  &model.UserParticipationProfile{TotalParticipationCount: 0},
			want:     true,
		},
		{
			name:     "first time only with history",
			criteria: &model.QualificationCriteria{FirstTimeParticipation: true},
			profile:  &model.UserParticipationProfile{TotalParticipationCount: 1},
			want:     false,
		},
		{
			name:     "minimum count met",
			criteria: &model.QualificationCriteria{MinParticipationCount: intPtr(3)},
			profile:  &model.UserParticipationProfile{TotalParticipationCount: 3},
			want:     true,
		},
		{
			name:     "minimum count not met",
			criteria: &model.QualificationCriteria{MinParticipationCount: intPtr(3)},
			profile:  &model.UserParticipationProfile{TotalParticipationCount: 2},
			want:     false,
		},
		{
			name:     "excluded advertisement not participated",
			criteria: &model.QualificationCriteria{ExcludedAdvertisementID: &excludedID},
			profile: &model.UserParticipationProfile{
				TotalParticipationCount: 1,
				Participated:            map[uuid.UUID]bool{otherID: true},
			},
			want: true,
		},
		{
			name:     "excluded advertisement participated",
			criteria: &model.QualificationCriteria{ExcludedAdvertisementID: &excludedID},
			profile: &model.UserParticipationProfile{
				TotalParticipationCount: 1,
				Participated:            map[uuid.UUID]bool{excludedID: true},
			},
			want: false,
		},
		{
			name: "conditions are conjunctive",
			criteria: &model.QualificationCriteria{
				MinParticipationCount:   intPtr(2),
				ExcludedAdvertisementID: &excludedID,
			},
			profile: &model.UserParticipationProfile{
				TotalParticipationCount: 5,
				Participated:            map[uuid.UUID]bool{excludedID: true},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.criteria, tt.profile); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}
