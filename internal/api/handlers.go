package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kkkkikiki/advert/internal/model"
	"github.com/kkkkikiki/advert/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, model.ErrAdvertisementNotFound), errors.Is(err, model.ErrUserNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrQuotaExhausted):
		status, code = http.StatusConflict, "quota_exhausted"
	case errors.Is(err, model.ErrAlreadyParticipated):
		status, code = http.StatusConflict, "already_participated"
	case errors.Is(err, model.ErrNotEligible):
		status, code = http.StatusConflict, "not_eligible"
	case errors.Is(err, model.ErrTitleExists), errors.Is(err, model.ErrUserExists):
		status, code = http.StatusConflict, "already_exists"
	case errors.Is(err, model.ErrInvalidAdvertisement), errors.Is(err, model.ErrInvalidCriteria), errors.Is(err, model.ErrInvalidUser):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, model.ErrLockUnavailable):
		// Transient contention: the caller should retry with backoff.
		w.Header().Set("Retry-After", "1")
		status, code = http.StatusServiceUnavailable, "lock_unavailable"
	default:
		log.Error().Err(err).Msg("internal error")
		status, code = http.StatusInternalServerError, "internal"
	}

	writeJSON(w, status, errorResponse{Error: code, Message: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: message})
}

type createAdvertisementRequest struct {
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	ImageURL              string          `json:"image_url"`
	RewardPoints          int32           `json:"reward_points"`
	MaxParticipationCount int32           `json:"max_participation_count"`
	ExposureStartDate     time.Time       `json:"exposure_start_date"`
	ExposureEndDate       time.Time       `json:"exposure_end_date"`
	QualificationCriteria json.RawMessage `json:"qualification_criteria,omitempty"`
}

func (s *Server) handleCreateAdvertisement(w http.ResponseWriter, r *http.Request) {
	var req createAdvertisementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	in := service.CreateAdvertisementInput{
		Title:                 req.Title,
		Description:           req.Description,
		ImageURL:              req.ImageURL,
		RewardPoints:          req.RewardPoints,
		MaxParticipationCount: req.MaxParticipationCount,
		ExposureStartDate:     req.ExposureStartDate,
		ExposureEndDate:       req.ExposureEndDate,
	}
	if len(req.QualificationCriteria) > 0 && string(req.QualificationCriteria) != "null" {
		criteria := string(req.QualificationCriteria)
		in.QualificationCriteria = &criteria
	}

	ad, err := s.advertisements.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ad)
}

func (s *Server) handleListAdvertisements(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 0)

	ads, err := s.advertisements.ListActive(r.Context(), page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"advertisements": ads,
		"page":           page,
	})
}

type participateRequest struct {
	AdvertisementID uuid.UUID `json:"advertisement_id"`
	UserID          uuid.UUID `json:"user_id"`
}

type participateResponse struct {
	Status       service.ParticipationStatus `json:"status"`
	RewardPoints int32                       `json:"reward_points"`
}

func (s *Server) handleParticipate(w http.ResponseWriter, r *http.Request) {
	var req participateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AdvertisementID == uuid.Nil || req.UserID == uuid.Nil {
		writeBadRequest(w, "advertisement_id and user_id are required")
		return
	}

	result, err := s.participations.Participate(r.Context(), req.AdvertisementID, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participateResponse{
		Status:       result.Status,
		RewardPoints: result.RewardPoints,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	from, err := queryTime(r, "from", time.Time{})
	if err != nil {
		writeBadRequest(w, "invalid from timestamp")
		return
	}
	to, err := queryTime(r, "to", time.Now())
	if err != nil {
		writeBadRequest(w, "invalid to timestamp")
		return
	}

	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 0)

	participations, err := s.participations.History(r.Context(), userID, from, to, page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"participations": participations,
		"page":           page,
	})
}

type createUserRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := s.users.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"service":  "advert",
		"hostname": hostname,
	})
}

func (s *Server) handleHealthDB(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := s.health.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryTime(r *http.Request, key string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return time.Parse(time.RFC3339, raw)
}
