package points

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCreditSuccess(t *testing.T) {
	userID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/points" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req struct {
			UserID uuid.UUID `json:"user_id"`
			Points int32     `json:"points"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if req.UserID != userID || req.Points != 250 {
			t.Errorf("unexpected payload: %+v", req)
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gateway := NewHTTPGateway(srv.URL, time.Second)
	if err := gateway.Credit(context.Background(), userID, 250); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreditUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gateway := NewHTTPGateway(srv.URL, time.Second)
	err := gateway.Credit(context.Background(), uuid.New(), 100)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestCreditTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	gateway := NewHTTPGateway(srv.URL, 50*time.Millisecond)
	err := gateway.Credit(context.Background(), uuid.New(), 100)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestCreditConnectionRefused(t *testing.T) {
	gateway := NewHTTPGateway("http://127.0.0.1:1", time.Second)
	err := gateway.Credit(context.Background(), uuid.New(), 100)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}
