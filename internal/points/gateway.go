// Package points adapts the external point accrual service. The service
// fails independently of us, so every error is folded into
// ErrGatewayUnavailable and the caller decides what a failed credit means.
// Credits are never retried here.
package points

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrGatewayUnavailable wraps every transport or upstream failure of the
// point accrual service.
var ErrGatewayUnavailable = errors.New("points gateway unavailable")

// Gateway credits reward points to a user's account.
type Gateway interface {
	Credit(ctx context.Context, userID uuid.UUID, points int32) error
}

// HTTPGateway calls the point accrual service over HTTP with a bounded
// timeout.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates a gateway for the service at baseURL. Every request
// is bounded by timeout regardless of the caller's context.
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type creditRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Points int32     `json:"points"`
}

// Credit requests a point accrual for the user.
func (g *HTTPGateway) Credit(ctx context.Context, userID uuid.UUID, points int32) error {
	body, err := json.Marshal(creditRequest{UserID: userID, Points: points})
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrGatewayUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/v1/points", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	return nil
}
