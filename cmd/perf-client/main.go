package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// PerfResult gathers aggregated metrics for the test run.
// Atomic counters are used to avoid lock‑contention on hot paths.
// LatencySum is in nanoseconds.
type PerfResult struct {
	TotalRequests int64
	AcceptedCount int64
	DegradedCount int64
	RejectedCount int64
	ErrorCount    int64
	LatencySum    int64
}

const (
	fixedWorkers   = 50
	fixedRPSTarget = 700
	fixedDuration  = 30 * time.Second
	defaultTimeout = 30 * time.Second
	fixedQuota     = 50000
	baseURL        = "http://localhost:8080"
)

type createAdvertisementRequest struct {
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	ImageURL              string    `json:"image_url"`
	RewardPoints          int32     `json:"reward_points"`
	MaxParticipationCount int32     `json:"max_participation_count"`
	ExposureStartDate     time.Time `json:"exposure_start_date"`
	ExposureEndDate       time.Time `json:"exposure_end_date"`
}

type participateRequest struct {
	AdvertisementID uuid.UUID `json:"advertisement_id"`
	UserID          uuid.UUID `json:"user_id"`
}

func main() {
	// ─── HTTP Client & Transport ─────────────────────────────────
	transport := &http.Transport{
		MaxIdleConns:        fixedWorkers * 4,
		MaxIdleConnsPerHost: fixedWorkers * 4,
		IdleConnTimeout:     90 * time.Second,
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   defaultTimeout,
	}

	// ─── Advertisement setup ─────────────────────────────────────
	advertisementID, err := createAdvertisement(httpClient, fixedQuota)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create advertisement: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created advertisement %s (quota %d)\n", advertisementID, fixedQuota)

	// ─── Load generation ─────────────────────────────────────────
	result := &PerfResult{}
	limiter := rate.NewLimiter(rate.Limit(fixedRPSTarget), fixedWorkers)

	ctx, cancel := context.WithTimeout(context.Background(), fixedDuration)
	defer cancel()

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < fixedWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				runParticipation(ctx, httpClient, advertisementID, result)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ─── Summary ─────────────────────────────────────────────────
	total := atomic.LoadInt64(&result.TotalRequests)
	fmt.Printf("\nrequests:        %d (%.1f rps)\n", total, float64(total)/elapsed.Seconds())
	fmt.Printf("accepted:        %d\n", atomic.LoadInt64(&result.AcceptedCount))
	fmt.Printf("reward degraded: %d\n", atomic.LoadInt64(&result.DegradedCount))
	fmt.Printf("rejected:        %d\n", atomic.LoadInt64(&result.RejectedCount))
	fmt.Printf("errors:          %d\n", atomic.LoadInt64(&result.ErrorCount))
	if total > 0 {
		avg := time.Duration(atomic.LoadInt64(&result.LatencySum) / total)
		fmt.Printf("avg latency:     %v\n", avg)
	}
}

func createAdvertisement(client *http.Client, quota int32) (uuid.UUID, error) {
	req := createAdvertisementRequest{
		Title:                 fmt.Sprintf("perf-%d", time.Now().UnixNano()),
		Description:           "performance test advertisement",
		ImageURL:              "https://example.com/perf.png",
		RewardPoints:          100,
		MaxParticipationCount: quota,
		ExposureStartDate:     time.Now().Add(-time.Hour),
		ExposureEndDate:       time.Now().Add(24 * time.Hour),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, err
	}

	resp, err := client.Post(baseURL+"/api/v1/advertisements", "application/json", bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return uuid.Nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

func runParticipation(ctx context.Context, client *http.Client, advertisementID uuid.UUID, result *PerfResult) {
	// Each request uses a fresh user so the duplicate check never trips;
	// contention lands entirely on the advertisement lock and quota.
	body, err := json.Marshal(participateRequest{
		AdvertisementID: advertisementID,
		UserID:          uuid.New(),
	})
	if err != nil {
		atomic.AddInt64(&result.ErrorCount, 1)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/v1/participations", bytes.NewReader(body))
	if err != nil {
		atomic.AddInt64(&result.ErrorCount, 1)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)

	atomic.AddInt64(&result.TotalRequests, 1)
	atomic.AddInt64(&result.LatencySum, int64(latency))

	if err != nil {
		atomic.AddInt64(&result.ErrorCount, 1)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var res struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			atomic.AddInt64(&result.ErrorCount, 1)
			return
		}
		if res.Status == "reward_degraded" {
			atomic.AddInt64(&result.DegradedCount, 1)
		} else {
			atomic.AddInt64(&result.AcceptedCount, 1)
		}
	case http.StatusConflict, http.StatusServiceUnavailable:
		atomic.AddInt64(&result.RejectedCount, 1)
	default:
		atomic.AddInt64(&result.ErrorCount, 1)
	}
}
