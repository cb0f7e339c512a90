package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

var ErrUnavailable = errors.New("estimator unavailable")

// Request carries the answer context the scoring service needs.
type Request struct {
	Identity       string
	Difficulty     int
	Correct        bool
	Streak         int
	TotalAnswers   int
	RecentOutcomes []bool
}

// Estimator returns a score override for one answer. Any error means
// the caller should use its own formula.
type Estimator interface {
	Estimate(ctx context.Context, req Request) (float64, error)
}

type scoreRequest struct {
	UserID        string `json:"userId"`
	Difficulty    int    `json:"difficulty"`
	Correct       bool   `json:"correct"`
	Streak        int    `json:"streak"`
	TotalAnswers  int    `json:"totalAnswers"`
	RecentResults []bool `json:"recentResults"`
}

// The service also reports its updated ability estimate; only the
// delta is consumed.
type scoreResponse struct {
	ScoreDelta *float64 `json:"scoreDelta"`
}

// Client talks to the IRT scoring service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client whose every call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Estimate(ctx context.Context, req Request) (float64, error) {
	totalAnswers := req.TotalAnswers
	if totalAnswers < 1 {
		totalAnswers = 1
	}
	recent := req.RecentOutcomes
	if recent == nil {
		recent = []bool{}
	}
	body, err := json.Marshal(scoreRequest{
		UserID:        req.Identity,
		Difficulty:    req.Difficulty,
		Correct:       req.Correct,
		Streak:        req.Streak,
		TotalAnswers:  totalAnswers,
		RecentResults: recent,
	})
	if err != nil {
		return 0, fmt.Errorf("encode score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if out.ScoreDelta == nil {
		return 0, fmt.Errorf("%w: missing scoreDelta", ErrUnavailable)
	}
	delta := *out.ScoreDelta
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return 0, fmt.Errorf("%w: invalid scoreDelta %v", ErrUnavailable, delta)
	}
	return delta, nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
