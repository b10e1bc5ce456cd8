// Package origin talks to the rate-limited benchmark origin API. Every
// response, success or failure, has its rate-limit headers recorded before
// the body is interpreted.
package origin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/config"
	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/schema"
)

// DefaultBaseURL is the benchmark origin API.
const DefaultBaseURL = "https://api.modelscout.dev/v2"

const (
	requestTimeout = 30 * time.Second
	retryBackoff   = 500 * time.Millisecond
)

var (
	// ErrAuth means the API key was rejected (401).
	ErrAuth = errors.New("api key invalid or expired")
	// ErrOrigin means the origin itself failed (5xx).
	ErrOrigin = errors.New("origin service error")
	// ErrNetwork covers connection and timeout failures.
	ErrNetwork = errors.New("network failure")
)

// RateLimitError is returned on 429 and carries the reset time when the
// origin provided one.
type RateLimitError struct {
	ResetAt string
}

func (e *RateLimitError) Error() string {
	if e.ResetAt == "" {
		return "rate limit exceeded"
	}
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt)
}

// endpoints maps registry tables to origin API paths.
var endpoints = map[string]string{
	"benchmarks":     "/data/llms/models",
	"models":         "/data/llms/capabilities",
	"text_to_image":  "/data/media/text-to-image",
	"image_editing":  "/data/media/image-editing",
	"text_to_speech": "/data/media/text-to-speech",
	"text_to_video":  "/data/media/text-to-video",
	"image_to_video": "/data/media/image-to-video",
}

// Recorder observes quota snapshots. Satisfied by *quota.Tracker.
type Recorder interface {
	Record(profile string, q model.QuotaState) error
}

type Client struct {
	http    *http.Client
	baseURL string
	cred    config.Credential
	quota   Recorder
	log     *zap.Logger
}

func NewClient(baseURL string, cred config.Credential, quota Recorder, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: baseURL,
		cred:    cred,
		quota:   quota,
		log:     log,
	}
}

// apiResponse is the origin's envelope for list endpoints.
type apiResponse struct {
	Data []map[string]any `json:"data"`
}

// Fetch pulls one table from the origin API and projects it onto the
// registry schema. Transient network failures get exactly one retry.
func (c *Client) Fetch(ctx context.Context, table string) (*model.Table, error) {
	def, ok := schema.Lookup(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	path, ok := endpoints[def.Name]
	if !ok {
		return nil, fmt.Errorf("no origin endpoint for table %q", def.Name)
	}

	raw, err := c.do(ctx, c.baseURL+path)
	if errors.Is(err, ErrNetwork) {
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())
		}
		c.log.Debug("retrying origin request", zap.String("table", def.Name))
		raw, err = c.do(ctx, c.baseURL+path)
	}
	if err != nil {
		return nil, err
	}

	var body apiResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: parse response for %s: %v", ErrOrigin, def.Name, err)
	}
	return schema.Project(def, body.Data), nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.cred.Key)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer res.Body.Close()

	// Quota headers are recorded on every response, error paths included.
	q, seen := extractQuota(res)
	if seen {
		if err := c.quota.Record(c.cred.Profile, q); err != nil {
			c.log.Warn("failed to record quota", zap.Error(err))
		}
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuth
	case res.StatusCode == http.StatusTooManyRequests:
		reset := q.ResetAt
		if reset == "" {
			reset = res.Header.Get("Retry-After")
		}
		return nil, &RateLimitError{ResetAt: reset}
	case res.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", ErrOrigin, res.StatusCode)
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected HTTP %d", ErrOrigin, res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	return raw, nil
}

// extractQuota reads X-RateLimit-* headers into a snapshot. Limit and
// Remaining are required for a snapshot to count; Reset is best-effort.
func extractQuota(res *http.Response) (model.QuotaState, bool) {
	limit, err := strconv.Atoi(res.Header.Get("X-RateLimit-Limit"))
	if err != nil {
		return model.QuotaState{}, false
	}
	remaining, err := strconv.Atoi(res.Header.Get("X-RateLimit-Remaining"))
	if err != nil {
		return model.QuotaState{}, false
	}
	return model.QuotaState{
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    res.Header.Get("X-RateLimit-Reset"),
		ObservedAt: time.Now().UTC(),
	}, true
}
