// Package assist calls a generative text service to draft executive
// summaries for reports. The service is opaque: the client posts chart
// metadata and receives prose plus highlight bullets, and any transport or
// API failure is surfaced as a single error for the caller to display.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrBusy is returned when a generation request is already in flight.
// Callers should disable the generate action rather than queueing.
var ErrBusy = errors.New("summary generation already in progress")

// ChartBrief describes one chart for the prompt, without its data.
type ChartBrief struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Analysis string `json:"analysis,omitempty"`
}

// Request carries the project context sent to the service.
type Request struct {
	ProjectName string       `json:"project_name"`
	Description string       `json:"description,omitempty"`
	Charts      []ChartBrief `json:"charts"`
	Audience    string       `json:"audience,omitempty"`
}

// Summary is the generated result.
type Summary struct {
	Text       string   `json:"summary"`
	Highlights []string `json:"highlights"`
}

// Generator produces executive summaries for a report.
type Generator interface {
	ExecutiveSummary(ctx context.Context, req Request) (*Summary, error)
}

// Config holds the service endpoint and credentials.
type Config struct {
	// Endpoint is the full URL the request is posted to.
	Endpoint string
	// APIKey is sent as a bearer token. Empty means unauthenticated.
	APIKey string
	// Timeout bounds a single generation call including retries.
	Timeout time.Duration
}

// HTTPGenerator implements Generator against an HTTP endpoint.
// At most one request is in flight at a time; concurrent calls fail
// fast with ErrBusy.
type HTTPGenerator struct {
	config Config
	client *http.Client
	busy   atomic.Bool
}

// NewHTTPGenerator creates a generator with retrying transport.
func NewHTTPGenerator(config Config) (*HTTPGenerator, error) {
	if config.Endpoint == "" {
		return nil, errors.New("assist endpoint is not configured")
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.Logger = nil

	return &HTTPGenerator{
		config: config,
		client: retryClient.StandardClient(),
	}, nil
}

// ExecutiveSummary posts the request and decodes the generated summary
func (g *HTTPGenerator) ExecutiveSummary(ctx context.Context, req Request) (*Summary, error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer g.busy.Store(false)

	if len(req.Charts) == 0 {
		return nil, errors.New("no charts to summarize")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build summary request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("summary service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("summary service returned %s: %s", resp.Status, bytes.TrimSpace(payload))
	}

	var summary Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary response: %w", err)
	}
	if summary.Text == "" {
		return nil, errors.New("summary service returned an empty summary")
	}

	return &summary, nil
}
