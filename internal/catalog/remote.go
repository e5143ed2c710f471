package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// campaignsPath is the listing endpoint of the donation backend.
const campaignsPath = "/api/all-campaigns"

// defaultFetchTimeout bounds a single catalog fetch.
const defaultFetchTimeout = 10 * time.Second

// Remote fetches the catalog from the donation backend's campaign API.
//
// The endpoint returns a JSON array of campaign objects; an empty array means
// "zero causes available" and is not an error. Connection failures, non-2xx
// statuses and malformed bodies are errors.
type Remote struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRemote creates a remote catalog source for the given base URL
// (e.g. "http://localhost:8080").
func NewRemote(baseURL string, logger *slog.Logger) (*Remote, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("campaign API base URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Remote{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultFetchTimeout},
		logger:     logger,
	}, nil
}

// campaignPayload mirrors the backend's campaign JSON
// (field names use initial capitals on the wire).
type campaignPayload struct {
	ID              int64   `json:"ID"`
	Title           string  `json:"Title"`
	Description     string  `json:"Description"`
	Goal            float64 `json:"Goal"`
	Currency        string  `json:"Currency"`
	CreatorUsername string  `json:"CreatorUsername"`
}

// Fetch retrieves all campaigns from the backend and maps them to Causes.
func (r *Remote) Fetch(ctx context.Context) ([]Cause, error) {
	url := r.baseURL + campaignsPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating campaign request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching campaigns from %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading campaign response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("campaign API error (status %d): %s", resp.StatusCode, string(body))
	}

	var payload []campaignPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing campaign response: %w", err)
	}

	causes := make([]Cause, 0, len(payload))
	for _, c := range payload {
		causes = append(causes, Cause{
			ID:          strconv.FormatInt(c.ID, 10),
			Title:       c.Title,
			Description: c.Description,
			Goal:        c.Goal,
			Currency:    c.Currency,
			Creator:     c.CreatorUsername,
		})
	}

	r.logger.Debug("fetched campaigns", "url", url, "count", len(causes))

	return causes, nil
}
