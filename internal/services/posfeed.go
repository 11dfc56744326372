package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/foxxcyber/backoffice/internal/config"
	"github.com/foxxcyber/backoffice/internal/models"
)

var ErrUpstreamUnavailable = errors.New("pos feed unavailable")

// ReceiptSource is the consumed interface to the upstream POS ingestion
// service. It hands back normalized receipts for a UTC window; raw POS
// API access lives entirely on the other side of this boundary.
type ReceiptSource interface {
	FetchReceipts(ctx context.Context, start, end time.Time) ([]models.Receipt, error)
}

// POSFeedClient fetches normalized receipts over HTTP.
type POSFeedClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewPOSFeedClient creates a client for the configured feed endpoint.
func NewPOSFeedClient(cfg *config.Config) *POSFeedClient {
	return &POSFeedClient{
		baseURL: cfg.POSFeedURL,
		token:   cfg.POSFeedToken,
		httpClient: &http.Client{
			Timeout: cfg.POSFeedTimeout,
		},
	}
}

type receiptsResponse struct {
	Receipts []models.Receipt `json:"receipts"`
}

// FetchReceipts returns every receipt whose timestamp falls in
// [start, end). Any transport or decode failure is reported as
// ErrUpstreamUnavailable so the whole rebuild aborts without committing.
func (c *POSFeedClient) FetchReceipts(ctx context.Context, start, end time.Time) ([]models.Receipt, error) {
	endpoint := fmt.Sprintf("%s/receipts?%s", c.baseURL, url.Values{
		"from": {start.Format(time.RFC3339)},
		"to":   {end.Format(time.RFC3339)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body receiptsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstreamUnavailable, err)
	}

	return body.Receipts, nil
}
