package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/backoffice/internal/config"
)

func feedClient(url string) *POSFeedClient {
	return NewPOSFeedClient(&config.Config{
		POSFeedURL:     url,
		POSFeedToken:   "feed-token",
		POSFeedTimeout: time.Second,
	})
}

func TestFetchReceipts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/receipts", r.URL.Path)
		assert.Equal(t, "Bearer feed-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-03-15T00:00:00Z", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-03-15T10:00:00Z", r.URL.Query().Get("to"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"receipts":[{"id":"r1","timestamp":"2024-03-15T02:30:00Z","line_items":[],"modifiers":[]}]}`))
	}))
	defer srv.Close()

	receipts, err := feedClient(srv.URL).FetchReceipts(context.Background(), windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "r1", receipts[0].ID)
}

func TestFetchReceiptsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := feedClient(srv.URL).FetchReceipts(context.Background(), windowStart, windowEnd)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchReceiptsConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := feedClient(srv.URL).FetchReceipts(context.Background(), windowStart, windowEnd)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchReceiptsBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := feedClient(srv.URL).FetchReceipts(context.Background(), windowStart, windowEnd)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}
