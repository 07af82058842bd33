package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	bookingsPath  = "/api/bookings"
	sortField     = "room_bookings.sequence"
	defaultWindow = 20
)

// ErrUnauthorized means the API rejected the session token.
var ErrUnauthorized = errors.New("notification: session token rejected")

// Fetcher returns the most recent bookings, newest first.
type Fetcher interface {
	Fetch(ctx context.Context, token string) ([]Record, error)
}

type bookingsEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Bookings []Record `json:"bookings"`
	} `json:"data"`
}

// HTTPFetcher reads the newest page of GET /api/bookings.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	window  int
}

func NewHTTPFetcher(baseURL string, timeout time.Duration, window int) *HTTPFetcher {
	if window <= 0 {
		window = defaultWindow
	}

	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		window:  window,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, token string) ([]Record, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("limit", strconv.Itoa(f.window))
	query.Set("sort_by", sortField)
	query.Set("sort_dir", "DESC")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+bookingsPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bookings request: %w", err)
	}

	request.Header.Set("Authorization", "Bearer "+token)
	request.Header.Set("Accept", "application/json")

	response, err := f.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	var envelope bookingsEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode bookings (status %d): %w", response.StatusCode, err)
	}

	if response.StatusCode != http.StatusOK || !envelope.Success {
		return nil, fmt.Errorf("bookings request failed with status %d: %s", response.StatusCode, envelope.Message)
	}

	return envelope.Data.Bookings, nil
}
