// Package aladhan fetches daily prayer times from the Aladhan API.
package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

const (
	DefaultBaseURL = "https://api.aladhan.com/v1"

	// MethodKemenag is Kementerian Agama Republik Indonesia.
	MethodKemenag = 11
)

var (
	ErrNetwork  = errors.New("prayer times request failed")
	ErrUpstream = errors.New("prayer times upstream error")
)

// Fetcher retrieves one day of prayer times for a coordinate.
type Fetcher interface {
	FetchSchedule(ctx context.Context, coord model.Coordinate, date time.Time) (*Data, error)
}

// Client communicates with the Aladhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is exported so tests can point it at httptest.
	BaseURL string
	Method  int
}

var _ Fetcher = (*Client)(nil)

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: DefaultBaseURL,
		Method:  MethodKemenag,
	}
}

// FetchSchedule calls /timings/{DD-MM-YYYY} with the configured calculation method.
func (c *Client) FetchSchedule(ctx context.Context, coord model.Coordinate, date time.Time) (*Data, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Set("method", strconv.Itoa(c.Method))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: code=%d status=%s", ErrUpstream, apiResp.Code, apiResp.Status)
	}

	data, err := DecodeData(apiResp.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return data, nil
}
