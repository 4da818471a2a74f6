package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

// DefaultIPAPIURL is the ip-api.com endpoint; "%s" is replaced by the
// escaped client IP, or left empty to locate the server itself.
const DefaultIPAPIURL = "http://ip-api.com/json/%s?fields=status,message,lat,lon,city,country,timezone"

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// IPLocator approximates a device's position from its public IP address.
// ip-api.com is free and requires no API key.
type IPLocator struct {
	httpClient *http.Client
	// URLFormat is exported so tests can point it at httptest.
	URLFormat string
}

var _ Locator = (*IPLocator)(nil)

func NewIPLocator() *IPLocator {
	return &IPLocator{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		URLFormat:  DefaultIPAPIURL,
	}
}

func (l *IPLocator) Locate(ctx context.Context, ip string) (model.Coordinate, error) {
	reqURL := fmt.Sprintf(l.URLFormat, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("geolocation request failed: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinate{}, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.Coordinate{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return model.Coordinate{}, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return model.Coordinate{Latitude: result.Lat, Longitude: result.Lon}, nil
}
