// Package geocoding resolves postal addresses through the French national
// address API (data.geopf.fr, "geocodage" endpoint).
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/ports"
	"orderapi/internal/metrics"
	"orderapi/internal/pkg/errs"
)

const (
	DefaultBaseURL = "https://data.geopf.fr"
	DefaultTimeout = 5 * time.Second

	searchPath  = "/geocodage/search"
	serviceName = "geocoder"
)

var (
	ErrNoResult          = errors.New("no geocoding result")
	ErrMalformedResponse = errors.New("malformed geocoding response")
)

var _ ports.Geocoder = (*Client)(nil)

// Client is a GeoAPI geocoder. The zero value is not usable; use NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "geocoder"),
	}
}

type searchResponse struct {
	Features []struct {
		Geometry struct {
			// GeoJSON order: [longitude, latitude]
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode returns the coordinates of the best match for address. Every
// failure, including an empty result, is an errs.ErrUpstreamUnavailable.
func (c *Client) Geocode(ctx context.Context, address kernel.Address) (kernel.Coordinates, error) {
	coordinates, err := c.geocode(ctx, address.Query())
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, ErrNoResult) {
			outcome = metrics.OutcomeIgnored
		}
		metrics.GeocodingRequestsTotal.WithLabelValues(outcome).Inc()
		c.logger.Warn("geocoding failed", "query", address.Query(), "error", err)
		return kernel.Coordinates{}, errs.NewUpstreamUnavailableErrorWithCause(serviceName, err)
	}

	metrics.GeocodingRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return coordinates, nil
}

func (c *Client) geocode(ctx context.Context, query string) (kernel.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("autocomplete", "1")
	params.Set("index", "address")
	params.Set("limit", "1")
	params.Set("returntruegeometry", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return kernel.Coordinates{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return kernel.Coordinates{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kernel.Coordinates{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return kernel.Coordinates{}, fmt.Errorf("decode response: %w", err)
	}

	if len(body.Features) == 0 {
		return kernel.Coordinates{}, ErrNoResult
	}

	feature := body.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return kernel.Coordinates{}, ErrMalformedResponse
	}

	longitude, latitude := feature.Geometry.Coordinates[0], feature.Geometry.Coordinates[1]
	coordinates, err := kernel.NewCoordinates(latitude, longitude)
	if err != nil {
		return kernel.Coordinates{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	c.logger.Debug("address geocoded",
		"query", query,
		"label", feature.Properties.Label,
		"score", feature.Properties.Score,
	)
	return coordinates, nil
}
