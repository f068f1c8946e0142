// Package nws implements station discovery and observation retrieval against
// the National Weather Service API.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/ingest"
	"github.com/windlens/windlens/internal/provider/resilience"
	"github.com/windlens/windlens/internal/wind"
)

const (
	// ProviderName identifies this station provider.
	ProviderName = "nws"

	// DefaultBaseURL is the NWS API base URL.
	DefaultBaseURL = "https://api.weather.gov"
)

// ClientConfig holds configuration for the NWS client.
type ClientConfig struct {
	// BaseURL overrides the API base URL; used by tests.
	BaseURL string

	// UserAgent is required by the NWS API terms of service.
	UserAgent string

	// HTTPClient is the resilient client to use. Nil uses defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client discovers observation stations and fetches their recent records.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates an NWS client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "windlens (github.com/windlens/windlens)"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// pointsResponse carries the observation stations URL for a gridpoint.
type pointsResponse struct {
	Properties struct {
		ObservationStations string `json:"observationStations"`
	} `json:"properties"`
}

// stationsResponse lists stations for a gridpoint.
type stationsResponse struct {
	Features []struct {
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
			Name              string `json:"name"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"features"`
}

// observationsResponse lists recent observations for a station.
type observationsResponse struct {
	Features []struct {
		Properties struct {
			Timestamp time.Time `json:"timestamp"`
			WindGust  struct {
				Value *float64 `json:"value"` // km/h on the wire
			} `json:"windGust"`
		} `json:"properties"`
	} `json:"features"`
}

// NearestStation resolves the gridpoint for a location and returns the first
// station the NWS lists for it, which is ordered by proximity.
func (c *Client) NearestStation(ctx context.Context, lat, lon float64) (*ingest.Station, error) {
	if err := wind.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	var points pointsResponse
	url := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)
	if err := c.getJSON(ctx, url, &points); err != nil {
		return nil, err
	}
	if points.Properties.ObservationStations == "" {
		return nil, ingest.ErrNoStation
	}

	var stations stationsResponse
	if err := c.getJSON(ctx, points.Properties.ObservationStations, &stations); err != nil {
		return nil, err
	}
	if len(stations.Features) == 0 {
		return nil, ingest.ErrNoStation
	}

	first := stations.Features[0]
	station := &ingest.Station{
		ID:   first.Properties.StationIdentifier,
		Name: first.Properties.Name,
	}
	if len(first.Geometry.Coordinates) == 2 {
		station.Lon = first.Geometry.Coordinates[0]
		station.Lat = first.Geometry.Coordinates[1]
	}
	return station, nil
}

// Observations fetches the station's recent records, keeping only the
// timestamp and gust the reconciliation pipeline needs. Wind gusts arrive in
// km/h and are converted to m/s.
func (c *Client) Observations(ctx context.Context, stationID string) ([]wind.ObservationRecord, error) {
	var payload observationsResponse
	url := fmt.Sprintf("%s/stations/%s/observations?limit=48", c.baseURL, stationID)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if len(payload.Features) == 0 {
		return nil, ingest.ErrNoObservations
	}

	records := make([]wind.ObservationRecord, 0, len(payload.Features))
	for _, f := range payload.Features {
		record := wind.ObservationRecord{Timestamp: f.Properties.Timestamp.UTC()}
		if v := f.Properties.WindGust.Value; v != nil {
			record.Gust = wind.Float64(*v / 3.6)
		}
		records = append(records, record)
	}
	return records, nil
}

// getJSON performs a GET through the resilient client and decodes the body.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ingest.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ingest.ErrNoStation
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ingest.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
