// Package openmeteo implements forecast ingestion from the Open-Meteo API.
package openmeteo

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
	// ProviderName identifies this forecast provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo forecast endpoint.
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// fieldGridStep is the spacing, in degrees, of the sparse sample grid
	// fetched around the query point for spatial interpolation.
	fieldGridStep = 0.25
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL overrides the forecast endpoint; used by tests.
	BaseURL string

	// HTTPClient is the resilient client to use. Nil uses defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches hourly wind forecasts from Open-Meteo.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates an Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// forecastResponse mirrors the wire format of the hourly forecast endpoint.
type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    struct {
		Time          []string  `json:"time"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
		WindDirection []float64 `json:"wind_direction_10m"`
		IsDay         []int     `json:"is_day"`
	} `json:"hourly"`
}

// Fetch retrieves the hourly forecast for a location plus a small sample grid
// around it that feeds the spatial interpolator. Forecast gust estimates are
// deliberately not requested; measured station gusts or the estimator fill
// them during reconciliation.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*ingest.Forecast, error) {
	if err := wind.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	series, err := c.fetchPoint(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	field, err := c.fetchField(ctx, lat, lon)
	if err != nil {
		// The field is an enhancement over the point forecast; degrade to a
		// single-sample field rather than failing the whole fetch.
		c.logger.Warn().Err(err).Msg("field grid fetch failed, using point sample only")
		field = pointField(lat, lon, series)
	}

	return &ingest.Forecast{
		Lat:       lat,
		Lon:       lon,
		Series:    series,
		Field:     field,
		FetchedAt: time.Now(),
	}, nil
}

// fetchPoint retrieves and parses the hourly series for one coordinate.
func (c *Client) fetchPoint(ctx context.Context, lat, lon float64) (wind.Series, error) {
	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&hourly=wind_speed_10m,wind_direction_10m,is_day&wind_speed_unit=ms&timezone=UTC",
		c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return wind.Series{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wind.Series{}, fmt.Errorf("%w: %s", ingest.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return wind.Series{}, fmt.Errorf("%w: status %d", ingest.ErrProviderUnavailable, resp.StatusCode)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return wind.Series{}, fmt.Errorf("decoding response: %w", err)
	}

	return toSeries(&payload)
}

// fetchField samples a cross of grid points around the location.
func (c *Client) fetchField(ctx context.Context, lat, lon float64) ([]wind.GeoSample, error) {
	offsets := [][2]float64{
		{0, 0},
		{fieldGridStep, 0}, {-fieldGridStep, 0},
		{0, fieldGridStep}, {0, -fieldGridStep},
		{fieldGridStep, fieldGridStep}, {-fieldGridStep, -fieldGridStep},
	}

	samples := make([]wind.GeoSample, 0, len(offsets))
	for _, off := range offsets {
		gridLat, gridLon := lat+off[0], lon+off[1]
		if wind.ValidateCoordinates(gridLat, gridLon) != nil {
			continue
		}
		series, err := c.fetchPoint(ctx, gridLat, gridLon)
		if err != nil {
			return nil, err
		}
		if len(series.Samples) == 0 {
			continue
		}
		samples = append(samples, wind.GeoSample{
			Sample: series.Samples[0],
			Lat:    gridLat,
			Lon:    gridLon,
		})
	}
	return samples, nil
}

// toSeries converts the wire format into the domain series.
func toSeries(payload *forecastResponse) (wind.Series, error) {
	h := payload.Hourly
	samples := make([]wind.Sample, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.Parse("2006-01-02T15:04", raw)
		if err != nil {
			return wind.Series{}, fmt.Errorf("parsing hourly time %q: %w", raw, err)
		}
		sample := wind.Sample{
			Timestamp: ts.UTC(),
			Speed:     h.WindSpeed[i],
		}
		if i < len(h.WindDirection) {
			sample.Direction = wind.Float64(normalizeDirection(h.WindDirection[i]))
		}
		if i < len(h.IsDay) {
			sample.Daytime = h.IsDay[i] == 1
		}
		if err := sample.Validate(); err != nil {
			return wind.Series{}, fmt.Errorf("hourly sample %d: %w", i, err)
		}
		samples = append(samples, sample)
	}
	return wind.Series{Samples: samples}, nil
}

// normalizeDirection maps a degree value into [0, 360).
func normalizeDirection(deg float64) float64 {
	for deg >= 360 {
		deg -= 360
	}
	for deg < 0 {
		deg += 360
	}
	return deg
}

// pointField wraps the first series sample as a one-point field.
func pointField(lat, lon float64, series wind.Series) []wind.GeoSample {
	if len(series.Samples) == 0 {
		return nil
	}
	return []wind.GeoSample{{Sample: series.Samples[0], Lat: lat, Lon: lon}}
}
