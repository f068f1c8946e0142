package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/api/models"
	"github.com/windlens/windlens/internal/api/response"
	"github.com/windlens/windlens/internal/field"
	"github.com/windlens/windlens/internal/reconcile"
	"github.com/windlens/windlens/internal/safety"
	"github.com/windlens/windlens/internal/wind"
)

// DefaultSafetyHeights are the altitudes a safety verdict is evaluated at
// when the request doesn't name its own.
var DefaultSafetyHeights = []float64{10, 80, 120}

// WindHandler serves the reconciled wind snapshot: point vectors, the hourly
// series, safety verdicts, and on-demand refreshes.
type WindHandler struct {
	snapshots    *reconcile.Service
	interpolator *field.Interpolator
	classifier   *safety.Classifier
	thresholds   safety.Thresholds
	logger       zerolog.Logger
}

// WindHandlerConfig holds dependencies for the wind handler.
type WindHandlerConfig struct {
	Snapshots    *reconcile.Service
	Interpolator *field.Interpolator
	Classifier   *safety.Classifier
	Thresholds   safety.Thresholds
	Logger       zerolog.Logger
}

// NewWindHandler creates a new WindHandler.
func NewWindHandler(cfg WindHandlerConfig) *WindHandler {
	return &WindHandler{
		snapshots:    cfg.Snapshots,
		interpolator: cfg.Interpolator,
		classifier:   cfg.Classifier,
		thresholds:   cfg.Thresholds,
		logger:       cfg.Logger,
	}
}

// Vector handles GET /v1/wind/vector - interpolated wind at a point.
func (h *WindHandler) Vector(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, r, "no reconciled snapshot available yet")
		return
	}

	lat, err := queryFloat(r, "lat")
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	lon, err := queryFloat(r, "lon")
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if err := wind.ValidateCoordinates(lat, lon); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	height, err := queryFloatDefault(r, "height", wind.ReferenceHeight)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if height <= 0 {
		response.BadRequest(w, r, "height must be positive", nil)
		return
	}

	vector, err := h.interpolator.Interpolate(snap.Field, lat, lon, height)
	if err != nil {
		h.logger.Error().Err(err).Msg("interpolation failed")
		response.InternalError(w, r, "interpolation failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.WindVectorResponse{
		Location:   models.Point{Lat: lat, Lon: lon},
		Height:     height,
		Vector:     models.WindVector(vector),
		Generation: snap.Generation,
		FetchedAt:  models.Timestamp(snap.FetchedAt),
	})
}

// Series handles GET /v1/wind/series - the reconciled hourly series.
func (h *WindHandler) Series(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, r, "no reconciled snapshot available yet")
		return
	}

	samples := make([]models.WindSample, 0, len(snap.Result.Series.Samples))
	for _, sample := range snap.Result.Series.Samples {
		samples = append(samples, models.WindSample{
			Time:      models.Timestamp(sample.Timestamp),
			Speed:     sample.Speed,
			Direction: sample.Direction,
			Gust:      sample.Gust,
			Daytime:   sample.Daytime,
		})
	}

	response.JSON(w, r, http.StatusOK, models.WindSeriesResponse{
		Location:         models.Point{Lat: snap.Lat, Lon: snap.Lon},
		Outcome:          string(snap.Result.Outcome),
		Degraded:         snap.Result.Outcome.Degraded(),
		StationName:      snap.StationName,
		MatchedSamples:   snap.Result.MatchedSamples,
		EstimatedSamples: snap.Result.EstimatedSamples,
		Samples:          samples,
		Generation:       snap.Generation,
		FetchedAt:        models.Timestamp(snap.FetchedAt),
	})
}

// Safety handles GET /v1/wind/safety - per-height operating verdict.
func (h *WindHandler) Safety(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, r, "no reconciled snapshot available yet")
		return
	}

	heights, err := queryFloatList(r, "heights", DefaultSafetyHeights)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	for _, height := range heights {
		if height <= 0 {
			response.BadRequest(w, r, "heights must be positive", nil)
			return
		}
	}

	windowStart, err := queryTimeDefault(r, "from", snap.FetchedAt)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	windowEnd, err := queryTimeDefault(r, "to", windowStart.Add(24*time.Hour))
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if !windowEnd.After(windowStart) {
		response.BadRequest(w, r, "to must be after from", nil)
		return
	}

	verdict, err := h.classifier.Classify(snap.Result.Series.Samples, heights, windowStart, windowEnd)
	if err != nil {
		if errors.Is(err, safety.ErrNoSamples) {
			response.ServiceUnavailable(w, r, "snapshot holds no samples to evaluate")
			return
		}
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	perHeight := make(map[string]bool, len(verdict.PerHeight))
	for height, safe := range verdict.PerHeight {
		perHeight[formatHeight(height)] = safe
	}

	response.JSON(w, r, http.StatusOK, models.SafetyResponse{
		Overall:          verdict.Overall,
		PerHeight:        perHeight,
		SamplesEvaluated: verdict.SamplesEvaluated,
		WindowFallback:   verdict.WindowFallback,
		Thresholds: models.SafetyThresholds{
			MaxSteady: h.thresholds.MaxSteady,
			MaxGust:   h.thresholds.MaxGust,
		},
		Outcome:    string(snap.Result.Outcome),
		Generation: snap.Generation,
	})
}

// Refresh handles POST /v1/wind/refresh - run a reconciliation cycle for a
// new location and publish the snapshot.
func (h *WindHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if err := wind.ValidateCoordinates(input.Lat, input.Lon); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	snap, err := h.snapshots.Refresh(r.Context(), input.Lat, input.Lon)
	if err != nil {
		h.logger.Error().Err(err).
			Float64("lat", input.Lat).
			Float64("lon", input.Lon).
			Msg("refresh failed")
		response.ServiceUnavailable(w, r, "forecast provider is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.RefreshResponse{
		Location:         models.Point{Lat: snap.Lat, Lon: snap.Lon},
		Outcome:          string(snap.Result.Outcome),
		StationName:      snap.StationName,
		SampleCount:      len(snap.Result.Series.Samples),
		MatchedSamples:   snap.Result.MatchedSamples,
		EstimatedSamples: snap.Result.EstimatedSamples,
		Generation:       snap.Generation,
		FetchedAt:        models.Timestamp(snap.FetchedAt),
	})
}
