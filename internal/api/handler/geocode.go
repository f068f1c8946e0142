package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/api/models"
	"github.com/windlens/windlens/internal/api/response"
	"github.com/windlens/windlens/internal/geocode"
)

// GeocodeHandler resolves free-text addresses for the map search box.
type GeocodeHandler struct {
	provider geocode.Provider
	logger   zerolog.Logger
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(provider geocode.Provider, logger zerolog.Logger) *GeocodeHandler {
	return &GeocodeHandler{provider: provider, logger: logger}
}

// Lookup handles GET /v1/geocode - resolve an address to coordinates.
func (h *GeocodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.BadRequest(w, r, "missing query parameter \"q\"", nil)
		return
	}

	result, err := h.provider.Geocode(r.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			response.NotFound(w, r, "no match for the given address")
			return
		}
		h.logger.Error().Err(err).Str("provider", h.provider.Name()).Msg("geocoding failed")
		response.ServiceUnavailable(w, r, "geocoding provider is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.GeocodeResponse{
		Query:       query,
		Lat:         result.Lat,
		Lon:         result.Lon,
		DisplayName: result.DisplayName,
	})
}
