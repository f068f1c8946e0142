package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/api/models"
	"github.com/windlens/windlens/internal/api/response"
	"github.com/windlens/windlens/internal/history"
)

// HistoryHandler serves persisted reconciliation cycles.
type HistoryHandler struct {
	repo   history.Repository
	logger zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(repo history.Repository, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, logger: logger}
}

// ListCycles handles GET /v1/history/cycles - recent cycles, newest first.
func (h *HistoryHandler) ListCycles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			response.BadRequest(w, r, "limit must be between 1 and 100", nil)
			return
		}
		limit = parsed
	}

	records, err := h.repo.Recent(r.Context(), history.ListOptions{Limit: limit})
	if err != nil {
		h.logger.Error().Err(err).Msg("listing cycles failed")
		response.InternalError(w, r, "listing cycles failed")
		return
	}
	if records == nil {
		records = []history.CycleRecord{}
	}

	response.JSON(w, r, http.StatusOK, models.CycleList{Items: records})
}

// GetCycle handles GET /v1/history/cycles/{cycleId} - one cycle by ID.
func (h *HistoryHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "cycleId"))
	if err != nil {
		response.BadRequest(w, r, "cycleId must be a UUID", nil)
		return
	}

	record, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrCycleNotFound) {
			response.NotFound(w, r, "cycle not found")
			return
		}
		h.logger.Error().Err(err).Msg("loading cycle failed")
		response.InternalError(w, r, "loading cycle failed")
		return
	}

	response.JSON(w, r, http.StatusOK, record)
}
