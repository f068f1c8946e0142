package handler

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/advect"
	"github.com/windlens/windlens/internal/api/models"
	"github.com/windlens/windlens/internal/api/response"
	"github.com/windlens/windlens/internal/field"
	"github.com/windlens/windlens/internal/reconcile"
	"github.com/windlens/windlens/pkg/polyline"
)

const (
	defaultFlowSteps  = 60
	maxFlowSteps      = 240
	maxFlowPopulation = 2048
)

// FlowHandler runs seeded particle advection over the snapshot's wind field
// and returns the traced trajectories.
type FlowHandler struct {
	snapshots    *reconcile.Service
	interpolator *field.Interpolator
	logger       zerolog.Logger
}

// NewFlowHandler creates a new FlowHandler.
func NewFlowHandler(snapshots *reconcile.Service, interpolator *field.Interpolator, logger zerolog.Logger) *FlowHandler {
	return &FlowHandler{
		snapshots:    snapshots,
		interpolator: interpolator,
		logger:       logger,
	}
}

// Simulate handles POST /v1/flow/simulate - one advection run.
func (h *FlowHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var input models.FlowSimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	steps := input.Steps
	if steps <= 0 {
		steps = defaultFlowSteps
	}
	if steps > maxFlowSteps {
		response.BadRequest(w, r, "steps exceeds the maximum of 240", nil)
		return
	}
	if input.Population > maxFlowPopulation {
		response.BadRequest(w, r, "population exceeds the maximum of 2048", nil)
		return
	}

	snap, err := h.snapshots.Snapshot()
	if err != nil {
		response.ServiceUnavailable(w, r, "no reconciled snapshot available yet")
		return
	}

	config := advect.DefaultConfig()
	if input.Population > 0 {
		config.Population = input.Population
	}
	if input.Height > 0 {
		config.DisplayHeight = input.Height
	}

	seed := input.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := advect.NewSimulator(config, h.interpolator, rand.New(rand.NewSource(seed)))

	viewport := advect.Viewport{
		West:  input.Viewport.West,
		South: input.Viewport.South,
		East:  input.Viewport.East,
		North: input.Viewport.North,
		Zoom:  input.Viewport.Zoom,
	}
	if err := sim.Reseed(viewport, snap.Field); err != nil {
		response.BadRequest(w, r, "viewport is degenerate", nil)
		return
	}

	trajectories, err := h.trace(sim, steps)
	if err != nil {
		h.logger.Error().Err(err).Msg("advection run failed")
		response.InternalError(w, r, "advection run failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.FlowSimulateResponse{
		TimeStep:     viewport.TimeStep(),
		Steps:        steps,
		Population:   config.Population,
		Height:       config.DisplayHeight,
		Trajectories: trajectories,
		Generation:   snap.Generation,
	})
}

// trace advances the simulator and chains each particle's per-tick positions
// into polylines. A respawn ends the particle's current trajectory and starts
// a new one.
func (h *FlowHandler) trace(sim *advect.Simulator, steps int) ([]string, error) {
	previous := sim.Particles()
	paths := make([][]polyline.Coordinate, len(previous))
	for i, p := range previous {
		paths[i] = append(paths[i], polyline.Coordinate{Lat: p.Lat, Lon: p.Lon})
	}

	var trajectories []string
	flush := func(i int) {
		if len(paths[i]) >= 2 {
			trajectories = append(trajectories, polyline.Encode(paths[i]))
		}
		paths[i] = paths[i][:0]
	}

	for step := 0; step < steps; step++ {
		if _, err := sim.Tick(); err != nil {
			return nil, err
		}
		current := sim.Particles()
		for i, p := range current {
			if p.Age == previous[i].Age+1 {
				paths[i] = append(paths[i], polyline.Coordinate{Lat: p.Lat, Lon: p.Lon})
				continue
			}
			// Respawned this tick: close the old path and open a new one
			// at the fresh position.
			flush(i)
			paths[i] = append(paths[i], polyline.Coordinate{Lat: p.Lat, Lon: p.Lon})
		}
		previous = current
	}

	for i := range paths {
		flush(i)
	}
	return trajectories, nil
}
