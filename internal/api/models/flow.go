package models

// FlowViewport is the visible map region a simulation runs over.
type FlowViewport struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
	Zoom  float64 `json:"zoom"`
}

// FlowSimulateRequest configures one seeded advection run.
type FlowSimulateRequest struct {
	Viewport FlowViewport `json:"viewport"`

	// Steps is the number of ticks to advance. Zero uses the default.
	Steps int `json:"steps,omitempty"`

	// Height is the display height in meters. Zero uses the reference height.
	Height float64 `json:"height,omitempty"`

	// Population overrides the particle count. Zero uses the default.
	Population int `json:"population,omitempty"`

	// Seed makes the run reproducible. Zero seeds from the clock.
	Seed int64 `json:"seed,omitempty"`
}

// FlowSimulateResponse carries the traced particle trajectories.
type FlowSimulateResponse struct {
	// TimeStep is the simulated seconds per tick for the viewport's zoom.
	TimeStep float64 `json:"timeStep"`

	Steps      int     `json:"steps"`
	Population int     `json:"population"`
	Height     float64 `json:"height"`

	// Trajectories holds one encoded polyline per particle that moved.
	// Respawns break a particle's path into separate trajectories.
	Trajectories []string `json:"trajectories"`

	Generation uint64 `json:"generation"`
}
