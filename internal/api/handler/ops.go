package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/windlens/windlens/internal/api/models"
	"github.com/windlens/windlens/internal/api/response"
	"github.com/windlens/windlens/internal/provider/resilience"
	"github.com/windlens/windlens/internal/reconcile"
)

// Pinger reports whether a subsystem connection is healthy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderProbe pairs an upstream provider name with the resilient client
// whose circuit state reflects its recent behavior.
type ProviderProbe struct {
	Name   string
	Client *resilience.Client
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	snapshots *reconcile.Service
	db        Pinger
	providers []ProviderProbe
}

// OpsHandlerConfig holds dependencies for the ops handler.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string
	Snapshots *reconcile.Service

	// DB is the database pool; nil when running without persistence.
	DB Pinger

	Providers []ProviderProbe
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		snapshots: cfg.Snapshots,
		db:        cfg.DB,
		providers: cfg.Providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The database,
// when configured, must answer a ping; snapshot presence is reported but
// doesn't gate readiness since the first cycle runs after startup.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	details := map[string]interface{}{}

	if _, err := h.snapshots.Snapshot(); err != nil {
		details["snapshot"] = "pending"
	} else {
		details["snapshot"] = "published"
	}

	status := models.HealthStatusOK
	code := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			details["database"] = err.Error()
			status = models.HealthStatusFail
			code = http.StatusServiceUnavailable
		} else {
			details["database"] = "ok"
		}
	}

	response.JSON(w, r, code, models.Health{
		Status:  status,
		Time:    models.Timestamp(time.Now()),
		Details: details,
	})
}

// SystemStatus handles GET /v1/ops/status - snapshot, subsystem, and
// provider circuit status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	overall := models.HealthStatusOK

	var snapshotStatus *models.SnapshotStatus
	if snap, err := h.snapshots.Snapshot(); err == nil {
		snapshotStatus = &models.SnapshotStatus{
			Generation: snap.Generation,
			Outcome:    string(snap.Result.Outcome),
			Degraded:   snap.Result.Outcome.Degraded(),
			FetchedAt:  models.Timestamp(snap.FetchedAt),
			AgeSeconds: now.Sub(snap.FetchedAt).Seconds(),
		}
		if snap.Result.Outcome.Degraded() {
			overall = models.HealthStatusDegraded
		}
	} else {
		overall = models.HealthStatusDegraded
	}

	subsystems := []models.SubsystemStatus{}
	if h.db != nil {
		dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
		if err := h.db.Ping(r.Context()); err != nil {
			detail := err.Error()
			dbStatus.Status = models.HealthStatusFail
			dbStatus.Detail = &detail
			overall = models.HealthStatusFail
		}
		subsystems = append(subsystems, dbStatus)
	}

	providers := make([]models.ProviderStatus, 0, len(h.providers))
	for _, probe := range h.providers {
		state := probe.Client.BreakerState()
		providers = append(providers, models.ProviderStatus{
			Provider:     probe.Name,
			Status:       breakerHealth(state),
			BreakerState: state.String(),
		})
		if state == gobreaker.StateOpen && overall == models.HealthStatusOK {
			overall = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:     overall,
		Time:       models.Timestamp(now),
		Snapshot:   snapshotStatus,
		Subsystems: subsystems,
		Providers:  providers,
	})
}

// breakerHealth maps a circuit state to a health status.
func breakerHealth(state gobreaker.State) models.HealthStatus {
	switch state {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
