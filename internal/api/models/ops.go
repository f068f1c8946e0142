package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemStatus represents the overall system status.
type SystemStatus struct {
	Status     HealthStatus      `json:"status"`
	Time       Timestamp         `json:"time"`
	Snapshot   *SnapshotStatus   `json:"snapshot,omitempty"`
	Subsystems []SubsystemStatus `json:"subsystems"`
	Providers  []ProviderStatus  `json:"providers"`
}

// SnapshotStatus describes the currently published reconciliation snapshot.
type SnapshotStatus struct {
	Generation uint64    `json:"generation"`
	Outcome    string    `json:"outcome"`
	Degraded   bool      `json:"degraded"`
	FetchedAt  Timestamp `json:"fetchedAt"`
	AgeSeconds float64   `json:"ageSeconds"`
}

// SubsystemStatus represents the status of a subsystem.
type SubsystemStatus struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
	Detail *string      `json:"detail,omitempty"`
}

// ProviderStatus represents the status of an external provider.
type ProviderStatus struct {
	Provider     string       `json:"provider"`
	Status       HealthStatus `json:"status"`
	BreakerState string       `json:"breakerState,omitempty"`
}
