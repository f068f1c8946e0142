package models

import "github.com/windlens/windlens/internal/history"

// CycleList wraps a page of persisted reconciliation cycles.
type CycleList struct {
	Items []history.CycleRecord `json:"items"`
}
