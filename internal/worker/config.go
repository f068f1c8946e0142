// Package worker provides the background reconciliation loop for windlens.
package worker

import (
	"time"

	"github.com/windlens/windlens/internal/reconcile"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// DefaultHome is the location refreshed when no target has been set yet.
// De Bilt, where the KNMI reference station sits.
var DefaultHome = Point{Lat: 52.1093, Lon: 5.1810}

// RefresherConfig holds configuration for the background refresher.
type RefresherConfig struct {
	// Home is the initial refresh target. Zero value uses DefaultHome.
	Home Point

	// Interval is the time between refresh cycles.
	// Default: reconcile.DefaultRefreshInterval.
	Interval time.Duration

	// Timeout bounds each refresh cycle. Default: 60 seconds.
	Timeout time.Duration
}

func (c RefresherConfig) withDefaults() RefresherConfig {
	if c.Home == (Point{}) {
		c.Home = DefaultHome
	}
	if c.Interval <= 0 {
		c.Interval = reconcile.DefaultRefreshInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}
