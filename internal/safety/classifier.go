// Package safety classifies wind conditions against drone operating limits.
package safety

import (
	"errors"
	"sort"
	"time"

	"github.com/windlens/windlens/internal/profile"
	"github.com/windlens/windlens/internal/wind"
)

// ErrNoSamples is returned when classification is asked for an empty series.
var ErrNoSamples = errors.New("no samples to classify")

// Thresholds are the operating limits, in m/s. Process-wide and immutable at
// runtime; kept as a struct so alternative limits can be substituted.
type Thresholds struct {
	MaxSteady float64
	MaxGust   float64
}

// DefaultThresholds returns the standard drone operating limits.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxSteady: 11.0, MaxGust: 12.0}
}

// Verdict is the classification result for a set of operating heights.
type Verdict struct {
	// PerHeight maps each requested height to whether every evaluated sample
	// stayed within limits at that height.
	PerHeight map[float64]bool

	// Overall is the conjunction over all heights.
	Overall bool

	// SamplesEvaluated is how many samples contributed to the verdict.
	SamplesEvaluated int

	// WindowFallback reports that no samples fell inside the requested
	// window and the first two chronological samples were used instead.
	WindowFallback bool
}

// Classifier evaluates sample series against thresholds at one or more
// heights. Stateless; safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
	alpha      float64
}

// NewClassifier creates a Classifier. Zero thresholds fall back to defaults.
func NewClassifier(thresholds Thresholds) *Classifier {
	if thresholds.MaxSteady <= 0 {
		thresholds = DefaultThresholds()
	}
	return &Classifier{thresholds: thresholds, alpha: profile.DefaultAlpha}
}

// IsSafe evaluates a single steady/gust pair against the thresholds.
// A nil gust passes the gust check; only measured gusts can violate it.
func (c *Classifier) IsSafe(speed float64, gust *float64) bool {
	if speed > c.thresholds.MaxSteady {
		return false
	}
	if gust != nil && *gust > c.thresholds.MaxGust {
		return false
	}
	return true
}

// Classify evaluates the samples falling in [windowStart, windowEnd] at each
// of the given heights. A height is safe only if every evaluated sample is
// within limits there. When the window selects nothing, the first two
// chronological samples are used so a verdict is always produced.
func (c *Classifier) Classify(samples []wind.Sample, heights []float64, windowStart, windowEnd time.Time) (Verdict, error) {
	if len(samples) == 0 {
		return Verdict{}, ErrNoSamples
	}

	selected := make([]wind.Sample, 0, len(samples))
	for _, s := range samples {
		if !s.Timestamp.Before(windowStart) && !s.Timestamp.After(windowEnd) {
			selected = append(selected, s)
		}
	}

	fallback := false
	if len(selected) == 0 {
		// Sparse or stale data: fall back to the earliest two samples rather
		// than refusing to answer. TODO: revisit for multi-day-old series,
		// where the earliest samples say little about current conditions.
		fallback = true
		sorted := make([]wind.Sample, len(samples))
		copy(sorted, samples)
		sort.Slice(sorted, func(a, b int) bool {
			return sorted[a].Timestamp.Before(sorted[b].Timestamp)
		})
		if len(sorted) > 2 {
			sorted = sorted[:2]
		}
		selected = sorted
	}

	verdict := Verdict{
		PerHeight:        make(map[float64]bool, len(heights)),
		Overall:          true,
		SamplesEvaluated: len(selected),
		WindowFallback:   fallback,
	}

	for _, height := range heights {
		safe := true
		for _, s := range selected {
			speed, err := profile.Extrapolate(s.Speed, wind.ReferenceHeight, height, c.alpha)
			if err != nil {
				return Verdict{}, err
			}
			// Only the steady speed follows the vertical profile. Gusts are
			// short-lived turbulence, not boundary-layer flow, so the measured
			// value is compared as reported.
			if !c.IsSafe(speed, s.Gust) {
				safe = false
				break
			}
		}
		verdict.PerHeight[height] = safe
		if !safe {
			verdict.Overall = false
		}
	}

	return verdict, nil
}
