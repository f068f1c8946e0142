// Package reconcile merges forecast series with station observations and
// fills gaps with a gust-factor estimator.
package reconcile

import (
	"time"

	"github.com/windlens/windlens/internal/wind"
)

// GustFactor is the ratio of estimated gust to steady speed used when no
// measured gust is available for an hour bucket.
const GustFactor = 1.4

// bucketKey reduces a timestamp to hour granularity so forecast samples and
// observations from the same hour line up regardless of minute offsets.
func bucketKey(t time.Time) string {
	return t.UTC().Format("2006-01-02-15")
}

// observedGusts indexes non-nil observation gusts by hour bucket.
// Later records win within a bucket; stations report newest last.
func observedGusts(observations []wind.ObservationRecord) map[string]*float64 {
	byBucket := make(map[string]*float64, len(observations))
	for _, obs := range observations {
		if obs.Gust == nil {
			continue
		}
		byBucket[bucketKey(obs.Timestamp)] = obs.Gust
	}
	return byBucket
}

// Merge overlays observed gusts onto forecast samples by hour bucket.
// A forecast sample whose bucket has a matching observation with a non-nil
// gust gets that gust; everything else passes through unchanged. The forecast
// order and timestamps are preserved, and the operation is idempotent.
func Merge(forecast []wind.Sample, observations []wind.ObservationRecord) wind.Series {
	byBucket := observedGusts(observations)

	merged := make([]wind.Sample, len(forecast))
	copy(merged, forecast)
	for i := range merged {
		if gust, ok := byBucket[bucketKey(merged[i].Timestamp)]; ok {
			g := *gust
			merged[i].Gust = &g
		}
	}
	return wind.Series{Samples: merged}
}

// EstimateMissingGusts fills gust = speed * GustFactor for every sample still
// lacking one. Existing gusts are never modified, so repeated application is
// a no-op.
func EstimateMissingGusts(series wind.Series) wind.Series {
	filled := make([]wind.Sample, len(series.Samples))
	copy(filled, series.Samples)
	for i := range filled {
		if filled[i].Gust == nil {
			g := filled[i].Speed * GustFactor
			filled[i].Gust = &g
		}
	}
	return wind.Series{Samples: filled}
}

// Reconcile runs the full cascade: merge observations where available, then
// estimate gusts for any samples left unmatched. The returned Result tags
// which path was taken so callers can surface degraded coverage without the
// pipeline knowing about notification concerns.
func Reconcile(forecast wind.Series, observations []wind.ObservationRecord) Result {
	if len(forecast.Samples) == 0 {
		return Result{Outcome: OutcomeFullyEstimated, Series: forecast}
	}

	if len(observations) == 0 {
		return Result{
			Outcome:          OutcomeFullyEstimated,
			Series:           EstimateMissingGusts(forecast),
			EstimatedSamples: countMissingGusts(forecast),
		}
	}

	merged := Merge(forecast.Samples, observations)

	byBucket := observedGusts(observations)
	matched := 0
	for _, s := range merged.Samples {
		if _, ok := byBucket[bucketKey(s.Timestamp)]; ok {
			matched++
		}
	}

	missing := countMissingGusts(merged)
	if missing == 0 {
		return Result{
			Outcome:        OutcomeMerged,
			Series:         merged,
			MatchedSamples: matched,
		}
	}

	return Result{
		Outcome:          OutcomeMergedWithEstimationFill,
		Series:           EstimateMissingGusts(merged),
		MatchedSamples:   matched,
		EstimatedSamples: missing,
	}
}

func countMissingGusts(series wind.Series) int {
	n := 0
	for _, s := range series.Samples {
		if s.Gust == nil {
			n++
		}
	}
	return n
}
