package reconcile

import "github.com/windlens/windlens/internal/wind"

// Outcome tags which path the reconciliation cascade took. Each outcome is
// terminal for a cycle; the next refresh starts fresh.
type Outcome string

const (
	// OutcomeMerged means every sample's gust came from a station observation.
	OutcomeMerged Outcome = "MERGED"

	// OutcomeMergedWithEstimationFill means observations covered some hour
	// buckets and the estimator filled the rest.
	OutcomeMergedWithEstimationFill Outcome = "MERGED_WITH_ESTIMATION_FILL"

	// OutcomeFullyEstimated means no usable observations existed and every
	// missing gust was estimated.
	OutcomeFullyEstimated Outcome = "FULLY_ESTIMATED"
)

// Degraded reports whether the outcome involved estimation instead of
// measured gusts. Informational status, not a failure.
func (o Outcome) Degraded() bool {
	return o == OutcomeMergedWithEstimationFill || o == OutcomeFullyEstimated
}

// Result is the outcome of one reconciliation cycle.
type Result struct {
	Outcome Outcome
	Series  wind.Series

	// MatchedSamples is how many samples had an observation in their bucket.
	MatchedSamples int

	// EstimatedSamples is how many gusts the estimator filled.
	EstimatedSamples int
}
