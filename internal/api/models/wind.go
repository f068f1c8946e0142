package models

// WindVector represents an interpolated wind vector at a point and height.
type WindVector struct {
	Eastward  float64 `json:"eastward"`
	Northward float64 `json:"northward"`
	Magnitude float64 `json:"magnitude"`
}

// WindVectorResponse is the response for point wind inspection.
type WindVectorResponse struct {
	Location   Point      `json:"location"`
	Height     float64    `json:"height"`
	Vector     WindVector `json:"vector"`
	Generation uint64     `json:"generation"`
	FetchedAt  Timestamp  `json:"fetchedAt"`
}

// WindSample is one hourly sample of the reconciled series.
type WindSample struct {
	Time      Timestamp `json:"time"`
	Speed     float64   `json:"speed"`
	Direction *float64  `json:"direction,omitempty"`
	Gust      *float64  `json:"gust,omitempty"`
	Daytime   bool      `json:"daytime"`
}

// WindSeriesResponse is the reconciled hourly series for the active location.
type WindSeriesResponse struct {
	Location         Point        `json:"location"`
	Outcome          string       `json:"outcome"`
	Degraded         bool         `json:"degraded"`
	StationName      string       `json:"stationName,omitempty"`
	MatchedSamples   int          `json:"matchedSamples"`
	EstimatedSamples int          `json:"estimatedSamples"`
	Samples          []WindSample `json:"samples"`
	Generation       uint64       `json:"generation"`
	FetchedAt        Timestamp    `json:"fetchedAt"`
}

// SafetyThresholds echoes the limits a verdict was evaluated against.
type SafetyThresholds struct {
	MaxSteady float64 `json:"maxSteady"`
	MaxGust   float64 `json:"maxGust"`
}

// SafetyResponse is the per-height operating verdict.
type SafetyResponse struct {
	Overall          bool             `json:"overall"`
	PerHeight        map[string]bool  `json:"perHeight"`
	SamplesEvaluated int              `json:"samplesEvaluated"`
	WindowFallback   bool             `json:"windowFallback"`
	Thresholds       SafetyThresholds `json:"thresholds"`
	Outcome          string           `json:"outcome"`
	Generation       uint64           `json:"generation"`
}

// RefreshRequest asks for a reconciliation cycle at a new location.
type RefreshRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RefreshResponse summarizes the cycle that the refresh produced.
type RefreshResponse struct {
	Location         Point     `json:"location"`
	Outcome          string    `json:"outcome"`
	StationName      string    `json:"stationName,omitempty"`
	SampleCount      int       `json:"sampleCount"`
	MatchedSamples   int       `json:"matchedSamples"`
	EstimatedSamples int       `json:"estimatedSamples"`
	Generation       uint64    `json:"generation"`
	FetchedAt        Timestamp `json:"fetchedAt"`
}
