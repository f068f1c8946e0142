// Package handler provides HTTP handlers for the windlens API.
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// queryFloat parses a required float query parameter.
func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %q", name)
	}
	return value, nil
}

// queryFloatDefault parses an optional float query parameter.
func queryFloatDefault(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %q", name)
	}
	return value, nil
}

// queryTimeDefault parses an optional RFC3339 query parameter.
func queryTimeDefault(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid value for %q, want RFC3339", name)
	}
	return value, nil
}

// formatHeight renders a height map key without trailing zeros.
func formatHeight(height float64) string {
	return strconv.FormatFloat(height, 'f', -1, 64)
}

// queryFloatList parses an optional comma-separated float list parameter.
func queryFloatList(r *http.Request, name string, fallback []float64) ([]float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	parts := strings.Split(raw, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q", name)
		}
		values = append(values, value)
	}
	return values, nil
}
