package models

import (
	"encoding/json"
	"net/http"
)

// Problem is an RFC 7807 error response body, served with
// Content-Type: application/problem+json.
type Problem struct {
	// Type is a URI identifying the problem class.
	Type string `json:"type"`

	// Title is a short human-readable summary of the problem class.
	Title string `json:"title"`

	// Status is the HTTP status code of this occurrence.
	Status int `json:"status"`

	// Detail explains this specific occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance is the request path that produced the problem.
	Instance string `json:"instance,omitempty"`

	// TraceID carries the request correlation ID so clients can report it.
	TraceID string `json:"traceId"`

	// Errors holds per-field validation failures.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError describes a validation failure on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Problem type URIs served by this API.
const (
	ProblemTypeValidation      = "https://api.windlens.dev/problems/validation-error"
	ProblemTypeUnauthorized    = "https://api.windlens.dev/problems/unauthorized"
	ProblemTypeNotFound        = "https://api.windlens.dev/problems/not-found"
	ProblemTypeTooManyRequests = "https://api.windlens.dev/problems/too-many-requests"
	ProblemTypeInternal        = "https://api.windlens.dev/problems/internal-error"
	ProblemTypeUnavailable     = "https://api.windlens.dev/problems/service-unavailable"
)

// NewProblem builds a Problem with the required fields.
func NewProblem(problemType, title string, status int, traceID string) *Problem {
	return &Problem{
		Type:    problemType,
		Title:   title,
		Status:  status,
		TraceID: traceID,
	}
}

// Write serializes the problem to the response with the problem+json media
// type. The trace ID is mirrored in X-Request-Id for log correlation.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Request-Id", p.TraceID)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewBadRequest builds a 400 validation problem.
func NewBadRequest(traceID, detail string, errors []FieldError) *Problem {
	p := NewProblem(ProblemTypeValidation, "Validation error", http.StatusBadRequest, traceID)
	p.Detail = detail
	p.Errors = errors
	return p
}

// NewUnauthorized builds a 401 problem.
func NewUnauthorized(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeUnauthorized, "Unauthorized", http.StatusUnauthorized, traceID)
	p.Detail = detail
	return p
}

// NewNotFound builds a 404 problem.
func NewNotFound(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeNotFound, "Not found", http.StatusNotFound, traceID)
	p.Detail = detail
	return p
}

// NewTooManyRequests builds a 429 problem.
func NewTooManyRequests(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests, traceID)
	p.Detail = detail
	return p
}

// NewInternalError builds a 500 problem.
func NewInternalError(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeInternal, "Internal server error", http.StatusInternalServerError, traceID)
	p.Detail = detail
	return p
}

// NewServiceUnavailable builds a 503 problem.
func NewServiceUnavailable(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeUnavailable, "Service unavailable", http.StatusServiceUnavailable, traceID)
	p.Detail = detail
	return p
}
