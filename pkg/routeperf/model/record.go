// Package model contains the data types recorded during a load test and
// the archival format of the final report.
package model

import (
	"strings"
	"time"
)

// Routing methods exercised by the engine. The front door accepts exactly
// these two competing paths.
const (
	RoutingInternet = "internet"
	RoutingVPN      = "vpn"
)

// Error classes used in ErrorDetail prefixes and the error histogram.
const (
	ErrClassTimeout    = "timeout"
	ErrClassConnection = "connection_error"
	ErrClass4xx        = "http_4xx"
	ErrClass5xx        = "http_5xx"
	ErrClassHTTPOther  = "http_error"
)

// ResultRecord is one observed request outcome. Every dispatched request
// yields exactly one ResultRecord, whether it succeeded or not.
type ResultRecord struct {
	// IssuedAt is the time the request was dispatched (UTC).
	IssuedAt time.Time `json:"issued_at"`

	// RoutingMethod identifies which of the two competing paths was
	// exercised ("internet" or "vpn").
	RoutingMethod string `json:"routing_method"`

	// Success is true iff a response was received with a 2xx status.
	Success bool `json:"success"`

	// StatusCode is the HTTP status of the response, or 0 when the
	// failure happened below the HTTP layer.
	StatusCode int `json:"status_code"`

	// LatencyMS is the wall-clock time from dispatch to completion
	// (success or failure), in milliseconds. Always >= 0.
	LatencyMS float64 `json:"latency_ms"`

	// ErrorDetail is a short classification of the failure mode,
	// followed by the truncated raw error. Set iff Success is false.
	ErrorDetail string `json:"error_detail,omitempty"`

	// ResponseSizeBytes is the size of the response body, when it was
	// retrievable.
	ResponseSizeBytes int64 `json:"response_size_bytes,omitempty"`
}

// ErrorClass returns the taxonomy prefix of ErrorDetail ("timeout",
// "connection_error", "http_4xx", ...), or the empty string for a
// successful record.
func (r *ResultRecord) ErrorClass() string {
	if r.Success || r.ErrorDetail == "" {
		return ""
	}
	if i := strings.IndexByte(r.ErrorDetail, ':'); i >= 0 {
		return r.ErrorDetail[:i]
	}
	return r.ErrorDetail
}
