// Package executor issues single HTTP requests against the routing front
// door and converts every outcome, including transport failures, into a
// ResultRecord. It never retries and never lets an error escape: failures
// are data, not faults to hide.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

const (
	// DefaultTimeout is the default per-request budget.
	DefaultTimeout = 30 * time.Second

	// DefaultVerb is the HTTP method used when none is configured.
	DefaultVerb = http.MethodPost

	// maxErrorDetailLen bounds the raw-message suffix appended to the
	// error classification in ResultRecord.ErrorDetail.
	maxErrorDetailLen = 256

	// maxResponseBody bounds how much of a response body is read to
	// measure its size. 16 MiB is far beyond any expected inference
	// response.
	maxResponseBody = 16 << 20
)

// Config configures an Executor.
type Config struct {
	// URL is the front-door endpoint. Required.
	URL string
	// APIKey is the credential attached to each request as a Bearer
	// token. Required.
	APIKey string
	// Verb is the HTTP method. Defaults to POST.
	Verb string
	// Timeout is the per-request budget. Defaults to DefaultTimeout.
	Timeout time.Duration
	// BodyFor returns the request body for a routing method. The
	// executor is agnostic to what the body means.
	BodyFor func(routingMethod string) []byte
}

// Executor issues one request per Do call through a shared http.Client.
type Executor struct {
	client *http.Client
	cfg    Config
}

// New returns an Executor using the given client. A nil client gets a
// default one whose connection pool will not throttle below typical gate
// limits.
func New(client *http.Client, cfg Config) *Executor {
	if cfg.Verb == "" {
		cfg.Verb = DefaultVerb
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        200,
				MaxIdleConnsPerHost: 200,
			},
		}
	}
	return &Executor{client: client, cfg: cfg}
}

// Do issues exactly one request for the given routing method and returns
// a fully populated ResultRecord. The measured latency covers dispatch to
// completion of the body read (or to the failure), never the caller's
// admission or pacing waits.
func (e *Executor) Do(ctx context.Context, routingMethod string) model.ResultRecord {
	rec := model.ResultRecord{
		RoutingMethod: routingMethod,
	}

	var body []byte
	if e.cfg.BodyFor != nil {
		body = e.cfg.BodyFor(routingMethod)
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	requestID := uuid.NewString()
	rec.IssuedAt = time.Now().UTC()
	start := time.Now()

	fail := func(class, msg string) model.ResultRecord {
		rec.LatencyMS = float64(time.Since(start)) / float64(time.Millisecond)
		rec.Success = false
		rec.ErrorDetail = class + ": " + truncate(msg)
		requestsTotalMetric.WithLabelValues(routingMethod, class).Inc()
		requestLatencyMetric.WithLabelValues(routingMethod).Observe(rec.LatencyMS)
		log.Debug("request failed", "method", routingMethod, "id", requestID,
			"class", class, "latency_ms", rec.LatencyMS)
		return rec
	}

	req, err := http.NewRequestWithContext(reqCtx, e.cfg.Verb, e.cfg.URL,
		bytes.NewReader(body))
	if err != nil {
		return fail(model.ErrClassConnection, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := e.client.Do(req)
	if err != nil {
		if isTimeout(reqCtx, err) {
			return fail(model.ErrClassTimeout, err.Error())
		}
		return fail(model.ErrClassConnection, err.Error())
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	rec.StatusCode = resp.StatusCode
	rec.ResponseSizeBytes = int64(len(respBody))
	if readErr != nil {
		if isTimeout(reqCtx, readErr) {
			return fail(model.ErrClassTimeout, readErr.Error())
		}
		return fail(model.ErrClassConnection, readErr.Error())
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		rec.LatencyMS = float64(time.Since(start)) / float64(time.Millisecond)
		rec.Success = true
		requestsTotalMetric.WithLabelValues(routingMethod, "success").Inc()
		requestLatencyMetric.WithLabelValues(routingMethod).Observe(rec.LatencyMS)
		log.Debug("request ok", "method", routingMethod, "id", requestID,
			"status", resp.StatusCode, "latency_ms", rec.LatencyMS)
		return rec
	}

	// 4xx and 5xx point at different fault domains (client/auth vs
	// server) and are kept distinct in the histogram.
	class := model.ErrClassHTTPOther
	switch {
	case resp.StatusCode >= 500:
		class = model.ErrClass5xx
	case resp.StatusCode >= 400:
		class = model.ErrClass4xx
	}
	msg := fmt.Sprintf("HTTP %d %s", resp.StatusCode,
		strings.TrimSpace(string(respBody)))
	return fail(class, msg)
}

// isTimeout reports whether err (or the request context) indicates the
// per-request budget expired, as opposed to a connection-level failure.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string) string {
	if len(s) > maxErrorDetailLen {
		return s[:maxErrorDetailLen]
	}
	return s
}
