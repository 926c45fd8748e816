// Package routeperf drives two competing routing paths behind one HTTP
// front door with shaped concurrent traffic and produces a statistical
// comparison of their latency and reliability.
package routeperf

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

// Load profiles.
const (
	ProfileSustained = "sustained"
	ProfileStress    = "stress"
	ProfileSpike     = "spike"
)

// Defaults for the CLI contract.
const (
	DefaultDuration           = 300 * time.Second
	DefaultRPS                = 10
	DefaultMaxRPS             = 50
	DefaultConcurrentRequests = 20
)

// Config is the configuration for one run.
type Config struct {
	// APIURL is the front-door endpoint URL. Required.
	APIURL string
	// APIKey is the credential attached to each request. Required.
	APIKey string

	// RoutingMethods are the paths to exercise, each one of
	// model.RoutingInternet or model.RoutingVPN. One or two entries.
	RoutingMethods []string

	// Profile selects the traffic shape: sustained, stress or spike.
	Profile string

	// Duration is the total run wall-clock budget.
	Duration time.Duration
	// RPS is the baseline aggregate target rate.
	RPS int
	// MaxRPS is the peak rate for the stress and spike profiles.
	MaxRPS int
	// ConcurrentRequests bounds simultaneous in-flight requests.
	ConcurrentRequests int
	// RequestTimeout is the per-request budget. Defaults to 30s;
	// comparison runs against slow cross-partition paths may want 60s.
	RequestTimeout time.Duration

	// Verb is the HTTP method, POST by default.
	Verb string
	// BodyFor builds the request body for a routing method. The engine
	// is agnostic to its contents.
	BodyFor func(routingMethod string) []byte

	// Client overrides the HTTP client. Mostly for tests.
	Client *http.Client

	// Emitter receives progress callbacks. Defaults to HumanReadable.
	Emitter Emitter
}

// Validate rejects fatal misconfiguration before any traffic is
// generated. Errors name the offending parameter.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api-url must be non-empty")
	}
	if c.APIKey == "" {
		return errors.New("api-key must be non-empty")
	}
	if len(c.RoutingMethods) == 0 || len(c.RoutingMethods) > 2 {
		return errors.New("routing-method must select one or both of internet and vpn")
	}
	seen := map[string]bool{}
	for _, m := range c.RoutingMethods {
		if m != model.RoutingInternet && m != model.RoutingVPN {
			return fmt.Errorf("routing-method %q is not one of internet, vpn", m)
		}
		if seen[m] {
			return fmt.Errorf("routing-method %q given twice", m)
		}
		seen[m] = true
	}
	switch c.Profile {
	case ProfileSustained, ProfileStress, ProfileSpike:
	default:
		return fmt.Errorf("profile %q is not one of sustained, stress, spike", c.Profile)
	}
	if c.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	if c.RPS <= 0 {
		return errors.New("rps must be positive")
	}
	if c.MaxRPS < c.RPS {
		return errors.New("max-rps must be >= rps")
	}
	if c.ConcurrentRequests <= 0 {
		return errors.New("concurrent-requests must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request-timeout must be positive")
	}
	return nil
}
