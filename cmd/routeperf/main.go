// Command routeperf load-tests the cross-partition routing front door and
// compares the two routing methods (internet and vpn) statistically.
//
// It drives shaped traffic (sustained, stress ramp or spike) at the
// configured endpoint, records every request outcome, and writes a JSON
// report with per-method summaries and, when both methods were tested,
// significance tests and a recommendation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/report"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

var (
	flagAPIURL     = flag.String("api-url", "", "Base URL of the routing front door")
	flagAPIKey     = flag.String("api-key", "", "Credential attached to each request")
	flagRouting    = flag.String("routing-method", "both", "Routing method to test (internet|vpn|both)")
	flagDuration   = flag.Int("duration", int(routeperf.DefaultDuration/time.Second), "Total run duration in seconds")
	flagRPS        = flag.Int("rps", routeperf.DefaultRPS, "Baseline target requests per second")
	flagMaxRPS     = flag.Int("max-rps", routeperf.DefaultMaxRPS, "Peak rate for stress and spike profiles")
	flagConcurrent = flag.Int("concurrent-requests", routeperf.DefaultConcurrentRequests, "Maximum simultaneous in-flight requests")
	flagStress     = flag.Bool("stress-test", false, "Run the ramping stress profile")
	flagSpike      = flag.Bool("spike-test", false, "Run the spike profile")
	flagOutput     = flag.String("output-file", "", "Path to write the JSON report to")
	flagTimeout    = flag.Duration("request-timeout", 30*time.Second, "Per-request timeout (use 60s for comparison runs)")
	flagVerbose    = flag.Bool("verbose", false, "Enable debug logging")
)

// routingMethods maps the -routing-method flag to the method list.
func routingMethods(v string) ([]string, error) {
	switch v {
	case model.RoutingInternet:
		return []string{model.RoutingInternet}, nil
	case model.RoutingVPN:
		return []string{model.RoutingVPN}, nil
	case "both":
		return []string{model.RoutingInternet, model.RoutingVPN}, nil
	}
	return nil, fmt.Errorf("routing-method %q is not one of internet, vpn, both", v)
}

// requestBody builds the per-method request payload. The engine is
// agnostic to its contents; the front door reads routing_method to pick
// the path under test.
func requestBody(method string) []byte {
	return []byte(fmt.Sprintf(`{"routing_method":%q}`, method))
}

func main() {
	flag.Parse()
	rtx.Must(flagx.ArgsFromEnv(flag.CommandLine), "failed to read args from env")

	log.SetReportTimestamp(true)
	if *flagVerbose {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}

	if *flagStress && *flagSpike {
		rtx.Must(errors.New("stress-test and spike-test are mutually exclusive"),
			"invalid configuration")
	}
	profile := routeperf.ProfileSustained
	switch {
	case *flagStress:
		profile = routeperf.ProfileStress
	case *flagSpike:
		profile = routeperf.ProfileSpike
	}

	methods, err := routingMethods(*flagRouting)
	rtx.Must(err, "invalid configuration")

	if *flagOutput == "" {
		rtx.Must(errors.New("output-file must be non-empty"), "invalid configuration")
	}

	runner, err := routeperf.NewRunner(routeperf.Config{
		APIURL:             *flagAPIURL,
		APIKey:             *flagAPIKey,
		RoutingMethods:     methods,
		Profile:            profile,
		Duration:           time.Duration(*flagDuration) * time.Second,
		RPS:                *flagRPS,
		MaxRPS:             *flagMaxRPS,
		ConcurrentRequests: *flagConcurrent,
		RequestTimeout:     *flagTimeout,
		BodyFor:            requestBody,
	})
	rtx.Must(err, "invalid configuration")

	promSrv := prometheusx.MustServeMetrics()
	defer promSrv.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, runErr := runner.Run(ctx)

	// The report is written even when the run was cut short, so partial
	// data is never silently lost.
	rtx.Must(report.Write(*flagOutput, rep), "failed to write report")
	log.Info("report written", "path", *flagOutput)

	if runErr != nil {
		log.Error("run did not complete", "err", runErr)
		os.Exit(1)
	}
}
