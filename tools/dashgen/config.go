package main

import "errors"

// KnownMetrics is the set of metric names exported by clicklar-devapi plus
// the recording rule names referenced in dashboards and alerts. Histogram
// series are listed by base name.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"clicklar_http_request_duration_seconds": true,
	"clicklar_http_requests_total":           true,

	// Health metrics.
	"clicklar_healthz_up": true,
	"clicklar_readyz_up":  true,

	// Store metrics.
	"clicklar_devapi_users":    true,
	"clicklar_devapi_services": true,

	// Recording rules.
	"clicklar:http_requests:rate5m":         true,
	"clicklar:http_errors:rate5m":           true,
	"clicklar:http_client_errors:rate5m":    true,
	"clicklar:http_request_duration:p95_5m": true,

	// Standard Prometheus and Go collector metrics.
	"up":                           true,
	"process_start_time_seconds":   true,
	"go_goroutines":                true,
	"go_memstats_heap_alloc_bytes": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
