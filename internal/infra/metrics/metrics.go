// Package metrics exposes in-process counters over a small /metrics endpoint.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/sirupsen/logrus"
)

// Config for metrics collection.
type Config struct {
	Enabled bool
	Port    int
	Path    string
}

var config Config

// Init starts the metrics endpoint when enabled. Safe to call once at startup.
func Init(cfg Config, log *logrus.Logger) {
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}
	config = cfg

	if !config.Enabled {
		log.Debug("metrics collection is disabled")
		return
	}

	go serve(log)
}

func serve(log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc(config.Path, func(w http.ResponseWriter, r *http.Request) {
		vm.WritePrometheus(w, true)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf("127.0.0.1:%d", config.Port)
	log.WithField("addr", addr).Info("starting metrics server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics server stopped")
	}
}

// IsEnabled returns true if metrics collection is enabled.
func IsEnabled() bool {
	return config.Enabled
}

// RecordSearchDate records the outcome of one searched date:
// "flights", "empty" or "error".
func RecordSearchDate(outcome string) {
	if !IsEnabled() {
		return
	}
	vm.GetOrCreateCounter(`flightwatch_search_dates_total{outcome="` + outcome + `"}`).Inc()
}

// RecordFlightsFound adds to the running total of flight results seen.
func RecordFlightsFound(count int) {
	if !IsEnabled() {
		return
	}
	vm.GetOrCreateCounter(`flightwatch_flights_found_total`).Add(count)
}

// RecordTelegramCall records one finished messaging-backend call.
func RecordTelegramCall(method string, success bool) {
	if !IsEnabled() {
		return
	}
	name := `flightwatch_telegram_calls_total{method="` + method + `",success="` + strconv.FormatBool(success) + `"}`
	vm.GetOrCreateCounter(name).Inc()
}

// RecordTelegramRetry records one rate-limited attempt that will be retried.
func RecordTelegramRetry(method string) {
	if !IsEnabled() {
		return
	}
	vm.GetOrCreateCounter(`flightwatch_telegram_retries_total{method="` + method + `"}`).Inc()
}

// RecordDedupHit records one alert suppressed by the history check.
func RecordDedupHit() {
	if !IsEnabled() {
		return
	}
	vm.GetOrCreateCounter(`flightwatch_dedup_hits_total`).Inc()
}

// RecordCycleCompleted records one finished search cycle.
func RecordCycleCompleted() {
	if !IsEnabled() {
		return
	}
	vm.GetOrCreateCounter(`flightwatch_cycles_completed_total`).Inc()
}
