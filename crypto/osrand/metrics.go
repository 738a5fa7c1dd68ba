package osrand

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "osrand"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Whether getrandom(2) was found on the running kernel (1) or not (0).
	SyscallAvailable metrics.Gauge

	// Number of sources resolved, labelled by source ("getrandom" or
	// "device").
	Resolutions metrics.Counter

	// Number of failed fills, labelled by the stage that failed.
	Failures metrics.Counter

	// Total bytes handed out to callers.
	BytesFilled metrics.Counter

	// Time spent blocked on the entropy pool readiness read.
	ReadinessWaitSeconds metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	withLabel := func(l string) []string {
		return append(append([]string{}, labels...), l)
	}
	return &Metrics{
		SyscallAvailable: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "syscall_available",
			Help:      "Whether getrandom(2) is supported by the kernel.",
		}, labels).With(labelsAndValues...),
		Resolutions: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "resolutions",
			Help:      "Number of random sources resolved, by source.",
		}, withLabel("source")).With(labelsAndValues...),
		Failures: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "failures",
			Help:      "Number of failed fills, by stage.",
		}, withLabel("stage")).With(labelsAndValues...),
		BytesFilled: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "bytes_filled",
			Help:      "Total number of random bytes returned to callers.",
		}, labels).With(labelsAndValues...),
		ReadinessWaitSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "readiness_wait_seconds",
			Help:      "Time spent blocked waiting for the entropy pool to be seeded.",
			Buckets:   stdprometheus.ExponentialBuckets(0.0001, 10, 7),
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		SyscallAvailable:     discard.NewGauge(),
		Resolutions:          discard.NewCounter(),
		Failures:             discard.NewCounter(),
		BytesFilled:          discard.NewCounter(),
		ReadinessWaitSeconds: discard.NewHistogram(),
	}
}
