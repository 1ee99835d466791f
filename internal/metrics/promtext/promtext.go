// Package promtext implements a Prometheus backend for the metrics package.
//
// Collected metrics live on a private registry. Flush writes them to a
// node-exporter textfile and/or pushes them to a Pushgateway, since the CLI
// is short-lived and never serves a scrape endpoint.
package promtext

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/ukaji3/sheetshape-go/internal/metrics"
)

// Options configures where Flush sends metrics. At least one target is required.
type Options struct {
	// TextfilePath is written atomically with the registry contents.
	TextfilePath string
	// GatewayURL is the base URL of a Prometheus Pushgateway.
	GatewayURL string
	// Job is the Pushgateway job name; defaults to "sheetshape".
	Job string
}

// Backend is a Prometheus metrics backend.
type Backend struct {
	opts Options
	reg  *prometheus.Registry

	opCounter  *prometheus.CounterVec
	opDuration *prometheus.HistogramVec
	rowCounter *prometheus.CounterVec
}

// NewBackend constructs a Prometheus backend.
func NewBackend(opts Options) (*Backend, error) {
	if opts.TextfilePath == "" && opts.GatewayURL == "" {
		return nil, errors.New("promtext: textfile path or gateway URL is required")
	}
	if opts.Job == "" {
		opts.Job = "sheetshape"
	}

	reg := prometheus.NewRegistry()

	opCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.OpTotal,
			Help: "Engine operations, partitioned by operation and status.",
		},
		[]string{"op", "status"},
	)
	opDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metrics.OpDurationSeconds,
			Help:    "Duration of engine operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		},
		[]string{"op", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row counts per operation and kind (extracted, dropped_empty, dropped_duplicate).",
		},
		[]string{"op", "kind"},
	)

	for _, c := range []prometheus.Collector{opCounter, opDuration, rowCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("promtext: register collector: %w", err)
		}
	}

	return &Backend{
		opts:       opts,
		reg:        reg,
		opCounter:  opCounter,
		opDuration: opDuration,
		rowCounter: rowCounter,
	}, nil
}

// Registry exposes the underlying registry.
func (b *Backend) Registry() *prometheus.Registry { return b.reg }

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.OpTotal:
		b.opCounter.WithLabelValues(labels["op"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rowCounter.WithLabelValues(labels["op"], labels["kind"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.OpDurationSeconds {
		return
	}
	b.opDuration.WithLabelValues(labels["op"], labels["status"]).Observe(value)
}

// Flush writes the textfile and pushes to the gateway, whichever are configured.
func (b *Backend) Flush() error {
	var errs []error
	if b.opts.TextfilePath != "" {
		if err := prometheus.WriteToTextfile(b.opts.TextfilePath, b.reg); err != nil {
			errs = append(errs, fmt.Errorf("promtext: write textfile: %w", err))
		}
	}
	if b.opts.GatewayURL != "" {
		if err := push.New(b.opts.GatewayURL, b.opts.Job).Gatherer(b.reg).Push(); err != nil {
			errs = append(errs, fmt.Errorf("promtext: push: %w", err))
		}
	}
	return errors.Join(errs...)
}
