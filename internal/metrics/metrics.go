// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the extraction engine.
//
// A global, pluggable backend defaults to a no-op implementation, so metrics
// are always safe to call even when no real backend is configured. Concrete
// systems live in subpackages (see promtext).
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the engine.
const (
	OpTotal           = "sheetshape_op_total"
	OpDurationSeconds = "sheetshape_op_duration_seconds"
	RowsTotal         = "sheetshape_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or writes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil restores the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		b = nopBackend{}
	}
	backend = b
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep measures latency and success/failure of one engine operation.
func RecordStep(op string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"op": op, "status": status}

	b := current()
	b.IncCounter(OpTotal, 1, lbls)
	b.ObserveHistogram(OpDurationSeconds, d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given operation and kind.
//
// Kinds used by the engine:
//   - "extracted"
//   - "dropped_empty"
//   - "dropped_duplicate"
func RecordRows(op, kind string, delta int) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{"op": op, "kind": kind})
}
