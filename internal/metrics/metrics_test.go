package metrics

import (
	"errors"
	"testing"
	"time"
)

type call struct {
	name   string
	value  float64
	labels Labels
}

type recordingBackend struct {
	counters   []call
	histograms []call
	flushes    int
}

func (r *recordingBackend) IncCounter(name string, delta float64, labels Labels) {
	r.counters = append(r.counters, call{name, delta, labels})
}

func (r *recordingBackend) ObserveHistogram(name string, value float64, labels Labels) {
	r.histograms = append(r.histograms, call{name, value, labels})
}

func (r *recordingBackend) Flush() error {
	r.flushes++
	return nil
}

func TestRecordStep(t *testing.T) {
	rb := &recordingBackend{}
	SetBackend(rb)
	defer SetBackend(nil)

	RecordStep("extract", nil, 2*time.Second)
	RecordStep("extract", errors.New("boom"), time.Second)

	if len(rb.counters) != 2 || len(rb.histograms) != 2 {
		t.Fatalf("got %d counters, %d histograms; want 2, 2", len(rb.counters), len(rb.histograms))
	}
	if got := rb.counters[0].labels["status"]; got != "success" {
		t.Errorf("first status = %q, want success", got)
	}
	if got := rb.counters[1].labels["status"]; got != "failure" {
		t.Errorf("second status = %q, want failure", got)
	}
	if rb.histograms[0].name != OpDurationSeconds || rb.histograms[0].value != 2 {
		t.Errorf("histogram = %+v, want %s=2", rb.histograms[0], OpDurationSeconds)
	}
}

func TestRecordRowsSkipsNonPositive(t *testing.T) {
	rb := &recordingBackend{}
	SetBackend(rb)
	defer SetBackend(nil)

	RecordRows("clean", "dropped_empty", 0)
	RecordRows("clean", "dropped_empty", -3)
	RecordRows("clean", "dropped_duplicate", 4)

	if len(rb.counters) != 1 {
		t.Fatalf("got %d counters, want 1", len(rb.counters))
	}
	c := rb.counters[0]
	if c.name != RowsTotal || c.value != 4 || c.labels["kind"] != "dropped_duplicate" {
		t.Errorf("counter = %+v", c)
	}
}

func TestFlushDefaultsToNop(t *testing.T) {
	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}
