package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/tickets", "GET", "NOT_FOUND")
	m.RecordEvent("ticket_created")

	snap := m.Snapshot()
	key := "/api/tickets|GET|200"
	if snap.Requests[key] != 2 {
		t.Fatalf("requests = %v", snap.Requests)
	}
	if snap.AvgLatencyMS[key] != 20 {
		t.Fatalf("avg latency = %d, want 20", snap.AvgLatencyMS[key])
	}
	if snap.Errors["/api/tickets|GET|NOT_FOUND"] != 1 {
		t.Fatalf("errors = %v", snap.Errors)
	}
	if snap.EventsEmitted["ticket_created"] != 1 {
		t.Fatalf("events = %v", snap.EventsEmitted)
	}

	snap.Requests[key] = 99
	if m.Snapshot().Requests[key] != 2 {
		t.Fatal("snapshot shares maps with live counters")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordEvent("x")
	if snap := m.Snapshot(); len(snap.Requests) != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
}
