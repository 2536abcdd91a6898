package perf

import (
	"testing"
	"time"
)

// TestCollector_RecordAndSnapshot tests aggregation over recorded entries.
func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := NewCollector(16)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /stats/weekly", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /stats/weekly", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /dashboard", StatusCode: 200, DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "QueryContext", DurationMs: 2, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 5)

	if snap.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", snap.TotalRequests)
	}
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths = %d entries, want 2", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Path != "GET /stats/weekly" {
		t.Errorf("slowest path = %q, want the weekly endpoint", snap.SlowestPaths[0].Path)
	}
	if snap.SlowestPaths[0].AvgMs != 20 {
		t.Errorf("AvgMs = %v, want 20", snap.SlowestPaths[0].AvgMs)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries = %d entries, want 1", len(snap.SlowestQueries))
	}
}

// TestCollector_RingOverwrite tests that old entries are overwritten when full.
func TestCollector_RingOverwrite(t *testing.T) {
	c := NewCollector(4)
	now := time.Now()
	for i := 0; i < 10; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: float64(i), Timestamp: now})
	}

	if c.TotalRecorded() != 10 {
		t.Errorf("TotalRecorded = %d, want 10", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 5)
	if snap.TotalRequests != 4 {
		t.Errorf("TotalRequests = %d, want ring size 4", snap.TotalRequests)
	}
}

// TestCollector_SnapshotSinceFilter tests the time window filter.
func TestCollector_SnapshotSinceFilter(t *testing.T) {
	c := NewCollector(8)
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 1, Timestamp: old})
	c.Record(Entry{Kind: KindRequest, Path: "GET /new", DurationMs: 1, Timestamp: recent})

	snap := c.Snapshot(recent.Add(-time.Minute), 5)
	if snap.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1 (old entry filtered)", snap.TotalRequests)
	}
}
