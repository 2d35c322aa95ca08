package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(filepath.Join(dir, "audit.db"), 16)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()

	log.Record("broker-a:9092", "connect", "")
	log.Record("broker-a:9092", "timeout", "deadline exceeded")
	log.Record("broker-b:9092", "connect", "")

	// Close flushes the queue synchronously before returning, so Recent
	// against a fresh handle on the same file would also see these rows;
	// here we just wait for the background drain to catch up.
	deadline := time.Now().Add(time.Second)
	var events []Event
	for time.Now().Before(deadline) {
		events, err = log.Recent("broker-a:9092", 10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(events) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(events) != 2 {
		t.Fatalf("Recent returned %d events, want 2", len(events))
	}
	// newest first
	if events[0].Type != "timeout" || events[1].Type != "connect" {
		t.Fatalf("events = %+v, want [timeout, connect]", events)
	}
}

func TestRecordDropsWhenQueueFull(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(filepath.Join(dir, "audit.db"), 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()

	for i := 0; i < 100; i++ {
		log.Record("broker:9092", "connect", "")
	}
	if log.Dropped() == 0 {
		t.Fatal("expected some events to be dropped with a queue size of 1")
	}
}

func TestCloseFlushesQueuedEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.db")
	log, err := Open(path, 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	log.Record("broker:9092", "dispose", "")
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	log2, err := Open(path, 64)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer log2.Close()
	events, err := log2.Recent("broker:9092", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 || events[0].Type != "dispose" {
		t.Fatalf("events after reopen = %+v, want one dispose event", events)
	}
}
