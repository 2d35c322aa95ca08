package telemetry

import (
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr/funcr"
)

func TestNotifyProduceLogsHumanizedSizes(t *testing.T) {
	var mu sync.Mutex
	var lines []string
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	tel := New("kafkaclient-test", WithLogger(log))
	tel.NotifyProduce(3, 2048, 512)

	mu.Lock()
	defer mu.Unlock()
	if len(lines) == 0 {
		t.Fatal("NotifyProduce did not log anything")
	}
	if !strings.Contains(lines[0], "messages") {
		t.Errorf("log line = %q, want it to mention message count", lines[0])
	}
	if !strings.Contains(lines[0], "2.0 kB") {
		t.Errorf("log line = %q, want humanized request size 2.0 kB", lines[0])
	}
}

func TestNotifyProduceSkipsSavedCounterWhenZero(t *testing.T) {
	tel := New("kafkaclient-test")
	// compressedBytes == 0 must not panic the noop counter path; this just
	// exercises the branch, the noop meter has no observable state.
	tel.NotifyProduce(1, 100, 0)
}

func TestInfoAndErrorAttachFieldsAsKeyValuePairs(t *testing.T) {
	var mu sync.Mutex
	var captured []string
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		captured = append(captured, args)
	}, funcr.Options{})

	tel := New("kafkaclient-test", WithLogger(log))
	tel.Info("connected", Fields{"broker": "localhost:9092"})
	tel.Error(nil, "disconnected", Fields{"broker": "localhost:9092", "reason": "eof"})

	mu.Lock()
	defer mu.Unlock()
	if len(captured) != 2 {
		t.Fatalf("got %d log lines, want 2", len(captured))
	}
	for _, line := range captured {
		if !strings.Contains(line, "broker") {
			t.Errorf("log line = %q, want it to carry the broker field", line)
		}
	}
}
