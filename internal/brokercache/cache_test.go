package brokercache

import (
	"testing"
	"time"

	"github.com/rizkyandriawan/kafkaclient/internal/protocol"
)

func TestCacheHotTierOnlyPutGet(t *testing.T) {
	c, err := Open(Options{HotTTL: time.Minute})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	versions := []protocol.ApiVersion{{APIKey: protocol.APIKeyProduce, MinVersion: 0, MaxVersion: 2}}
	c.Put("broker-a:9092", versions)
	c.hot.Wait() // ristretto admits asynchronously; wait for the set to land

	got, ok := c.Get("broker-a:9092")
	if !ok {
		t.Fatal("Get after Put missed")
	}
	if len(got) != 1 || got[0] != versions[0] {
		t.Fatalf("Get = %+v, want %+v", got, versions)
	}
}

func TestCacheMissForUnknownEndpoint(t *testing.T) {
	c, err := Open(Options{HotTTL: time.Minute})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if _, ok := c.Get("never-seen:9092"); ok {
		t.Fatal("Get for an unknown endpoint should miss")
	}
}

func TestCacheRunGCNoopWithoutDurableTier(t *testing.T) {
	c, err := Open(Options{HotTTL: time.Minute})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if err := c.RunGC(); err != nil {
		t.Fatalf("RunGC without a durable tier = %v, want nil", err)
	}
}
