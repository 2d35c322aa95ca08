package conn

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// slotShardCount is the number of independent shards the in-flight slot
// table is split across. Sized for the concurrent-send case: many
// goroutines registering and completing slots at once should contend on
// different locks rather than one map-wide mutex.
const slotShardCount = 16

type slotShard struct {
	mu    sync.Mutex
	slots map[int32]*slot
}

// slotTable is a correlation-id-keyed map sharded by xxhash of the id, so
// registration, lookup, and removal for unrelated correlation ids don't
// serialize on one lock.
type slotTable struct {
	shards [slotShardCount]*slotShard
}

func newSlotTable() *slotTable {
	t := &slotTable{}
	for i := range t.shards {
		t.shards[i] = &slotShard{slots: make(map[int32]*slot)}
	}
	return t
}

func (t *slotTable) shardFor(id int32) *slotShard {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(id))
	h := xxhash.Sum64(buf[:])
	return t.shards[h%uint64(slotShardCount)]
}

// put registers s under id if no slot is already registered there,
// reporting whether the registration succeeded.
func (t *slotTable) put(id int32, s *slot) bool {
	sh := t.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, exists := sh.slots[id]; exists {
		return false
	}
	sh.slots[id] = s
	return true
}

func (t *slotTable) remove(id int32) {
	sh := t.shardFor(id)
	sh.mu.Lock()
	delete(sh.slots, id)
	sh.mu.Unlock()
}

// take removes and returns the slot registered under id, if any.
func (t *slotTable) take(id int32) (*slot, bool) {
	sh := t.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	s, found := sh.slots[id]
	if found {
		delete(sh.slots, id)
	}
	return s, found
}

// drain empties every shard and returns everything that was pending.
func (t *slotTable) drain() []*slot {
	var out []*slot
	for _, sh := range t.shards {
		sh.mu.Lock()
		for id, s := range sh.slots {
			out = append(out, s)
			delete(sh.slots, id)
		}
		sh.mu.Unlock()
	}
	return out
}
