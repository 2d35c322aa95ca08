package conn

import (
	"sync"
	"testing"
)

func TestSlotTablePutRejectsDuplicateID(t *testing.T) {
	tbl := newSlotTable()
	s1 := newSlot(1, 0)
	s2 := newSlot(1, 0)

	if !tbl.put(1, s1) {
		t.Fatal("first put for id 1 should succeed")
	}
	if tbl.put(1, s2) {
		t.Fatal("second put for the same id should fail")
	}
}

func TestSlotTableTakeRemovesEntry(t *testing.T) {
	tbl := newSlotTable()
	s := newSlot(5, 0)
	tbl.put(5, s)

	got, found := tbl.take(5)
	if !found || got != s {
		t.Fatalf("take(5) = %v, %v", got, found)
	}
	if _, found := tbl.take(5); found {
		t.Fatal("take(5) should not find the slot twice")
	}
}

func TestSlotTableDrainEmptiesAllShards(t *testing.T) {
	tbl := newSlotTable()
	for i := int32(0); i < 100; i++ {
		tbl.put(i, newSlot(i, 0))
	}

	drained := tbl.drain()
	if len(drained) != 100 {
		t.Fatalf("drained %d slots, want 100", len(drained))
	}
	if len(tbl.drain()) != 0 {
		t.Fatal("second drain should find nothing left")
	}
}

func TestSlotTableConcurrentPutTake(t *testing.T) {
	tbl := newSlotTable()
	var wg sync.WaitGroup
	const n = 1000
	for i := int32(0); i < n; i++ {
		wg.Add(1)
		go func(id int32) {
			defer wg.Done()
			s := newSlot(id, 0)
			if !tbl.put(id, s) {
				t.Errorf("put(%d) unexpectedly failed", id)
				return
			}
			got, found := tbl.take(id)
			if !found || got != s {
				t.Errorf("take(%d) = %v, %v", id, got, found)
			}
		}(i)
	}
	wg.Wait()
}
