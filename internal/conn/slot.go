package conn

import "sync"

// slotResult is what the reader loop (success) or the timeout/cancel/
// dispose paths (failure) deliver to a waiting Send call.
type slotResult struct {
	frame []byte
	err   error
}

// slot tracks one in-flight request, held in the connection's correlation
// index until it is matched, times out, is cancelled, or the connection
// is disposed. Exactly one of those events ever completes a given slot;
// once guards against the reader loop and a timeout/cancel/dispose
// racing to complete it concurrently.
type slot struct {
	correlationID int32
	apiKey        int16

	done chan slotResult
	once sync.Once
}

func newSlot(correlationID int32, apiKey int16) *slot {
	return &slot{
		correlationID: correlationID,
		apiKey:        apiKey,
		done:          make(chan slotResult, 1),
	}
}

// complete delivers r to the waiting Send call exactly once; later calls
// are no-ops, so whichever of the reader loop / timeout / cancel /
// dispose paths gets there first wins.
func (s *slot) complete(r slotResult) {
	s.once.Do(func() {
		s.done <- r
	})
}
