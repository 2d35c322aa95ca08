package conn

import (
	"errors"
	"fmt"
	"time"
)

// ErrConnectionFailed is returned from Send when reconnection has been
// exhausted per the configured retry policy.
var ErrConnectionFailed = errors.New("conn: connection failed")

// ErrDisposed is returned to every pending send when Dispose runs, and to
// any Send issued after disposal.
var ErrDisposed = errors.New("conn: connection disposed")

// ErrCanceled is returned when the caller's context is cancelled while a
// send is awaiting reconnection or a response.
var ErrCanceled = errors.New("conn: send canceled")

// ErrTimeout is returned when a send's per-request deadline elapses
// before a matching response arrives. The socket is left open; only the
// slot is removed.
type ErrTimeout struct {
	Elapsed time.Duration
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("conn: send timed out after %s", e.Elapsed)
}
