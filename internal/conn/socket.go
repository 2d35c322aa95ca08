package conn

import (
	"context"
	"net"
	"time"
)

// Socket is the minimal transport surface a Connection needs. net.Conn
// satisfies it directly; tests substitute an in-memory pipe to drive the
// reader loop without a real listener.
type Socket interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Dialer opens a Socket to endpoint, honoring ctx cancellation and the
// supplied dial timeout. The default dials a real TCP connection; tests
// and in-process brokers substitute their own.
type Dialer func(ctx context.Context, endpoint Endpoint, timeout time.Duration) (Socket, error)

// DialTCP is the default Dialer, backed by net.Dialer.
func DialTCP(ctx context.Context, endpoint Endpoint, timeout time.Duration) (Socket, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", endpoint.String())
	if err != nil {
		return nil, err
	}
	return c, nil
}
