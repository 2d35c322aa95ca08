// Package conn implements the per-broker connection multiplexer: one TCP
// socket per broker, a background reader that demultiplexes responses by
// correlation id, reconnection with backoff, and per-request timeouts.
package conn

import (
	"fmt"
	"net"
)

// Endpoint is an equatable broker address, produced by whatever DNS
// resolution a caller performs ahead of dialing. Two Endpoints compare
// equal by value, making them safe map keys for the broker capability
// cache and connection pools that sit above this package.
type Endpoint struct {
	Host string
	Port int
}

// String renders the endpoint as host:port for dialing and logging.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, fmt.Sprintf("%d", e.Port))
}

// ParseEndpoint splits a "host:port" address into an Endpoint.
func ParseEndpoint(addr string) (Endpoint, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Endpoint{}, err
	}
	var p int
	if _, err := fmt.Sscanf(port, "%d", &p); err != nil {
		return Endpoint{}, fmt.Errorf("conn: invalid port in %q: %w", addr, err)
	}
	return Endpoint{Host: host, Port: p}, nil
}
