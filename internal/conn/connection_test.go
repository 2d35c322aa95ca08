package conn

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rizkyandriawan/kafkaclient/internal/protocol"
	"github.com/rizkyandriawan/kafkaclient/internal/retry"
)

// pipeDialer hands out one side of a net.Pipe per call and runs handler on
// the other side in its own goroutine, standing in for a real broker.
func pipeDialer(t *testing.T, handler func(net.Conn)) Dialer {
	return func(ctx context.Context, endpoint Endpoint, timeout time.Duration) (Socket, error) {
		client, server := net.Pipe()
		go handler(server)
		return client, nil
	}
}

// echoAPIVersions reads framed requests and replies with a minimal
// ApiVersionsResponse carrying the same correlation id, until the pipe
// closes.
func echoAPIVersions(server net.Conn) {
	defer server.Close()
	for {
		sizeBuf := make([]byte, 4)
		if _, err := io.ReadFull(server, sizeBuf); err != nil {
			return
		}
		size := binary.BigEndian.Uint32(sizeBuf)
		body := make([]byte, size)
		if _, err := io.ReadFull(server, body); err != nil {
			return
		}
		r := protocol.NewReader(body)
		hdr, err := protocol.ReadHeader(r)
		if err != nil {
			return
		}

		w := protocol.NewWriter()
		scope := w.MarkLength()
		protocol.WriteResponseHeader(w, protocol.ResponseHeader{CorrelationID: hdr.CorrelationID})
		protocol.EncodeApiVersionsResponse(w, 0, &protocol.ApiVersionsResponse{ApiVersions: protocol.DefaultApiVersions()})
		scope.End()

		if _, err := server.Write(w.Bytes()); err != nil {
			return
		}
	}
}

func newTestContext() *protocol.RequestContext {
	return protocol.NewRequestContext("test-client").WithAPIVersion(0)
}

func TestConnectionSendReceivesMatchingResponse(t *testing.T) {
	c := New(Endpoint{Host: "broker", Port: 9092}, WithDialer(pipeDialer(t, echoAPIVersions)))
	defer c.Dispose()

	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
	resp, err := c.Send(context.Background(), req, newTestContext())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.ApiVersions == nil || len(resp.ApiVersions.ApiVersions) == 0 {
		t.Fatalf("response missing ApiVersions: %+v", resp)
	}
}

func TestConnectionConcurrentSendsMatchCorrelationIDs(t *testing.T) {
	c := New(Endpoint{Host: "broker", Port: 9092}, WithDialer(pipeDialer(t, echoAPIVersions)))
	defer c.Dispose()

	const n = 1000
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
			_, err := c.Send(context.Background(), req, newTestContext())
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}
}

func TestConnectionSendTimesOutWithNoResponse(t *testing.T) {
	// handler reads the request but never replies.
	silent := func(server net.Conn) {
		defer server.Close()
		sizeBuf := make([]byte, 4)
		io.ReadFull(server, sizeBuf)
		size := binary.BigEndian.Uint32(sizeBuf)
		io.ReadFull(server, make([]byte, size))
		io.ReadFull(server, sizeBuf) // blocks until the client closes the pipe
	}

	c := New(Endpoint{Host: "broker", Port: 9092},
		WithDialer(pipeDialer(t, silent)),
		WithResponseTimeout(50*time.Millisecond),
	)
	defer c.Dispose()

	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
	_, err := c.Send(context.Background(), req, newTestContext())
	if _, ok := err.(*ErrTimeout); !ok {
		t.Fatalf("Send error = %v (%T), want *ErrTimeout", err, err)
	}
}

func TestConnectionSendCanceledByContext(t *testing.T) {
	silent := func(server net.Conn) {
		defer server.Close()
		for {
			sizeBuf := make([]byte, 4)
			if _, err := io.ReadFull(server, sizeBuf); err != nil {
				return
			}
			size := binary.BigEndian.Uint32(sizeBuf)
			if _, err := io.ReadFull(server, make([]byte, size)); err != nil {
				return
			}
			// never replies; the caller's context cancels first
		}
	}
	c := New(Endpoint{Host: "broker", Port: 9092},
		WithDialer(pipeDialer(t, silent)),
		WithResponseTimeout(10*time.Second),
	)
	defer c.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
	_, err := c.Send(ctx, req, newTestContext())
	if err != ErrCanceled {
		t.Fatalf("Send error = %v, want ErrCanceled", err)
	}
}

func TestConnectionProduceAcksZeroReturnsImmediately(t *testing.T) {
	c := New(Endpoint{Host: "broker", Port: 9092}, WithDialer(pipeDialer(t, echoAPIVersions)))
	defer c.Dispose()

	req := &protocol.Request{APIKey: protocol.APIKeyProduce, Produce: &protocol.ProduceRequest{Acks: 0}}
	resp, err := c.Send(context.Background(), req, newTestContext())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp != nil {
		t.Fatalf("Send with Acks=0 returned a response, want nil")
	}
}

func TestConnectionDisposeFailsPendingSends(t *testing.T) {
	silent := func(server net.Conn) {
		defer server.Close()
		for {
			sizeBuf := make([]byte, 4)
			if _, err := io.ReadFull(server, sizeBuf); err != nil {
				return
			}
			size := binary.BigEndian.Uint32(sizeBuf)
			if _, err := io.ReadFull(server, make([]byte, size)); err != nil {
				return
			}
		}
	}
	c := New(Endpoint{Host: "broker", Port: 9092},
		WithDialer(pipeDialer(t, silent)),
		WithResponseTimeout(10*time.Second),
	)

	done := make(chan error, 1)
	go func() {
		req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
		_, err := c.Send(context.Background(), req, newTestContext())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := c.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}

	select {
	case err := <-done:
		if err != ErrDisposed {
			t.Fatalf("pending Send error after Dispose = %v, want ErrDisposed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("pending Send did not resolve after Dispose")
	}

	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
	if _, err := c.Send(context.Background(), req, newTestContext()); err != ErrDisposed {
		t.Fatalf("Send after Dispose = %v, want ErrDisposed", err)
	}
}

func TestConnectionReconnectsAfterReadError(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	dialer := func(ctx context.Context, endpoint Endpoint, timeout time.Duration) (Socket, error) {
		mu.Lock()
		attempts++
		attempt := attempts
		mu.Unlock()

		client, server := net.Pipe()
		if attempt == 1 {
			// First generation: close immediately to simulate a reader error.
			server.Close()
		} else {
			go echoAPIVersions(server)
		}
		return client, nil
	}

	c := New(Endpoint{Host: "broker", Port: 9092}, WithDialer(dialer), WithResponseTimeout(2*time.Second))
	defer c.Dispose()

	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}

	// The first send may itself race the torn-down pipe; retry a few times
	// as a real caller issuing periodic requests would, confirming the
	// connection recovers rather than wedging on the dead socket.
	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = c.Send(context.Background(), req, newTestContext())
		if lastErr == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if lastErr != nil {
		t.Fatalf("connection did not recover after read error: %v", lastErr)
	}
}

func TestConnectionEnsureConnectedRetriesDialFailures(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	dialer := func(ctx context.Context, endpoint Endpoint, timeout time.Duration) (Socket, error) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()
		if n < 3 {
			return nil, context.DeadlineExceeded
		}
		client, server := net.Pipe()
		go echoAPIVersions(server)
		return client, nil
	}

	c := New(Endpoint{Host: "broker", Port: 9092},
		WithDialer(dialer),
		WithRetryPolicy(retry.Backoff{BaseDelay: 5 * time.Millisecond, Linear: true}),
	)
	defer c.Dispose()

	req := &protocol.Request{APIKey: protocol.APIKeyAPIVersions, ApiVersions: &protocol.ApiVersionsRequest{}}
	_, err := c.Send(context.Background(), req, newTestContext())
	if err != nil {
		t.Fatalf("Send after transient dial failures: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts < 3 {
		t.Fatalf("dial attempts = %d, want at least 3", attempts)
	}
}
