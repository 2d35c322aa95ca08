package conn

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/rizkyandriawan/kafkaclient/internal/protocol"
	"github.com/rizkyandriawan/kafkaclient/internal/retry"
	"github.com/rizkyandriawan/kafkaclient/internal/telemetry"
)

// correlationWrapGuard is the headroom before math.MaxInt32 at which the
// correlation counter wraps back to 0, rather than relying on modular
// arithmetic, so an outstanding slot near the ceiling never collides with
// a freshly wrapped id.
const correlationWrapGuard = 100

// Logger is the leveled structured logging sink a Connection calls
// through. *telemetry.Telemetry satisfies it.
type Logger interface {
	Info(msg string, fields telemetry.Fields)
	Error(err error, msg string, fields telemetry.Fields)

	// SendSpan starts the span covering one Send call's encode/write/await
	// sequence, returning the context a caller should thread through the
	// rest of that call so child operations nest under it.
	SendSpan(ctx context.Context, endpoint string, apiKey int16, apiVersion int16, correlationID int32) (context.Context, trace.Span)
}

// Auditor records connection lifecycle events (connect, timeout, dispose,
// and the start of a reader-error episode). Implementations must not
// block the caller; internal/audit's Log buffers on a channel.
type Auditor interface {
	Record(endpoint, event, detail string)
}

type noopLogger struct{}

func (noopLogger) Info(string, telemetry.Fields)         {}
func (noopLogger) Error(error, string, telemetry.Fields) {}

func (noopLogger) SendSpan(ctx context.Context, _ string, _ int16, _ int16, _ int32) (context.Context, trace.Span) {
	return ctx, trace.SpanFromContext(ctx)
}

type noopAuditor struct{}

func (noopAuditor) Record(string, string, string) {}

// Option configures a Connection at construction.
type Option func(*Connection)

func WithDialer(d Dialer) Option             { return func(c *Connection) { c.dial = d } }
func WithRetryPolicy(p retry.Policy) Option  { return func(c *Connection) { c.retryPolicy = p } }
func WithLogger(l Logger) Option             { return func(c *Connection) { c.log = l } }
func WithAuditor(a Auditor) Option           { return func(c *Connection) { c.audit = a } }
func WithResponseTimeout(d time.Duration) Option {
	return func(c *Connection) { c.responseTimeout = d }
}
func WithDialTimeout(d time.Duration) Option { return func(c *Connection) { c.dialTimeout = d } }
func WithReaderJoinTimeout(d time.Duration) Option {
	return func(c *Connection) { c.readerJoinTimeout = d }
}

// Connection is a full-duplex multiplexer over one TCP socket to one
// broker: it serializes writes, demultiplexes responses to the correct
// caller by correlation id via a background reader, and, whenever a send
// finds no socket connected (initially, or after a read error tore the
// last one down), dials with the configured retry policy. A failed write
// is returned to its caller and does not itself trigger a redial.
type Connection struct {
	endpoint Endpoint

	dial              Dialer
	retryPolicy       retry.Policy
	log               Logger
	audit             Auditor
	responseTimeout   time.Duration
	dialTimeout       time.Duration
	readerJoinTimeout time.Duration

	connMu sync.Mutex
	sock   Socket

	writeMu sync.Mutex

	slots *slotTable

	correlationSeed int32

	readerRunning int32 // atomic gate; 1 while a reader goroutine owns sock
	inErrorState  int32 // atomic bool
	disposed      int32 // atomic bool
	readerDone    chan struct{}
}

// New builds a Connection to endpoint. It does not dial; the first Send
// or SendRaw call lazily connects.
func New(endpoint Endpoint, opts ...Option) *Connection {
	c := &Connection{
		endpoint:          endpoint,
		dial:              DialTCP,
		retryPolicy:       retry.Backoff{BaseDelay: 100 * time.Millisecond, MaxDelay: 30 * time.Second},
		log:               noopLogger{},
		audit:             noopAuditor{},
		responseTimeout:   60 * time.Second,
		dialTimeout:       10 * time.Second,
		readerJoinTimeout: 1 * time.Second,
		slots:             newSlotTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the immutable broker address this Connection dials.
func (c *Connection) Endpoint() Endpoint { return c.endpoint }

// IsReaderAlive reports whether a background reader goroutine currently
// owns the socket.
func (c *Connection) IsReaderAlive() bool {
	return atomic.LoadInt32(&c.readerRunning) == 1
}

// IsInErrorState reports whether the reader is in an unresolved read
// error episode.
func (c *Connection) IsInErrorState() bool {
	return atomic.LoadInt32(&c.inErrorState) == 1
}

func (c *Connection) isDisposed() bool {
	return atomic.LoadInt32(&c.disposed) == 1
}

// Send assigns the next correlation id, encodes req via the protocol
// codec, writes the framed bytes, and waits for the matching response.
// If req does not expect a response (Produce with Acks == 0), Send
// resolves as soon as the bytes are handed to the socket and never
// registers a slot.
func (c *Connection) Send(ctx context.Context, req *protocol.Request, rc *protocol.RequestContext) (*protocol.Response, error) {
	if c.isDisposed() {
		return nil, ErrDisposed
	}

	sock, err := c.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}

	expectsResponse := req.ExpectsResponse()
	id, s := c.registerNextCorrelation(req.APIKey, expectsResponse)

	spanCtx, span := c.log.SendSpan(ctx, c.endpoint.String(), int16(req.APIKey), rc.APIVersion, id)
	defer span.End()

	frame, err := protocol.Encode(rc.WithCorrelation(id), req)
	if err != nil {
		if s != nil {
			c.removeSlot(id)
		}
		span.RecordError(err)
		return nil, err
	}

	if err := c.writeFrame(sock, frame); err != nil {
		if s != nil {
			c.removeSlot(id)
		}
		span.RecordError(err)
		return nil, err
	}

	if !expectsResponse {
		return nil, nil
	}

	resp, err := c.awaitSlot(spanCtx, s, rc, req.APIKey)
	if err != nil {
		span.RecordError(err)
	}
	return resp, err
}

// SendRaw writes already-framed bytes with no correlation tracking.
func (c *Connection) SendRaw(ctx context.Context, frame []byte) error {
	if c.isDisposed() {
		return ErrDisposed
	}
	sock, err := c.ensureConnected(ctx)
	if err != nil {
		return err
	}
	return c.writeFrame(sock, frame)
}

// registerNextCorrelation allocates a correlation id and, for requests
// that expect a response, registers a slot for it. The counter wraps to
// 0 within correlationWrapGuard of overflow rather than via modular
// arithmetic; on the rare chance a wrapped id collides with one still
// outstanding, it is skipped.
func (c *Connection) registerNextCorrelation(apiKey protocol.APIKey, needsSlot bool) (int32, *slot) {
	for {
		id := atomic.AddInt32(&c.correlationSeed, 1) - 1
		if id > math.MaxInt32-correlationWrapGuard {
			atomic.StoreInt32(&c.correlationSeed, 0)
			continue
		}

		if !needsSlot {
			return id, nil
		}

		s := newSlot(id, int16(apiKey))
		if !c.slots.put(id, s) {
			continue
		}
		return id, s
	}
}

func (c *Connection) removeSlot(id int32) {
	c.slots.remove(id)
}

func (c *Connection) awaitSlot(ctx context.Context, s *slot, rc *protocol.RequestContext, apiKey protocol.APIKey) (*protocol.Response, error) {
	timer := time.NewTimer(c.responseTimeout)
	defer timer.Stop()
	started := time.Now()

	select {
	case r := <-s.done:
		if r.err != nil {
			return nil, r.err
		}
		return protocol.Decode(rc, apiKey, r.frame, false)

	case <-timer.C:
		c.removeSlot(s.correlationID)
		s.complete(slotResult{err: &ErrTimeout{Elapsed: time.Since(started)}})
		c.audit.Record(c.endpoint.String(), "timeout", "")
		return nil, &ErrTimeout{Elapsed: time.Since(started)}

	case <-ctx.Done():
		c.removeSlot(s.correlationID)
		s.complete(slotResult{err: ErrCanceled})
		return nil, ErrCanceled
	}
}

func (c *Connection) writeFrame(sock Socket, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	sock.SetWriteDeadline(time.Now().Add(c.dialTimeout))
	_, err := sock.Write(frame)
	return err
}

// ensureConnected lazily dials a socket if none is connected, retrying
// per the configured policy, and starts the reader loop for it.
func (c *Connection) ensureConnected(ctx context.Context) (Socket, error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.sock != nil {
		return c.sock, nil
	}

	attempt := 0
	start := time.Now()
	for {
		dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
		sock, err := c.dial(dialCtx, c.endpoint, c.dialTimeout)
		cancel()
		if err == nil {
			c.sock = sock
			c.audit.Record(c.endpoint.String(), "connect", "")
			c.startReader(sock)
			return sock, nil
		}

		delay, ok := c.retryPolicy.NextDelay(attempt, time.Since(start))
		if !ok {
			c.log.Error(err, "connection failed after retry exhaustion", telemetry.Fields{"broker": c.endpoint.String()})
			return nil, ErrConnectionFailed
		}
		attempt++

		select {
		case <-ctx.Done():
			return nil, ErrCanceled
		case <-time.After(delay):
		}
	}
}

// startReader launches the single background reader goroutine for sock,
// guarded by the atomic readerRunning gate so a concurrent ensureConnected
// call can never start a second one for the same socket generation.
func (c *Connection) startReader(sock Socket) {
	if !atomic.CompareAndSwapInt32(&c.readerRunning, 0, 1) {
		return
	}
	c.readerDone = make(chan struct{})
	go c.readLoop(sock)
}

func (c *Connection) readLoop(sock Socket) {
	defer func() {
		atomic.StoreInt32(&c.readerRunning, 0)
		close(c.readerDone)
	}()

	sizeBuf := make([]byte, 4)
	for {
		if _, err := io.ReadFull(sock, sizeBuf); err != nil {
			c.onReadError(sock, err)
			return
		}
		size := int32(binary.BigEndian.Uint32(sizeBuf))
		if size < 0 {
			c.onReadError(sock, io.ErrUnexpectedEOF)
			return
		}

		frame := make([]byte, size)
		if _, err := io.ReadFull(sock, frame); err != nil {
			c.onReadError(sock, err)
			return
		}

		if atomic.CompareAndSwapInt32(&c.inErrorState, 1, 0) {
			c.log.Info("reader recovered", telemetry.Fields{"broker": c.endpoint.String()})
		}

		if len(frame) < 4 {
			continue
		}
		correlationID := int32(binary.BigEndian.Uint32(frame[:4]))

		s, found := c.slots.take(correlationID)

		if found {
			s.complete(slotResult{frame: frame})
		} else {
			c.log.Info("discarding response with no matching slot", telemetry.Fields{
				"broker":         c.endpoint.String(),
				"correlation_id": correlationID,
			})
		}
	}
}

// onReadError marks the error episode once, logs it, and tears down this
// socket generation so the next Send redials and starts a fresh reader
// rather than spin on a dead socket. Pending slots are left to time out
// naturally instead of being failed proactively.
func (c *Connection) onReadError(sock Socket, err error) {
	if atomic.CompareAndSwapInt32(&c.inErrorState, 0, 1) {
		c.log.Error(err, "reader error", telemetry.Fields{"broker": c.endpoint.String()})
		c.audit.Record(c.endpoint.String(), "reader_error", err.Error())
	}

	sock.Close()

	c.connMu.Lock()
	if c.sock == sock {
		c.sock = nil
	}
	c.connMu.Unlock()
}

// Dispose closes the socket (which stops the reader), waits briefly for
// the reader to exit, and fails every pending slot with ErrDisposed.
// Idempotent.
func (c *Connection) Dispose() error {
	if !atomic.CompareAndSwapInt32(&c.disposed, 0, 1) {
		return nil
	}

	c.connMu.Lock()
	sock := c.sock
	c.sock = nil
	readerDone := c.readerDone
	c.connMu.Unlock()

	if sock != nil {
		sock.Close()
	}

	if readerDone != nil {
		select {
		case <-readerDone:
		case <-time.After(c.readerJoinTimeout):
		}
	}

	for _, s := range c.slots.drain() {
		s.complete(slotResult{err: ErrDisposed})
	}

	c.audit.Record(c.endpoint.String(), "dispose", "")
	return nil
}
