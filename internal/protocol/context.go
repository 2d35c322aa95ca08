package protocol

// ProduceTelemetryFunc is invoked exactly once per Produce encode with the
// message count and byte totals, for callers wiring a metrics sink. A nil
// func is a valid no-op sink.
type ProduceTelemetryFunc func(count int, requestBytes int, compressedBytes int)

// RequestContext is the immutable bundle threaded through a single
// encode/decode call: api version, correlation id, client id, the
// consumer-group protocol type, and the membership-encoder registry for
// that protocol type. Derived contexts (WithCorrelation) share the
// registry and telemetry sink by reference; only the correlation id
// differs.
//
// Invariant: the context passed to Decode must carry the same APIVersion
// used for the matching Encode.
type RequestContext struct {
	APIVersion    int16
	HasAPIVersion bool
	CorrelationID int32
	ClientID      *string
	ProtocolType  string

	encoders  *MembershipRegistry
	telemetry ProduceTelemetryFunc
}

// NewRequestContext builds a context with the given client id and an empty
// membership registry. Use RegisterEncoder / WithProtocolType /
// WithTelemetry to customize it before use.
func NewRequestContext(clientID string) *RequestContext {
	return &RequestContext{
		ClientID: &clientID,
		encoders: NewMembershipRegistry(),
	}
}

// WithCorrelation returns a shallow copy of the context with its
// correlation id replaced; the registry and telemetry sink are shared.
func (c *RequestContext) WithCorrelation(id int32) *RequestContext {
	cp := *c
	cp.CorrelationID = id
	return &cp
}

// WithAPIVersion returns a copy of the context pinned to the given api
// version, as the codec must be for a specific encode/decode pair.
func (c *RequestContext) WithAPIVersion(v int16) *RequestContext {
	cp := *c
	cp.APIVersion = v
	cp.HasAPIVersion = true
	return &cp
}

// WithProtocolType returns a copy of the context scoped to the given
// consumer-group protocol type, used to select a MembershipEncoder.
func (c *RequestContext) WithProtocolType(pt string) *RequestContext {
	cp := *c
	cp.ProtocolType = pt
	return &cp
}

// WithTelemetry returns a copy of the context with fn installed as the
// Produce telemetry sink.
func (c *RequestContext) WithTelemetry(fn ProduceTelemetryFunc) *RequestContext {
	cp := *c
	cp.telemetry = fn
	return &cp
}

// RegisterEncoder installs enc for protocolType in the context's registry.
// The registry is shared across WithCorrelation-derived copies, so this
// mutates every context descended from the same root.
func (c *RequestContext) RegisterEncoder(protocolType string, enc MembershipEncoder) {
	c.encoders.Register(protocolType, enc)
}

// Encoder returns the MembershipEncoder registered for the context's
// current ProtocolType, or nil if none is registered (callers must then
// pass opaque bytes through unchanged).
func (c *RequestContext) Encoder() MembershipEncoder {
	if c.encoders == nil {
		return nil
	}
	return c.encoders.Lookup(c.ProtocolType)
}

// NotifyProduce invokes the telemetry sink, if any, exactly once per
// Produce encode.
func (c *RequestContext) NotifyProduce(count, requestBytes, compressedBytes int) {
	if c.telemetry != nil {
		c.telemetry(count, requestBytes, compressedBytes)
	}
}

// Header builds the common request frame prefix for this context's current
// api key/version/correlation id/client id.
func (c *RequestContext) Header(apiKey APIKey) RequestHeader {
	return RequestHeader{
		APIKey:        apiKey,
		APIVersion:    c.APIVersion,
		CorrelationID: c.CorrelationID,
		ClientID:      c.ClientID,
	}
}
