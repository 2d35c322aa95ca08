package protocol

import "sync"

// MembershipEncoder codes the opaque metadata/assignment payloads carried
// inside JoinGroup, SyncGroup, and DescribeGroups. Consumer
// implementations register one encoder per protocol_type ("consumer",
// "connect", ...); the wire codec itself treats the bytes as opaque and
// only calls through this interface when a protocol type has a registered
// encoder.
type MembershipEncoder interface {
	// EncodeMetadata writes protocol-specific subscription metadata.
	EncodeMetadata(w *Writer, metadata any) error
	// DecodeMetadata reads protocol-specific subscription metadata for the
	// named group protocol (e.g. "range", "roundrobin").
	DecodeMetadata(protocolName string, r *Reader) (any, error)
	// EncodeAssignment writes a protocol-specific partition assignment.
	EncodeAssignment(w *Writer, assignment any) error
	// DecodeAssignment reads a protocol-specific partition assignment.
	DecodeAssignment(r *Reader) (any, error)
}

// MembershipRegistry maps protocol_type strings to MembershipEncoders. The
// codec looks encoders up lazily at encode/decode time; an unregistered
// protocol type means the metadata/assignment bytes pass through raw.
type MembershipRegistry struct {
	mu       sync.RWMutex
	encoders map[string]MembershipEncoder
}

// NewMembershipRegistry returns an empty registry.
func NewMembershipRegistry() *MembershipRegistry {
	return &MembershipRegistry{encoders: make(map[string]MembershipEncoder)}
}

// Register installs enc for protocolType, replacing any prior entry.
func (m *MembershipRegistry) Register(protocolType string, enc MembershipEncoder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encoders[protocolType] = enc
}

// Lookup returns the encoder registered for protocolType, or nil.
func (m *MembershipRegistry) Lookup(protocolType string) MembershipEncoder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.encoders[protocolType]
}

// writeMetadataBytes writes a JoinGroup protocol metadata field. When ctx
// has a MembershipEncoder registered for its current ProtocolType and
// decoded is non-nil, the encoder serializes decoded into the nested
// bytes; otherwise raw is written unchanged.
func writeMetadataBytes(w *Writer, ctx *RequestContext, raw []byte, decoded any) error {
	if ctx != nil && decoded != nil {
		if enc := ctx.Encoder(); enc != nil {
			inner := NewWriter()
			if err := enc.EncodeMetadata(inner, decoded); err != nil {
				return err
			}
			w.WriteBytes(inner.Bytes())
			return nil
		}
	}
	w.WriteBytes(raw)
	return nil
}

// readMetadataBytes reads a JoinGroup protocol metadata field, returning
// the raw bytes and, when ctx has a MembershipEncoder registered for its
// current ProtocolType, the decoded value keyed by protocolName (the
// group protocol this metadata was offered under, e.g. "range").
func readMetadataBytes(r *Reader, ctx *RequestContext, protocolName string) ([]byte, any, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return nil, nil, err
	}
	if ctx != nil && raw != nil {
		if enc := ctx.Encoder(); enc != nil {
			decoded, err := enc.DecodeMetadata(protocolName, NewReader(raw))
			if err != nil {
				return nil, nil, err
			}
			return raw, decoded, nil
		}
	}
	return raw, nil, nil
}

// writeAssignmentBytes writes a SyncGroup/DescribeGroups assignment field,
// delegating to ctx's MembershipEncoder the same way writeMetadataBytes
// does for metadata.
func writeAssignmentBytes(w *Writer, ctx *RequestContext, raw []byte, decoded any) error {
	if ctx != nil && decoded != nil {
		if enc := ctx.Encoder(); enc != nil {
			inner := NewWriter()
			if err := enc.EncodeAssignment(inner, decoded); err != nil {
				return err
			}
			w.WriteBytes(inner.Bytes())
			return nil
		}
	}
	w.WriteBytes(raw)
	return nil
}

// readAssignmentBytes reads a SyncGroup/DescribeGroups assignment field,
// decoding through ctx's MembershipEncoder when one is registered.
func readAssignmentBytes(r *Reader, ctx *RequestContext) ([]byte, any, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return nil, nil, err
	}
	if ctx != nil && raw != nil {
		if enc := ctx.Encoder(); enc != nil {
			decoded, err := enc.DecodeAssignment(NewReader(raw))
			if err != nil {
				return nil, nil, err
			}
			return raw, decoded, nil
		}
	}
	return raw, nil, nil
}
