package protocol

// ============================================================================
// JoinGroup (API Key 11)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// JoinGroupRequest asks to join or create GroupID under ProtocolType,
// offering one candidate Protocols entry per supported assignment strategy.
// Protocol metadata bytes are opaque here; callers that registered a
// MembershipEncoder for ProtocolType on the RequestContext get them decoded,
// everyone else gets the raw bytes.
type JoinGroupRequest struct {
	GroupID          string
	SessionTimeoutMs int32
	RebalanceTimeout int32 // v1+
	MemberID         string
	ProtocolType     string
	Protocols        []JoinGroupRequestProtocol
}

// JoinGroupRequestProtocol is one candidate assignment strategy. Metadata
// holds the raw wire bytes; DecodedMetadata holds the MembershipEncoder's
// decoded value when the request's ProtocolType has one registered on the
// RequestContext and DecodedMetadata was set before encoding. Decode always
// populates Metadata and, when an encoder is registered, DecodedMetadata
// too.
type JoinGroupRequestProtocol struct {
	Name            string
	Metadata        []byte
	DecodedMetadata any
}

// Request readers

func (p *JoinGroupRequestProtocol) readFrom(r *Reader, ctx *RequestContext) error {
	var err error
	if p.Name, err = r.ReadString(); err != nil {
		return err
	}
	if p.Metadata, p.DecodedMetadata, err = readMetadataBytes(r, ctx, p.Name); err != nil {
		return err
	}
	return nil
}

func (req *JoinGroupRequest) readProtocols(r *Reader, ctx *RequestContext) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p JoinGroupRequestProtocol
		if err := p.readFrom(r, ctx); err != nil {
			return err
		}
		req.Protocols = append(req.Protocols, p)
	}
	return nil
}

// Decode - the recipe

// DecodeJoinGroupRequest decodes a v0-v1 JoinGroup request. GroupInstanceID
// (v5+) and the compact/flexible encoding (v6+) postdate this client's
// covered range. ctx's ProtocolType selects the MembershipEncoder (if any)
// used to decode each protocol's Metadata; pass nil to always get raw
// bytes.
func DecodeJoinGroupRequest(r *Reader, v int16, ctx *RequestContext) (*JoinGroupRequest, error) {
	req := &JoinGroupRequest{}
	var err error
	if req.GroupID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	if req.SessionTimeoutMs, err = r.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if v >= 1 {
		if req.RebalanceTimeout, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
	}
	if req.MemberID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	if req.ProtocolType, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	if ctx != nil {
		ctx = ctx.WithProtocolType(req.ProtocolType)
	}
	if err := req.readProtocols(r, ctx); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

// EncodeJoinGroupRequest encodes req. ctx's ProtocolType selects the
// MembershipEncoder (if any) used to encode each protocol's
// DecodedMetadata; pass nil, or leave DecodedMetadata nil, to write
// Metadata's raw bytes unchanged.
func EncodeJoinGroupRequest(w *Writer, v int16, req *JoinGroupRequest, ctx *RequestContext) error {
	w.WriteString(req.GroupID)        // v0+
	w.WriteInt32(req.SessionTimeoutMs) // v0+
	if v >= 1 {
		w.WriteInt32(req.RebalanceTimeout) // v1+
	}
	w.WriteString(req.MemberID)     // v0+
	w.WriteString(req.ProtocolType) // v0+
	if ctx != nil {
		ctx = ctx.WithProtocolType(req.ProtocolType)
	}
	w.WriteArrayLen(len(req.Protocols))
	for _, p := range req.Protocols {
		w.WriteString(p.Name)
		if err := writeMetadataBytes(w, ctx, p.Metadata, p.DecodedMetadata); err != nil {
			return err
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type JoinGroupResponse struct {
	ErrorCode    int16
	GenerationID int32
	ProtocolName string
	LeaderID     string
	MemberID     string
	Members      []JoinGroupResponseMember
}

// JoinGroupResponseMember is one other group member's offered metadata, as
// seen by the elected leader. Metadata holds the raw wire bytes;
// DecodedMetadata holds the MembershipEncoder's decoded value when ctx has
// one registered for its ProtocolType (the response's ProtocolName is
// passed to that encoder's DecodeMetadata).
type JoinGroupResponseMember struct {
	MemberID        string
	Metadata        []byte
	DecodedMetadata any
}

// Response writers

func (m *JoinGroupResponseMember) writeTo(e *Writer, ctx *RequestContext) error {
	e.WriteString(m.MemberID)
	return writeMetadataBytes(e, ctx, m.Metadata, m.DecodedMetadata)
}

// Encode - the recipe

// EncodeJoinGroupResponse encodes resp. ctx's ProtocolType selects the
// MembershipEncoder (if any) used to encode each member's DecodedMetadata.
// ThrottleTimeMs (v2+) and the ProtocolType echo (v7+) postdate this
// client's covered range.
func EncodeJoinGroupResponse(e *Writer, v int16, resp *JoinGroupResponse, ctx *RequestContext) error {
	e.WriteInt16(resp.ErrorCode)    // v0+
	e.WriteInt32(resp.GenerationID) // v0+
	e.WriteString(resp.ProtocolName)
	e.WriteString(resp.LeaderID)
	e.WriteString(resp.MemberID)
	e.WriteArrayLen(len(resp.Members))
	for _, m := range resp.Members {
		if err := m.writeTo(e, ctx); err != nil {
			return err
		}
	}
	return nil
}

// Response readers

func (m *JoinGroupResponseMember) readFrom(r *Reader, ctx *RequestContext, protocolName string) error {
	var err error
	if m.MemberID, err = r.ReadString(); err != nil {
		return err
	}
	if m.Metadata, m.DecodedMetadata, err = readMetadataBytes(r, ctx, protocolName); err != nil {
		return err
	}
	return nil
}

// Decode - the recipe

// DecodeJoinGroupResponse decodes resp. ctx's ProtocolType selects the
// MembershipEncoder (if any) used to decode each member's Metadata, keyed
// by the group's elected ProtocolName; pass nil to always get raw bytes.
func DecodeJoinGroupResponse(r *Reader, v int16, ctx *RequestContext) (*JoinGroupResponse, error) {
	resp := &JoinGroupResponse{}
	var err error
	if resp.ErrorCode, err = r.ReadInt16(); err != nil {
		return nil, err
	}
	if resp.GenerationID, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if resp.ProtocolName, err = r.ReadString(); err != nil {
		return nil, err
	}
	if resp.LeaderID, err = r.ReadString(); err != nil {
		return nil, err
	}
	if resp.MemberID, err = r.ReadString(); err != nil {
		return nil, err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var m JoinGroupResponseMember
		if err := m.readFrom(r, ctx, resp.ProtocolName); err != nil {
			return nil, err
		}
		resp.Members = append(resp.Members, m)
	}
	return resp, nil
}
