package protocol

// ============================================================================
// DescribeGroups (API Key 15)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type DescribeGroupsRequest struct {
	Groups []string
}

// Decode - the recipe

func DecodeDescribeGroupsRequest(r *Reader, v int16) (*DescribeGroupsRequest, error) {
	req := &DescribeGroupsRequest{}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	req.Groups = make([]string, count)
	for i := range req.Groups {
		if req.Groups[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Encode - the recipe

func EncodeDescribeGroupsRequest(w *Writer, v int16, req *DescribeGroupsRequest) {
	w.WriteArrayLen(len(req.Groups))
	for _, g := range req.Groups {
		w.WriteString(g)
	}
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type DescribeGroupsResponse struct {
	Groups []DescribeGroupsResponseGroup
}

// DescribeGroupsResponseGroup describes one group's coordinator-side state.
// Member metadata/assignment bytes are opaque here; a registered
// MembershipEncoder on the caller's protocol type decodes them.
type DescribeGroupsResponseGroup struct {
	ErrorCode    int16
	GroupID      string
	State        string
	ProtocolType string
	Protocol     string
	Members      []DescribeGroupsResponseMember
}

// DescribeGroupsResponseMember is one member's state as reported by the
// coordinator. Metadata/Assignment hold the raw wire bytes;
// DecodedMetadata/DecodedAssignment hold the MembershipEncoder's decoded
// values when the owning group's ProtocolType has one registered.
type DescribeGroupsResponseMember struct {
	MemberID          string
	ClientID          string
	ClientHost        string
	Metadata          []byte
	DecodedMetadata   any
	Assignment        []byte
	DecodedAssignment any
}

// Response writers

func (m *DescribeGroupsResponseMember) writeTo(e *Writer, ctx *RequestContext, protocolName string) error {
	e.WriteString(m.MemberID)
	e.WriteString(m.ClientID)
	e.WriteString(m.ClientHost)
	if err := writeMetadataBytes(e, ctx, m.Metadata, m.DecodedMetadata); err != nil {
		return err
	}
	return writeAssignmentBytes(e, ctx, m.Assignment, m.DecodedAssignment)
}

func (g *DescribeGroupsResponseGroup) writeTo(e *Writer, ctx *RequestContext) error {
	e.WriteInt16(g.ErrorCode)
	e.WriteString(g.GroupID)
	e.WriteString(g.State)
	e.WriteString(g.ProtocolType)
	e.WriteString(g.Protocol)
	if ctx != nil {
		ctx = ctx.WithProtocolType(g.ProtocolType)
	}
	e.WriteArrayLen(len(g.Members))
	for _, m := range g.Members {
		if err := m.writeTo(e, ctx, g.Protocol); err != nil {
			return err
		}
	}
	return nil
}

// Encode - the recipe

// EncodeDescribeGroupsResponse encodes resp. For each group, ctx's
// ProtocolType is set to that group's ProtocolType to select a
// MembershipEncoder (if any) for its members' Decoded{Metadata,Assignment}.
func EncodeDescribeGroupsResponse(e *Writer, v int16, resp *DescribeGroupsResponse, ctx *RequestContext) error {
	e.WriteArrayLen(len(resp.Groups))
	for _, g := range resp.Groups {
		if err := g.writeTo(e, ctx); err != nil {
			return err
		}
	}
	return nil
}

// Response readers

func (m *DescribeGroupsResponseMember) readFrom(r *Reader, ctx *RequestContext, protocolName string) error {
	var err error
	if m.MemberID, err = r.ReadString(); err != nil {
		return err
	}
	if m.ClientID, err = r.ReadString(); err != nil {
		return err
	}
	if m.ClientHost, err = r.ReadString(); err != nil {
		return err
	}
	if m.Metadata, m.DecodedMetadata, err = readMetadataBytes(r, ctx, protocolName); err != nil {
		return err
	}
	if m.Assignment, m.DecodedAssignment, err = readAssignmentBytes(r, ctx); err != nil {
		return err
	}
	return nil
}

func (g *DescribeGroupsResponseGroup) readFrom(r *Reader, ctx *RequestContext) error {
	var err error
	if g.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	if g.GroupID, err = r.ReadString(); err != nil {
		return err
	}
	if g.State, err = r.ReadString(); err != nil {
		return err
	}
	if g.ProtocolType, err = r.ReadString(); err != nil {
		return err
	}
	if g.Protocol, err = r.ReadString(); err != nil {
		return err
	}
	if ctx != nil {
		ctx = ctx.WithProtocolType(g.ProtocolType)
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var m DescribeGroupsResponseMember
		if err := m.readFrom(r, ctx, g.Protocol); err != nil {
			return err
		}
		g.Members = append(g.Members, m)
	}
	return nil
}

// Decode - the recipe

// DecodeDescribeGroupsResponse decodes resp. For each group, ctx's
// ProtocolType is set to that group's ProtocolType to select a
// MembershipEncoder (if any) for its members' Metadata/Assignment; pass
// nil to always get raw bytes.
func DecodeDescribeGroupsResponse(r *Reader, v int16, ctx *RequestContext) (*DescribeGroupsResponse, error) {
	resp := &DescribeGroupsResponse{}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var g DescribeGroupsResponseGroup
		if err := g.readFrom(r, ctx); err != nil {
			return nil, err
		}
		resp.Groups = append(resp.Groups, g)
	}
	return resp, nil
}
