package protocol

// ============================================================================
// ListGroups (API Key 16)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// ListGroupsRequest has an empty body.
type ListGroupsRequest struct{}

// Decode - the recipe

func DecodeListGroupsRequest(r *Reader, v int16) (*ListGroupsRequest, error) {
	return &ListGroupsRequest{}, nil
}

// Encode - the recipe

func EncodeListGroupsRequest(w *Writer, v int16, req *ListGroupsRequest) {}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type ListGroupsResponse struct {
	ErrorCode int16
	Groups    []ListGroupsResponseGroup
}

type ListGroupsResponseGroup struct {
	GroupID      string
	ProtocolType string
}

// Response writers

func (g *ListGroupsResponseGroup) writeTo(e *Writer) {
	e.WriteString(g.GroupID)
	e.WriteString(g.ProtocolType)
}

// Encode - the recipe

func EncodeListGroupsResponse(e *Writer, v int16, resp *ListGroupsResponse) {
	e.WriteInt16(resp.ErrorCode)
	e.WriteArrayLen(len(resp.Groups))
	for _, g := range resp.Groups {
		g.writeTo(e)
	}
}

// Response readers

func (g *ListGroupsResponseGroup) readFrom(r *Reader) error {
	var err error
	if g.GroupID, err = r.ReadString(); err != nil {
		return err
	}
	if g.ProtocolType, err = r.ReadString(); err != nil {
		return err
	}
	return nil
}

// Decode - the recipe

func DecodeListGroupsResponse(r *Reader, v int16) (*ListGroupsResponse, error) {
	resp := &ListGroupsResponse{}
	var err error
	if resp.ErrorCode, err = r.ReadInt16(); err != nil {
		return nil, err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var g ListGroupsResponseGroup
		if err := g.readFrom(r); err != nil {
			return nil, err
		}
		resp.Groups = append(resp.Groups, g)
	}
	return resp, nil
}
