package protocol

// ============================================================================
// GroupCoordinator (API Key 10)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// GroupCoordinatorRequest asks a broker which broker coordinates GroupID.
type GroupCoordinatorRequest struct {
	GroupID string
}

// Decode - the recipe

// DecodeGroupCoordinatorRequest decodes a v0-v1 GroupCoordinator request.
// The v1+ key_type discriminator (group vs. transaction coordinator) and
// the v3 compact/flexible encoding postdate this client's covered range.
func DecodeGroupCoordinatorRequest(r *Reader, v int16) (*GroupCoordinatorRequest, error) {
	req := &GroupCoordinatorRequest{}
	var err error
	if req.GroupID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

func EncodeGroupCoordinatorRequest(w *Writer, v int16, req *GroupCoordinatorRequest) {
	w.WriteString(req.GroupID) // v0+
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type GroupCoordinatorResponse struct {
	ErrorCode int16
	NodeID    int32
	Host      string
	Port      int32
}

// Encode - the recipe

func EncodeGroupCoordinatorResponse(e *Writer, v int16, resp *GroupCoordinatorResponse) {
	e.WriteInt16(resp.ErrorCode) // v0+
	e.WriteInt32(resp.NodeID)
	e.WriteString(resp.Host)
	e.WriteInt32(resp.Port)
}

// Decode - the recipe

func DecodeGroupCoordinatorResponse(r *Reader, v int16) (*GroupCoordinatorResponse, error) {
	resp := &GroupCoordinatorResponse{}
	var err error
	if resp.ErrorCode, err = r.ReadInt16(); err != nil {
		return nil, err
	}
	if resp.NodeID, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if resp.Host, err = r.ReadString(); err != nil {
		return nil, err
	}
	if resp.Port, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return resp, nil
}
