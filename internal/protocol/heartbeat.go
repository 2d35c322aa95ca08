package protocol

// ============================================================================
// Heartbeat (API Key 12)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type HeartbeatRequest struct {
	GroupID      string
	GenerationID int32
	MemberID     string
}

// Decode - the recipe

// DecodeHeartbeatRequest decodes a v0-v1 Heartbeat request. GroupInstanceID
// (v3+) postdates this client's covered range.
func DecodeHeartbeatRequest(r *Reader, v int16) (*HeartbeatRequest, error) {
	req := &HeartbeatRequest{}
	var err error
	if req.GroupID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	if req.GenerationID, err = r.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if req.MemberID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

func EncodeHeartbeatRequest(w *Writer, v int16, req *HeartbeatRequest) {
	w.WriteString(req.GroupID)     // v0+
	w.WriteInt32(req.GenerationID) // v0+
	w.WriteString(req.MemberID)    // v0+
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type HeartbeatResponse struct {
	ThrottleTimeMs int32 // v1+
	ErrorCode      int16
}

// Encode - the recipe

func EncodeHeartbeatResponse(e *Writer, v int16, resp *HeartbeatResponse) {
	if v >= 1 {
		e.WriteInt32(resp.ThrottleTimeMs) // v1+
	}
	e.WriteInt16(resp.ErrorCode) // v0+
}

// Decode - the recipe

func DecodeHeartbeatResponse(r *Reader, v int16) (*HeartbeatResponse, error) {
	resp := &HeartbeatResponse{}
	var err error
	if v >= 1 {
		if resp.ThrottleTimeMs, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
	}
	if resp.ErrorCode, err = r.ReadInt16(); err != nil {
		return nil, err
	}
	return resp, nil
}
