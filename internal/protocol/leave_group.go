package protocol

// ============================================================================
// LeaveGroup (API Key 13)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type LeaveGroupRequest struct {
	GroupID  string
	MemberID string
}

// Decode - the recipe

// DecodeLeaveGroupRequest decodes a v0-v1 LeaveGroup request. The v3+
// multi-member leave form postdates this client's covered range.
func DecodeLeaveGroupRequest(r *Reader, v int16) (*LeaveGroupRequest, error) {
	req := &LeaveGroupRequest{}
	var err error
	if req.GroupID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	if req.MemberID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

func EncodeLeaveGroupRequest(w *Writer, v int16, req *LeaveGroupRequest) {
	w.WriteString(req.GroupID)  // v0+
	w.WriteString(req.MemberID) // v0+
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type LeaveGroupResponse struct {
	ThrottleTimeMs int32 // v1+
	ErrorCode      int16
}

// Encode - the recipe

func EncodeLeaveGroupResponse(e *Writer, v int16, resp *LeaveGroupResponse) {
	if v >= 1 {
		e.WriteInt32(resp.ThrottleTimeMs) // v1+
	}
	e.WriteInt16(resp.ErrorCode) // v0+
}

// Decode - the recipe

func DecodeLeaveGroupResponse(r *Reader, v int16) (*LeaveGroupResponse, error) {
	resp := &LeaveGroupResponse{}
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
