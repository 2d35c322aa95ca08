package protocol

// ============================================================================
// SyncGroup (API Key 14)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// SyncGroupRequest delivers the leader's partition assignment for each
// member of the group. Assignment bytes are opaque here; callers with a
// MembershipEncoder registered for the group's protocol type get them
// decoded through it.
type SyncGroupRequest struct {
	GroupID      string
	GenerationID int32
	MemberID     string
	Assignments  []SyncGroupRequestAssignment
}

// SyncGroupRequestAssignment is the leader's assignment for one member.
// Assignment holds the raw wire bytes; DecodedAssignment holds the
// MembershipEncoder's decoded value when the request's protocol type has
// one registered on the RequestContext and DecodedAssignment was set
// before encoding.
type SyncGroupRequestAssignment struct {
	MemberID          string
	Assignment        []byte
	DecodedAssignment any
}

// Request readers

func (a *SyncGroupRequestAssignment) readFrom(r *Reader, ctx *RequestContext) error {
	var err error
	if a.MemberID, err = r.ReadString(); err != nil {
		return err
	}
	if a.Assignment, a.DecodedAssignment, err = readAssignmentBytes(r, ctx); err != nil {
		return err
	}
	return nil
}

func (req *SyncGroupRequest) readAssignments(r *Reader, ctx *RequestContext) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var a SyncGroupRequestAssignment
		if err := a.readFrom(r, ctx); err != nil {
			return err
		}
		req.Assignments = append(req.Assignments, a)
	}
	return nil
}

// Decode - the recipe

// DecodeSyncGroupRequest decodes a v0-v1 SyncGroup request. GroupInstanceID
// (v3+) and the ProtocolType/ProtocolName echo (v5+) postdate this client's
// covered range, so ctx's ProtocolType must be set by the caller (the
// matching JoinGroup exchange) to select a MembershipEncoder; pass nil to
// always get raw bytes.
func DecodeSyncGroupRequest(r *Reader, v int16, ctx *RequestContext) (*SyncGroupRequest, error) {
	req := &SyncGroupRequest{}
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
	if err := req.readAssignments(r, ctx); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

// EncodeSyncGroupRequest encodes req. ctx's ProtocolType selects the
// MembershipEncoder (if any) used to encode each assignment's
// DecodedAssignment; pass nil, or leave DecodedAssignment nil, to write
// Assignment's raw bytes unchanged.
func EncodeSyncGroupRequest(w *Writer, v int16, req *SyncGroupRequest, ctx *RequestContext) error {
	w.WriteString(req.GroupID)     // v0+
	w.WriteInt32(req.GenerationID) // v0+
	w.WriteString(req.MemberID)    // v0+
	w.WriteArrayLen(len(req.Assignments))
	for _, a := range req.Assignments {
		w.WriteString(a.MemberID)
		if err := writeAssignmentBytes(w, ctx, a.Assignment, a.DecodedAssignment); err != nil {
			return err
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

// SyncGroupResponse is the member's own assignment, echoed back by the
// coordinator. Assignment holds the raw wire bytes; DecodedAssignment
// holds the MembershipEncoder's decoded value when ctx has one registered.
type SyncGroupResponse struct {
	ThrottleTimeMs    int32 // v1+
	ErrorCode         int16
	Assignment        []byte
	DecodedAssignment any
}

// Encode - the recipe

// EncodeSyncGroupResponse encodes resp. ctx's ProtocolType selects the
// MembershipEncoder (if any) used to encode DecodedAssignment.
func EncodeSyncGroupResponse(e *Writer, v int16, resp *SyncGroupResponse, ctx *RequestContext) error {
	if v >= 1 {
		e.WriteInt32(resp.ThrottleTimeMs) // v1+
	}
	e.WriteInt16(resp.ErrorCode) // v0+
	return writeAssignmentBytes(e, ctx, resp.Assignment, resp.DecodedAssignment)
}

// Decode - the recipe

// DecodeSyncGroupResponse decodes resp. ctx's ProtocolType selects the
// MembershipEncoder (if any) used to decode Assignment; pass nil to always
// get raw bytes.
func DecodeSyncGroupResponse(r *Reader, v int16, ctx *RequestContext) (*SyncGroupResponse, error) {
	resp := &SyncGroupResponse{}
	var err error
	if v >= 1 {
		if resp.ThrottleTimeMs, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
	}
	if resp.ErrorCode, err = r.ReadInt16(); err != nil {
		return nil, err
	}
	if resp.Assignment, resp.DecodedAssignment, err = readAssignmentBytes(r, ctx); err != nil {
		return nil, err
	}
	return resp, nil
}
