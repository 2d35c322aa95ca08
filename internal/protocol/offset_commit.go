package protocol

// ============================================================================
// OffsetCommit (API Key 8)
// Supported versions: 0-2
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type OffsetCommitRequest struct {
	GroupID         string
	GenerationID    int32  // v1+
	MemberID        string // v1+
	RetentionTimeMs int64  // v2 only
	Topics          []OffsetCommitRequestTopic
}

type OffsetCommitRequestTopic struct {
	Name       string
	Partitions []OffsetCommitRequestPartition
}

type OffsetCommitRequestPartition struct {
	Index           int32
	CommittedOffset int64
	CommitTimestamp int64 // v1 only
	Metadata        *string
}

// Request readers

func (p *OffsetCommitRequestPartition) readFrom(r *Reader, version int16) error {
	var err error
	if p.Index, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.CommittedOffset, err = r.ReadInt64(); err != nil {
		return err
	}
	if version == 1 {
		if p.CommitTimestamp, err = r.ReadInt64(); err != nil { // v1 only
			return err
		}
	}
	if p.Metadata, err = r.ReadNullableString(); err != nil {
		return err
	}
	return nil
}

func (t *OffsetCommitRequestTopic) readFrom(r *Reader, version int16) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p OffsetCommitRequestPartition
		if err := p.readFrom(r, version); err != nil {
			return err
		}
		t.Partitions = append(t.Partitions, p)
	}
	return nil
}

func (req *OffsetCommitRequest) readTopics(r *Reader, version int16) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var t OffsetCommitRequestTopic
		if err := t.readFrom(r, version); err != nil {
			return err
		}
		req.Topics = append(req.Topics, t)
	}
	return nil
}

// Decode - the recipe

// DecodeOffsetCommitRequest decodes a v0-v2 OffsetCommit request.
// GroupInstanceID (v7+) and per-partition leader epoch (v6+) postdate this
// client's covered range.
func DecodeOffsetCommitRequest(r *Reader, v int16) (*OffsetCommitRequest, error) {
	req := &OffsetCommitRequest{}
	var err error
	if req.GroupID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	if v >= 1 {
		if req.GenerationID, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
		if req.MemberID, err = r.ReadString(); err != nil { // v1+
			return nil, err
		}
	}
	if v == 2 {
		if req.RetentionTimeMs, err = r.ReadInt64(); err != nil { // v2 only
			return nil, err
		}
	}
	if err := req.readTopics(r, v); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

// EncodeOffsetCommitRequest encodes req at the given version.
func EncodeOffsetCommitRequest(w *Writer, v int16, req *OffsetCommitRequest) {
	w.WriteString(req.GroupID) // v0+
	if v >= 1 {
		w.WriteInt32(req.GenerationID) // v1+
		w.WriteString(req.MemberID)    // v1+
	}
	if v == 2 {
		w.WriteInt64(req.RetentionTimeMs) // v2 only
	}
	w.WriteArrayLen(len(req.Topics))
	for _, t := range req.Topics {
		w.WriteString(t.Name)
		w.WriteArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.WriteInt32(p.Index)
			w.WriteInt64(p.CommittedOffset)
			if v == 1 {
				w.WriteInt64(p.CommitTimestamp) // v1 only
			}
			w.WriteNullableString(p.Metadata)
		}
	}
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type OffsetCommitResponse struct {
	Topics []OffsetCommitResponseTopic
}

type OffsetCommitResponseTopic struct {
	Name       string
	Partitions []OffsetCommitResponsePartition
}

type OffsetCommitResponsePartition struct {
	Index     int32
	ErrorCode int16
}

// Response writers

func (t *OffsetCommitResponseTopic) writeTo(e *Writer) {
	e.WriteString(t.Name)
	e.WriteArrayLen(len(t.Partitions))
	for _, p := range t.Partitions {
		e.WriteInt32(p.Index)
		e.WriteInt16(p.ErrorCode)
	}
}

// Encode - the recipe

func EncodeOffsetCommitResponse(e *Writer, v int16, resp *OffsetCommitResponse) {
	e.WriteArrayLen(len(resp.Topics))
	for _, t := range resp.Topics {
		t.writeTo(e)
	}
}

// Response readers

func (t *OffsetCommitResponseTopic) readFrom(r *Reader) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p OffsetCommitResponsePartition
		if p.Index, err = r.ReadInt32(); err != nil {
			return err
		}
		if p.ErrorCode, err = r.ReadInt16(); err != nil {
			return err
		}
		t.Partitions = append(t.Partitions, p)
	}
	return nil
}

// Decode - the recipe

func DecodeOffsetCommitResponse(r *Reader, v int16) (*OffsetCommitResponse, error) {
	resp := &OffsetCommitResponse{}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var t OffsetCommitResponseTopic
		if err := t.readFrom(r); err != nil {
			return nil, err
		}
		resp.Topics = append(resp.Topics, t)
	}
	return resp, nil
}
