package protocol

// ============================================================================
// OffsetFetch (API Key 9)
// Supported versions: 0-2
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// OffsetFetchRequest fetches committed offsets for GroupID. A nil Topics
// (encoded as array length -1, v2+) requests all topics the group has
// committed offsets for.
type OffsetFetchRequest struct {
	GroupID string
	Topics  []OffsetFetchRequestTopic
}

type OffsetFetchRequestTopic struct {
	Name       string
	Partitions []int32
}

// Request readers

func (t *OffsetFetchRequestTopic) readFrom(r *Reader) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	t.Partitions = make([]int32, count)
	for i := range t.Partitions {
		if t.Partitions[i], err = r.ReadInt32(); err != nil {
			return err
		}
	}
	return nil
}

func (req *OffsetFetchRequest) readTopics(r *Reader) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	if count < 0 {
		return nil // null array means all topics (v2+)
	}
	req.Topics = make([]OffsetFetchRequestTopic, count)
	for i := range req.Topics {
		if err := req.Topics[i].readFrom(r); err != nil {
			return err
		}
	}
	return nil
}

// Decode - the recipe

// DecodeOffsetFetchRequest decodes a v0-v2 OffsetFetch request.
func DecodeOffsetFetchRequest(r *Reader, v int16) (*OffsetFetchRequest, error) {
	req := &OffsetFetchRequest{}
	var err error
	if req.GroupID, err = r.ReadString(); err != nil { // v0+
		return nil, err
	}
	if err := req.readTopics(r); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

// EncodeOffsetFetchRequest encodes req. A nil Topics writes array length
// -1 ("all topics", valid at v2+).
func EncodeOffsetFetchRequest(w *Writer, v int16, req *OffsetFetchRequest) {
	w.WriteString(req.GroupID) // v0+
	if req.Topics == nil {
		w.WriteInt32(-1)
		return
	}
	w.WriteArrayLen(len(req.Topics))
	for _, t := range req.Topics {
		w.WriteString(t.Name)
		w.WriteArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.WriteInt32(p)
		}
	}
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type OffsetFetchResponse struct {
	Topics    []OffsetFetchResponseTopic
	ErrorCode int16 // v2+
}

type OffsetFetchResponseTopic struct {
	Name       string
	Partitions []OffsetFetchResponsePartition
}

type OffsetFetchResponsePartition struct {
	Index           int32
	CommittedOffset int64
	Metadata        *string
	ErrorCode       int16
}

// Response writers

func (p *OffsetFetchResponsePartition) writeTo(e *Writer) {
	e.WriteInt32(p.Index)
	e.WriteInt64(p.CommittedOffset)
	e.WriteNullableString(p.Metadata)
	e.WriteInt16(p.ErrorCode)
}

func (t *OffsetFetchResponseTopic) writeTo(e *Writer) {
	e.WriteString(t.Name)
	e.WriteArrayLen(len(t.Partitions))
	for _, p := range t.Partitions {
		p.writeTo(e)
	}
}

// Encode - the recipe

func EncodeOffsetFetchResponse(e *Writer, v int16, resp *OffsetFetchResponse) {
	e.WriteArrayLen(len(resp.Topics))
	for _, t := range resp.Topics {
		t.writeTo(e)
	}
	if v >= 2 {
		e.WriteInt16(resp.ErrorCode) // v2+
	}
}

// Response readers

func (p *OffsetFetchResponsePartition) readFrom(r *Reader) error {
	var err error
	if p.Index, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.CommittedOffset, err = r.ReadInt64(); err != nil {
		return err
	}
	if p.Metadata, err = r.ReadNullableString(); err != nil {
		return err
	}
	if p.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	return nil
}

func (t *OffsetFetchResponseTopic) readFrom(r *Reader) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p OffsetFetchResponsePartition
		if err := p.readFrom(r); err != nil {
			return err
		}
		t.Partitions = append(t.Partitions, p)
	}
	return nil
}

// Decode - the recipe

func DecodeOffsetFetchResponse(r *Reader, v int16) (*OffsetFetchResponse, error) {
	resp := &OffsetFetchResponse{}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var t OffsetFetchResponseTopic
		if err := t.readFrom(r); err != nil {
			return nil, err
		}
		resp.Topics = append(resp.Topics, t)
	}
	if v >= 2 {
		if resp.ErrorCode, err = r.ReadInt16(); err != nil { // v2+
			return nil, err
		}
	}
	return resp, nil
}
