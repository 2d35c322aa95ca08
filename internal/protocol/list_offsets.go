package protocol

// ============================================================================
// ListOffsets (API Key 2)
// Supported versions: 0-1
// ============================================================================

// Special timestamp values.
const (
	OffsetLatest   int64 = -1 // request latest offset
	OffsetEarliest int64 = -2 // request earliest offset
)

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type ListOffsetsRequest struct {
	ReplicaID int32
	Topics    []ListOffsetsRequestTopic
}

type ListOffsetsRequestTopic struct {
	Name       string
	Partitions []ListOffsetsRequestPartition
}

type ListOffsetsRequestPartition struct {
	PartitionIndex int32
	Timestamp      int64
	MaxNumOffsets  int32 // v0 only
}

// Request readers

func (p *ListOffsetsRequestPartition) readFrom(r *Reader, version int16) error {
	var err error
	if p.PartitionIndex, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.Timestamp, err = r.ReadInt64(); err != nil {
		return err
	}
	if version == 0 {
		if p.MaxNumOffsets, err = r.ReadInt32(); err != nil { // v0 only
			return err
		}
	}
	return nil
}

func (t *ListOffsetsRequestTopic) readFrom(r *Reader, version int16) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p ListOffsetsRequestPartition
		if err := p.readFrom(r, version); err != nil {
			return err
		}
		t.Partitions = append(t.Partitions, p)
	}
	return nil
}

func (req *ListOffsetsRequest) readTopics(r *Reader, version int16) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var t ListOffsetsRequestTopic
		if err := t.readFrom(r, version); err != nil {
			return err
		}
		req.Topics = append(req.Topics, t)
	}
	return nil
}

// Decode - the recipe

// DecodeListOffsetsRequest decodes a v0-v1 ListOffsets request. Isolation
// level (v2+) and current leader epoch (v4+) postdate this client's
// covered range.
func DecodeListOffsetsRequest(r *Reader, v int16) (*ListOffsetsRequest, error) {
	req := &ListOffsetsRequest{}
	var err error
	if req.ReplicaID, err = r.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if err := req.readTopics(r, v); err != nil { // v0+
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

// EncodeListOffsetsRequest encodes req at the given version. v0 carries a
// trailing max_num_offsets per partition; v1 does not.
func EncodeListOffsetsRequest(w *Writer, v int16, req *ListOffsetsRequest) {
	w.WriteInt32(req.ReplicaID) // v0+
	w.WriteArrayLen(len(req.Topics))
	for _, t := range req.Topics {
		w.WriteString(t.Name)
		w.WriteArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.WriteInt32(p.PartitionIndex)
			w.WriteInt64(p.Timestamp)
			if v == 0 {
				w.WriteInt32(p.MaxNumOffsets) // v0 only
			}
		}
	}
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type ListOffsetsResponse struct {
	Topics []ListOffsetsResponseTopic
}

type ListOffsetsResponseTopic struct {
	Name       string
	Partitions []ListOffsetsResponsePartition
}

type ListOffsetsResponsePartition struct {
	PartitionIndex  int32
	ErrorCode       int16
	Timestamp       int64   // v1+
	Offset          int64   // v1+
	OldStyleOffsets []int64 // v0 only
}

// Response writers

func (p *ListOffsetsResponsePartition) writeTo(e *Writer, version int16) {
	e.WriteInt32(p.PartitionIndex)
	e.WriteInt16(p.ErrorCode)
	if version == 0 {
		e.WriteArrayLen(len(p.OldStyleOffsets)) // v0 old style
		for _, o := range p.OldStyleOffsets {
			e.WriteInt64(o)
		}
	} else {
		e.WriteInt64(p.Timestamp) // v1+
		e.WriteInt64(p.Offset)    // v1+
	}
}

func (t *ListOffsetsResponseTopic) writeTo(e *Writer, version int16) {
	e.WriteString(t.Name)
	e.WriteArrayLen(len(t.Partitions))
	for _, p := range t.Partitions {
		p.writeTo(e, version)
	}
}

// Encode - the recipe

func EncodeListOffsetsResponse(e *Writer, v int16, resp *ListOffsetsResponse) {
	e.WriteArrayLen(len(resp.Topics))
	for _, t := range resp.Topics {
		t.writeTo(e, v)
	}
}

// Response readers

func (p *ListOffsetsResponsePartition) readFrom(r *Reader, version int16) error {
	var err error
	if p.PartitionIndex, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	if version == 0 {
		count, err := r.ReadArrayLen()
		if err != nil {
			return err
		}
		for i := int32(0); i < count; i++ {
			o, err := r.ReadInt64()
			if err != nil {
				return err
			}
			p.OldStyleOffsets = append(p.OldStyleOffsets, o)
		}
	} else {
		if p.Timestamp, err = r.ReadInt64(); err != nil {
			return err
		}
		if p.Offset, err = r.ReadInt64(); err != nil {
			return err
		}
	}
	return nil
}

// Decode - the recipe

func DecodeListOffsetsResponse(r *Reader, v int16) (*ListOffsetsResponse, error) {
	resp := &ListOffsetsResponse{}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var t ListOffsetsResponseTopic
		if t.Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		partCount, err := r.ReadArrayLen()
		if err != nil {
			return nil, err
		}
		for j := int32(0); j < partCount; j++ {
			var p ListOffsetsResponsePartition
			if err := p.readFrom(r, v); err != nil {
				return nil, err
			}
			t.Partitions = append(t.Partitions, p)
		}
		resp.Topics = append(resp.Topics, t)
	}
	return resp, nil
}
