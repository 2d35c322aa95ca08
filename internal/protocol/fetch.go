package protocol

// ============================================================================
// Fetch (API Key 1)
// Supported versions: 0-3
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type FetchRequest struct {
	ReplicaID int32
	MaxWaitMs int32
	MinBytes  int32
	MaxBytes  int32 // v3+
	Topics    []FetchRequestTopic
}

type FetchRequestTopic struct {
	Name       string
	Partitions []FetchRequestPartition
}

type FetchRequestPartition struct {
	Index       int32
	FetchOffset int64
	MaxBytes    int32
}

// Request readers

func (p *FetchRequestPartition) readFrom(r *Reader) error {
	var err error
	if p.Index, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.FetchOffset, err = r.ReadInt64(); err != nil {
		return err
	}
	if p.MaxBytes, err = r.ReadInt32(); err != nil {
		return err
	}
	return nil
}

func (t *FetchRequestTopic) readFrom(r *Reader) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p FetchRequestPartition
		if err := p.readFrom(r); err != nil {
			return err
		}
		t.Partitions = append(t.Partitions, p)
	}
	return nil
}

func (req *FetchRequest) readTopics(r *Reader) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var t FetchRequestTopic
		if err := t.readFrom(r); err != nil {
			return err
		}
		req.Topics = append(req.Topics, t)
	}
	return nil
}

// Decode - the recipe

// DecodeFetchRequest decodes a v0-v3 Fetch request. Isolation level (v4+),
// fetch sessions (v7+), forgotten-topics and rack id (v11+) postdate this
// client's covered range.
func DecodeFetchRequest(r *Reader, v int16) (*FetchRequest, error) {
	req := &FetchRequest{}
	var err error

	if req.ReplicaID, err = r.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if req.MaxWaitMs, err = r.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if req.MinBytes, err = r.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if v >= 3 {
		if req.MaxBytes, err = r.ReadInt32(); err != nil { // v3+
			return nil, err
		}
	}
	if err := req.readTopics(r); err != nil { // v0+
		return nil, err
	}

	return req, nil
}

// Encode - the recipe

// EncodeFetchRequest encodes req at the given version.
func EncodeFetchRequest(w *Writer, v int16, req *FetchRequest) {
	w.WriteInt32(req.ReplicaID) // v0+
	w.WriteInt32(req.MaxWaitMs) // v0+
	w.WriteInt32(req.MinBytes)  // v0+
	if v >= 3 {
		w.WriteInt32(req.MaxBytes) // v3+
	}
	w.WriteArrayLen(len(req.Topics))
	for _, t := range req.Topics {
		w.WriteString(t.Name)
		w.WriteArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.WriteInt32(p.Index)
			w.WriteInt64(p.FetchOffset)
			w.WriteInt32(p.MaxBytes)
		}
	}
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type FetchResponse struct {
	ThrottleTimeMs int32 // v1+
	Topics         []FetchResponseTopic
}

type FetchResponseTopic struct {
	Name       string
	Partitions []FetchResponsePartition
}

type FetchResponsePartition struct {
	Index         int32
	ErrorCode     int16
	HighWatermark int64
	Messages      []Message
	Codec         CompressionCodec
}

// Response writers

func (p *FetchResponsePartition) writeTo(e *Writer) error {
	e.WriteInt32(p.Index)
	e.WriteInt16(p.ErrorCode)
	e.WriteInt64(p.HighWatermark)
	_, err := EncodeMessageSet(e, p.Messages, p.Codec)
	return err
}

func (t *FetchResponseTopic) writeTo(e *Writer) error {
	e.WriteString(t.Name)
	e.WriteArrayLen(len(t.Partitions))
	for _, p := range t.Partitions {
		if err := p.writeTo(e); err != nil {
			return err
		}
	}
	return nil
}

// Encode - the recipe

// EncodeFetchResponse encodes resp at the given version.
func EncodeFetchResponse(e *Writer, v int16, resp *FetchResponse) error {
	if v >= 1 {
		e.WriteInt32(resp.ThrottleTimeMs) // v1+
	}
	e.WriteArrayLen(len(resp.Topics))
	for _, t := range resp.Topics {
		if err := t.writeTo(e); err != nil {
			return err
		}
	}
	return nil
}

// Response readers

func (p *FetchResponsePartition) readFrom(r *Reader) error {
	var err error
	if p.Index, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	if p.HighWatermark, err = r.ReadInt64(); err != nil {
		return err
	}
	if p.Messages, err = DecodeMessageSet(r); err != nil {
		return err
	}
	return nil
}

// Decode - the recipe

// DecodeFetchResponse decodes resp at the given version. Within a records
// field, the complete leading entries are decoded and a trailing fragment
// shorter than the 12-byte entry header is dropped, per the message-set
// truncation rule in message.go. A declared message-set length, or an
// entry's message_size, that runs past the bytes actually present fails
// with ErrBufferUnderRun.
func DecodeFetchResponse(r *Reader, v int16) (*FetchResponse, error) {
	resp := &FetchResponse{}
	var err error
	if v >= 1 {
		if resp.ThrottleTimeMs, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var t FetchResponseTopic
		if t.Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		partCount, err := r.ReadArrayLen()
		if err != nil {
			return nil, err
		}
		for j := int32(0); j < partCount; j++ {
			var p FetchResponsePartition
			if err := p.readFrom(r); err != nil {
				return nil, err
			}
			t.Partitions = append(t.Partitions, p)
		}
		resp.Topics = append(resp.Topics, t)
	}
	return resp, nil
}
