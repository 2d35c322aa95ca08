package protocol

// ============================================================================
// Produce (API Key 0)
// Supported versions: 0-2
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// ProduceEntry is one caller-supplied (topic, partition, message) tuple —
// the flat shape external producer code presents to this codec. Grouping
// into the wire's nested topic/partition structure is this package's job
// (grouping rule below), performed by GroupProduceEntries.
type ProduceEntry struct {
	Topic     string
	Partition int32
	Codec     CompressionCodec
	Message   Message
}

type ProduceRequest struct {
	Acks      int16
	TimeoutMs int32
	Topics    []ProduceRequestTopic
}

type ProduceRequestTopic struct {
	Name       string
	Partitions []ProduceRequestPartition
}

type ProduceRequestPartition struct {
	Index    int32
	Messages []Message
	Codec    CompressionCodec
}

// GroupProduceEntries groups a flat list of ProduceEntry into the nested
// topic/partition shape the wire format requires. A topic's or partition's
// position in the output is determined by the first occurrence of that
// (topic, partition) pair; order is preserved within a partition. Entries
// for the same partition are expected to share a codec — the codec of the
// first entry seen for that partition is used for the whole group.
func GroupProduceEntries(entries []ProduceEntry) []ProduceRequestTopic {
	type partKey struct {
		topic     string
		partition int32
	}

	var topics []ProduceRequestTopic
	topicIndex := make(map[string]int)
	partIndex := make(map[partKey]int)

	for _, e := range entries {
		ti, ok := topicIndex[e.Topic]
		if !ok {
			ti = len(topics)
			topicIndex[e.Topic] = ti
			topics = append(topics, ProduceRequestTopic{Name: e.Topic})
		}

		key := partKey{e.Topic, e.Partition}
		pi, ok := partIndex[key]
		if !ok {
			pi = len(topics[ti].Partitions)
			partIndex[key] = pi
			topics[ti].Partitions = append(topics[ti].Partitions, ProduceRequestPartition{
				Index: e.Partition,
				Codec: e.Codec,
			})
		}
		p := &topics[ti].Partitions[pi]
		p.Messages = append(p.Messages, e.Message)
	}
	return topics
}

// Request readers

func (t *ProduceRequestTopic) readFrom(r *Reader) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p ProduceRequestPartition
		if p.Index, err = r.ReadInt32(); err != nil {
			return err
		}
		if p.Messages, err = DecodeMessageSet(r); err != nil {
			return err
		}
		t.Partitions = append(t.Partitions, p)
	}
	return nil
}

func (r *ProduceRequest) readTopics(rd *Reader) error {
	count, err := rd.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var t ProduceRequestTopic
		if err := t.readFrom(rd); err != nil {
			return err
		}
		r.Topics = append(r.Topics, t)
	}
	return nil
}

// Decode - the recipe

// DecodeProduceRequest decodes a v0-v2 Produce request body. The
// TransactionalID field the real protocol introduces at v3 is out of
// scope for this client.
func DecodeProduceRequest(rd *Reader, v int16) (*ProduceRequest, error) {
	req := &ProduceRequest{}
	var err error

	if req.Acks, err = rd.ReadInt16(); err != nil { // v0+
		return nil, err
	}
	if req.TimeoutMs, err = rd.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if err := req.readTopics(rd); err != nil { // v0+
		return nil, err
	}

	return req, nil
}

// Encode - the recipe

// EncodeProduceRequest encodes req at the given version and fires the
// context's produce telemetry callback exactly once with the total message
// count, the encoded byte count, and bytes saved by compression.
func EncodeProduceRequest(w *Writer, v int16, req *ProduceRequest, ctx *RequestContext) error {
	w.WriteInt16(req.Acks)     // v0+
	w.WriteInt32(req.TimeoutMs) // v0+
	w.WriteArrayLen(len(req.Topics))

	startLen := w.Len()
	messageCount := 0
	bytesSaved := 0

	for _, t := range req.Topics {
		w.WriteString(t.Name)
		w.WriteArrayLen(len(t.Partitions))
		for _, p := range t.Partitions {
			w.WriteInt32(p.Index)
			saved, err := EncodeMessageSet(w, p.Messages, p.Codec)
			if err != nil {
				return err
			}
			messageCount += len(p.Messages)
			bytesSaved += saved
		}
	}

	if ctx != nil {
		ctx.NotifyProduce(messageCount, w.Len()-startLen, bytesSaved)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type ProduceResponse struct {
	Topics         []ProduceResponseTopic
	ThrottleTimeMs int32 // v1+
}

type ProduceResponseTopic struct {
	Name       string
	Partitions []ProduceResponsePartition
}

type ProduceResponsePartition struct {
	Index           int32
	ErrorCode       int16
	BaseOffset      int64
	LogAppendTimeMs int64 // v2+
}

// Response writers

func (p *ProduceResponsePartition) writeTo(e *Writer, version int16) {
	e.WriteInt32(p.Index)
	e.WriteInt16(p.ErrorCode)
	e.WriteInt64(p.BaseOffset)
	if version >= 2 {
		e.WriteInt64(p.LogAppendTimeMs) // v2+
	}
}

func (t *ProduceResponseTopic) writeTo(e *Writer, version int16) {
	e.WriteString(t.Name)
	e.WriteArrayLen(len(t.Partitions))
	for _, p := range t.Partitions {
		p.writeTo(e, version)
	}
}

func (r *ProduceResponse) writeTopics(e *Writer, version int16) {
	e.WriteArrayLen(len(r.Topics))
	for _, t := range r.Topics {
		t.writeTo(e, version)
	}
}

// Encode - the recipe

func EncodeProduceResponse(e *Writer, v int16, r *ProduceResponse) {
	r.writeTopics(e, v) // v0+
	if v >= 1 {
		e.WriteInt32(r.ThrottleTimeMs) // v1+
	}
}

// Response readers

func (p *ProduceResponsePartition) readFrom(r *Reader, version int16) error {
	var err error
	if p.Index, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	if p.BaseOffset, err = r.ReadInt64(); err != nil {
		return err
	}
	if version >= 2 {
		if p.LogAppendTimeMs, err = r.ReadInt64(); err != nil {
			return err
		}
	}
	return nil
}

// Decode - the recipe

func DecodeProduceResponse(r *Reader, v int16) (*ProduceResponse, error) {
	resp := &ProduceResponse{}
	count, err := r.ReadArrayLen() // v0+
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var t ProduceResponseTopic
		if t.Name, err = r.ReadString(); err != nil {
			return nil, err
		}
		partCount, err := r.ReadArrayLen()
		if err != nil {
			return nil, err
		}
		for j := int32(0); j < partCount; j++ {
			var p ProduceResponsePartition
			if err := p.readFrom(r, v); err != nil {
				return nil, err
			}
			t.Partitions = append(t.Partitions, p)
		}
		resp.Topics = append(resp.Topics, t)
	}
	if v >= 1 {
		if resp.ThrottleTimeMs, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
	}
	return resp, nil
}
