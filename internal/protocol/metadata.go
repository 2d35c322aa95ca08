package protocol

// ============================================================================
// Metadata (API Key 3)
// Supported versions: 0-2
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// MetadataRequest requests brokers/topics/partitions. A nil Topics means
// "all topics" (encoded as array length -1).
type MetadataRequest struct {
	Topics []string
}

// Request readers

// DecodeMetadataRequest decodes a v0-v2 Metadata request. AllowAutoTopicCreation
// (v4+) and the authorized-operations flags (v8+) postdate this client's
// covered range.
func DecodeMetadataRequest(r *Reader, v int16) (*MetadataRequest, error) {
	req := &MetadataRequest{}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	if count == -1 {
		req.Topics = nil
		return req, nil
	}
	req.Topics = make([]string, count)
	for i := range req.Topics {
		if req.Topics[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Encode - the recipe

// EncodeMetadataRequest encodes req. A nil Topics writes array length -1,
// requesting metadata for all topics.
func EncodeMetadataRequest(w *Writer, v int16, req *MetadataRequest) {
	if req.Topics == nil {
		w.WriteInt32(-1)
		return
	}
	w.WriteArrayLen(len(req.Topics))
	for _, t := range req.Topics {
		w.WriteString(t)
	}
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

// MetadataResponse's Brokers field uses protocol.BrokerMetadata directly
// (defined in types.go) rather than a second, parallel broker-record type.
type MetadataResponse struct {
	Brokers      []BrokerMetadata
	ClusterID    *string // v2+
	ControllerID int32   // v1+
	Topics       []MetadataTopic
}

type MetadataTopic struct {
	ErrorCode  int16
	Name       string
	IsInternal bool // v1+
	Partitions []MetadataPartition
}

type MetadataPartition struct {
	ErrorCode      int16
	PartitionIndex int32
	LeaderID       int32
	ReplicaNodes   []int32
	IsrNodes       []int32
}

// Response writers

func (b *BrokerMetadata) writeTo(e *Writer, version int16) {
	e.WriteInt32(b.NodeID)
	e.WriteString(b.Host)
	e.WriteInt32(b.Port)
	if version >= 1 {
		e.WriteNullableString(b.Rack) // v1+
	}
}

func (p *MetadataPartition) writeTo(e *Writer) {
	e.WriteInt16(p.ErrorCode)
	e.WriteInt32(p.PartitionIndex)
	e.WriteInt32(p.LeaderID)
	e.WriteArrayLen(len(p.ReplicaNodes))
	for _, r := range p.ReplicaNodes {
		e.WriteInt32(r)
	}
	e.WriteArrayLen(len(p.IsrNodes))
	for _, r := range p.IsrNodes {
		e.WriteInt32(r)
	}
}

func (t *MetadataTopic) writeTo(e *Writer, version int16) {
	e.WriteInt16(t.ErrorCode)
	e.WriteString(t.Name)
	if version >= 1 {
		e.WriteBool(t.IsInternal) // v1+
	}
	e.WriteArrayLen(len(t.Partitions))
	for _, p := range t.Partitions {
		p.writeTo(e)
	}
}

// Encode - the recipe

func EncodeMetadataResponse(e *Writer, v int16, resp *MetadataResponse) {
	e.WriteArrayLen(len(resp.Brokers))
	for _, b := range resp.Brokers {
		b.writeTo(e, v)
	}
	if v >= 2 {
		e.WriteNullableString(resp.ClusterID) // v2+
	}
	if v >= 1 {
		e.WriteInt32(resp.ControllerID) // v1+
	}
	e.WriteArrayLen(len(resp.Topics))
	for _, t := range resp.Topics {
		t.writeTo(e, v)
	}
}

// Response readers

func (b *BrokerMetadata) readFrom(r *Reader, version int16) error {
	var err error
	if b.NodeID, err = r.ReadInt32(); err != nil {
		return err
	}
	if b.Host, err = r.ReadString(); err != nil {
		return err
	}
	if b.Port, err = r.ReadInt32(); err != nil {
		return err
	}
	if version >= 1 {
		if b.Rack, err = r.ReadNullableString(); err != nil {
			return err
		}
	}
	return nil
}

func (p *MetadataPartition) readFrom(r *Reader) error {
	var err error
	if p.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	if p.PartitionIndex, err = r.ReadInt32(); err != nil {
		return err
	}
	if p.LeaderID, err = r.ReadInt32(); err != nil {
		return err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}
		p.ReplicaNodes = append(p.ReplicaNodes, v)
	}
	isrCount, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < isrCount; i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}
		p.IsrNodes = append(p.IsrNodes, v)
	}
	return nil
}

func (t *MetadataTopic) readFrom(r *Reader, version int16) error {
	var err error
	if t.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	if version >= 1 {
		if t.IsInternal, err = r.ReadBool(); err != nil { // v1+
			return err
		}
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var p MetadataPartition
		if err := p.readFrom(r); err != nil {
			return err
		}
		t.Partitions = append(t.Partitions, p)
	}
	return nil
}

// Decode - the recipe

func DecodeMetadataResponse(r *Reader, v int16) (*MetadataResponse, error) {
	resp := &MetadataResponse{}
	brokerCount, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < brokerCount; i++ {
		var b BrokerMetadata
		if err := b.readFrom(r, v); err != nil {
			return nil, err
		}
		resp.Brokers = append(resp.Brokers, b)
	}
	if v >= 2 {
		if resp.ClusterID, err = r.ReadNullableString(); err != nil { // v2+
			return nil, err
		}
	}
	if v >= 1 {
		if resp.ControllerID, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
	}
	topicCount, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < topicCount; i++ {
		var t MetadataTopic
		if err := t.readFrom(r, v); err != nil {
			return nil, err
		}
		resp.Topics = append(resp.Topics, t)
	}
	return resp, nil
}
