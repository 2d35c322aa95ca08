package protocol

// ============================================================================
// CreateTopics (API Key 19)
// Supported versions: 0-2
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type CreateTopicsRequest struct {
	Topics       []CreateTopicsRequestTopic
	TimeoutMs    int32
	ValidateOnly bool // v1+
}

type CreateTopicsRequestTopic struct {
	Name              string
	NumPartitions     int32
	ReplicationFactor int16
	Assignments       map[int32][]int32 // partition -> broker ids
	Configs           map[string]string // name -> value
}

// Request readers

func (t *CreateTopicsRequestTopic) readAssignments(r *Reader) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	t.Assignments = make(map[int32][]int32, count)
	for i := int32(0); i < count; i++ {
		partition, err := r.ReadInt32()
		if err != nil {
			return err
		}
		brokerCount, err := r.ReadArrayLen()
		if err != nil {
			return err
		}
		brokers := make([]int32, brokerCount)
		for j := range brokers {
			if brokers[j], err = r.ReadInt32(); err != nil {
				return err
			}
		}
		t.Assignments[partition] = brokers
	}
	return nil
}

func (t *CreateTopicsRequestTopic) readConfigs(r *Reader) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	t.Configs = make(map[string]string, count)
	for i := int32(0); i < count; i++ {
		name, err := r.ReadString()
		if err != nil {
			return err
		}
		value, err := r.ReadNullableString()
		if err != nil {
			return err
		}
		if value != nil {
			t.Configs[name] = *value
		}
	}
	return nil
}

func (t *CreateTopicsRequestTopic) readFrom(r *Reader) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	if t.NumPartitions, err = r.ReadInt32(); err != nil {
		return err
	}
	if t.ReplicationFactor, err = r.ReadInt16(); err != nil {
		return err
	}
	if err := t.readAssignments(r); err != nil {
		return err
	}
	if err := t.readConfigs(r); err != nil {
		return err
	}
	return nil
}

func (req *CreateTopicsRequest) readTopics(r *Reader) error {
	count, err := r.ReadArrayLen()
	if err != nil {
		return err
	}
	req.Topics = make([]CreateTopicsRequestTopic, count)
	for i := range req.Topics {
		if err := req.Topics[i].readFrom(r); err != nil {
			return err
		}
	}
	return nil
}

// Decode - the recipe

// DecodeCreateTopicsRequest decodes a v0-v2 CreateTopics request. The v5+
// compact/flexible encoding and per-topic tagged fields postdate this
// client's covered range.
func DecodeCreateTopicsRequest(r *Reader, v int16) (*CreateTopicsRequest, error) {
	req := &CreateTopicsRequest{}
	if err := req.readTopics(r); err != nil { // v0+
		return nil, err
	}
	var err error
	if req.TimeoutMs, err = r.ReadInt32(); err != nil { // v0+
		return nil, err
	}
	if v >= 1 {
		if req.ValidateOnly, err = r.ReadBool(); err != nil { // v1+
			return nil, err
		}
	}
	return req, nil
}

// Encode - the recipe

func EncodeCreateTopicsRequest(w *Writer, v int16, req *CreateTopicsRequest) {
	w.WriteArrayLen(len(req.Topics))
	for _, t := range req.Topics {
		w.WriteString(t.Name)
		w.WriteInt32(t.NumPartitions)
		w.WriteInt16(t.ReplicationFactor)
		w.WriteArrayLen(len(t.Assignments))
		for partition, brokers := range t.Assignments {
			w.WriteInt32(partition)
			w.WriteArrayLen(len(brokers))
			for _, b := range brokers {
				w.WriteInt32(b)
			}
		}
		w.WriteArrayLen(len(t.Configs))
		for name, value := range t.Configs {
			w.WriteString(name)
			w.WriteNullableString(&value)
		}
	}
	w.WriteInt32(req.TimeoutMs) // v0+
	if v >= 1 {
		w.WriteBool(req.ValidateOnly) // v1+
	}
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type CreateTopicsResponse struct {
	ThrottleTimeMs int32 // v2+
	Topics         []CreateTopicsResponseTopic
}

type CreateTopicsResponseTopic struct {
	Name         string
	ErrorCode    int16
	ErrorMessage *string // v1+
}

// Response writers

func (t *CreateTopicsResponseTopic) writeTo(e *Writer, version int16) {
	e.WriteString(t.Name)
	e.WriteInt16(t.ErrorCode)
	if version >= 1 {
		e.WriteNullableString(t.ErrorMessage) // v1+
	}
}

// Encode - the recipe

// EncodeCreateTopicsResponse encodes resp. The v5+ per-topic config report
// postdates this client's covered range.
func EncodeCreateTopicsResponse(e *Writer, v int16, resp *CreateTopicsResponse) {
	if v >= 2 {
		e.WriteInt32(resp.ThrottleTimeMs) // v2+
	}
	e.WriteArrayLen(len(resp.Topics))
	for _, t := range resp.Topics {
		t.writeTo(e, v)
	}
}

// Response readers

func (t *CreateTopicsResponseTopic) readFrom(r *Reader, version int16) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	if t.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	if version >= 1 {
		if t.ErrorMessage, err = r.ReadNullableString(); err != nil { // v1+
			return err
		}
	}
	return nil
}

// Decode - the recipe

func DecodeCreateTopicsResponse(r *Reader, v int16) (*CreateTopicsResponse, error) {
	resp := &CreateTopicsResponse{}
	var err error
	if v >= 2 {
		if resp.ThrottleTimeMs, err = r.ReadInt32(); err != nil { // v2+
			return nil, err
		}
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var t CreateTopicsResponseTopic
		if err := t.readFrom(r, v); err != nil {
			return nil, err
		}
		resp.Topics = append(resp.Topics, t)
	}
	return resp, nil
}
