package protocol

// ============================================================================
// DeleteTopics (API Key 20)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

type DeleteTopicsRequest struct {
	Topics    []string
	TimeoutMs int32
}

// Decode - the recipe

func DecodeDeleteTopicsRequest(r *Reader, v int16) (*DeleteTopicsRequest, error) {
	req := &DeleteTopicsRequest{}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	req.Topics = make([]string, count)
	for i := range req.Topics {
		if req.Topics[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	if req.TimeoutMs, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

func EncodeDeleteTopicsRequest(w *Writer, v int16, req *DeleteTopicsRequest) {
	w.WriteArrayLen(len(req.Topics))
	for _, t := range req.Topics {
		w.WriteString(t)
	}
	w.WriteInt32(req.TimeoutMs)
}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type DeleteTopicsResponse struct {
	ThrottleTimeMs int32 // v1+
	Topics         []DeleteTopicsResponseTopic
}

type DeleteTopicsResponseTopic struct {
	Name      string
	ErrorCode int16
}

// Response writers

func (t *DeleteTopicsResponseTopic) writeTo(e *Writer) {
	e.WriteString(t.Name)
	e.WriteInt16(t.ErrorCode)
}

// Encode - the recipe

func EncodeDeleteTopicsResponse(e *Writer, v int16, resp *DeleteTopicsResponse) {
	if v >= 1 {
		e.WriteInt32(resp.ThrottleTimeMs) // v1+
	}
	e.WriteArrayLen(len(resp.Topics))
	for _, t := range resp.Topics {
		t.writeTo(e)
	}
}

// Response readers

func (t *DeleteTopicsResponseTopic) readFrom(r *Reader) error {
	var err error
	if t.Name, err = r.ReadString(); err != nil {
		return err
	}
	if t.ErrorCode, err = r.ReadInt16(); err != nil {
		return err
	}
	return nil
}

// Decode - the recipe

func DecodeDeleteTopicsResponse(r *Reader, v int16) (*DeleteTopicsResponse, error) {
	resp := &DeleteTopicsResponse{}
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
		var t DeleteTopicsResponseTopic
		if err := t.readFrom(r); err != nil {
			return nil, err
		}
		resp.Topics = append(resp.Topics, t)
	}
	return resp, nil
}
