package protocol

// ============================================================================
// SaslHandshake (API Key 17)
// Supported versions: 0-1
// ============================================================================

// Decode - the recipe

func DecodeSaslHandshakeRequest(r *Reader, v int16) (*SaslHandshakeRequest, error) {
	req := &SaslHandshakeRequest{}
	var err error
	if req.Mechanism, err = r.ReadString(); err != nil {
		return nil, err
	}
	return req, nil
}

// Encode - the recipe

func EncodeSaslHandshakeRequest(w *Writer, v int16, req *SaslHandshakeRequest) {
	w.WriteString(req.Mechanism)
}

// Encode - the recipe

func EncodeSaslHandshakeResponse(e *Writer, v int16, resp *SaslHandshakeResponse) {
	e.WriteInt16(resp.ErrorCode)
	e.WriteArrayLen(len(resp.Mechanisms))
	for _, m := range resp.Mechanisms {
		e.WriteString(m)
	}
}

// Decode - the recipe

func DecodeSaslHandshakeResponse(r *Reader, v int16) (*SaslHandshakeResponse, error) {
	resp := &SaslHandshakeResponse{}
	var err error
	if resp.ErrorCode, err = r.ReadInt16(); err != nil {
		return nil, err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	resp.Mechanisms = make([]string, count)
	for i := range resp.Mechanisms {
		if resp.Mechanisms[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
