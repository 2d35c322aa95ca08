package protocol

// ============================================================================
// ApiVersions (API Key 18)
// Supported versions: 0-1
// ============================================================================

// ----------------------------------------------------------------------------
// Request
// ----------------------------------------------------------------------------

// ApiVersionsRequest has an empty body at v0-v1; the client software name
// and version fields postdate this client's covered range.
type ApiVersionsRequest struct{}

// Decode - the recipe

func DecodeApiVersionsRequest(r *Reader, v int16) (*ApiVersionsRequest, error) {
	return &ApiVersionsRequest{}, nil
}

// Encode - the recipe

func EncodeApiVersionsRequest(w *Writer, v int16, req *ApiVersionsRequest) {}

// ----------------------------------------------------------------------------
// Response
// ----------------------------------------------------------------------------

type ApiVersionsResponse struct {
	ErrorCode      int16
	ApiVersions    []ApiVersion
	ThrottleTimeMs int32 // v1+
}

// Encode - the recipe

// EncodeApiVersionsResponse encodes resp. The v3+ compact array and tagged
// fields encoding postdates this client's covered range.
func EncodeApiVersionsResponse(e *Writer, v int16, resp *ApiVersionsResponse) {
	e.WriteInt16(resp.ErrorCode) // v0+
	e.WriteArrayLen(len(resp.ApiVersions))
	for _, av := range resp.ApiVersions {
		e.WriteInt16(int16(av.APIKey))
		e.WriteInt16(av.MinVersion)
		e.WriteInt16(av.MaxVersion)
	}
	if v >= 1 {
		e.WriteInt32(resp.ThrottleTimeMs) // v1+
	}
}

// Decode - the recipe

func DecodeApiVersionsResponse(r *Reader, v int16) (*ApiVersionsResponse, error) {
	resp := &ApiVersionsResponse{}
	var err error
	if resp.ErrorCode, err = r.ReadInt16(); err != nil {
		return nil, err
	}
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < count; i++ {
		var av ApiVersion
		apiKey, err := r.ReadInt16()
		if err != nil {
			return nil, err
		}
		av.APIKey = APIKey(apiKey)
		if av.MinVersion, err = r.ReadInt16(); err != nil {
			return nil, err
		}
		if av.MaxVersion, err = r.ReadInt16(); err != nil {
			return nil, err
		}
		resp.ApiVersions = append(resp.ApiVersions, av)
	}
	if v >= 1 {
		if resp.ThrottleTimeMs, err = r.ReadInt32(); err != nil { // v1+
			return nil, err
		}
	}
	return resp, nil
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// DefaultApiVersions returns the version range this client claims to speak
// for each API key it implements.
func DefaultApiVersions() []ApiVersion {
	return []ApiVersion{
		{APIKey: APIKeyProduce, MinVersion: 0, MaxVersion: 2},
		{APIKey: APIKeyFetch, MinVersion: 0, MaxVersion: 3},
		{APIKey: APIKeyListOffsets, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyMetadata, MinVersion: 0, MaxVersion: 2},
		{APIKey: APIKeyOffsetCommit, MinVersion: 0, MaxVersion: 2},
		{APIKey: APIKeyOffsetFetch, MinVersion: 0, MaxVersion: 2},
		{APIKey: APIKeyGroupCoordinator, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyJoinGroup, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyHeartbeat, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyLeaveGroup, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeySyncGroup, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyDescribeGroups, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyListGroups, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeySaslHandshake, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyAPIVersions, MinVersion: 0, MaxVersion: 1},
		{APIKey: APIKeyCreateTopics, MinVersion: 0, MaxVersion: 2},
		{APIKey: APIKeyDeleteTopics, MinVersion: 0, MaxVersion: 1},
	}
}
