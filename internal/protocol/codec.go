package protocol

// ============================================================================
// Request/Response dispatch
//
// Request and Response are closed sum types: exactly one of their Xxx
// fields is set, picked by APIKey. Encode and Decode are the only entry
// points a caller needs; everything above (buffer.go, message.go, and the
// per-API files) exists to serve these two functions.
// ============================================================================

// Request is a closed sum type over every request this client can send.
type Request struct {
	APIKey APIKey

	Produce          *ProduceRequest
	Fetch            *FetchRequest
	ListOffsets      *ListOffsetsRequest
	Metadata         *MetadataRequest
	OffsetCommit     *OffsetCommitRequest
	OffsetFetch      *OffsetFetchRequest
	GroupCoordinator *GroupCoordinatorRequest
	JoinGroup        *JoinGroupRequest
	Heartbeat        *HeartbeatRequest
	LeaveGroup       *LeaveGroupRequest
	SyncGroup        *SyncGroupRequest
	DescribeGroups   *DescribeGroupsRequest
	ListGroups       *ListGroupsRequest
	SaslHandshake    *SaslHandshakeRequest
	ApiVersions      *ApiVersionsRequest
	CreateTopics     *CreateTopicsRequest
	DeleteTopics     *DeleteTopicsRequest
}

// ExpectsResponse reports whether the broker sends a reply to this
// request. The only request in this set that can go one-way is a Produce
// with Acks == 0.
func (req *Request) ExpectsResponse() bool {
	return !(req.APIKey == APIKeyProduce && req.Produce != nil && req.Produce.Acks == 0)
}

// Response is a closed sum type over every response this client can
// receive, mirroring Request.
type Response struct {
	APIKey APIKey

	Produce          *ProduceResponse
	Fetch            *FetchResponse
	ListOffsets      *ListOffsetsResponse
	Metadata         *MetadataResponse
	OffsetCommit     *OffsetCommitResponse
	OffsetFetch      *OffsetFetchResponse
	GroupCoordinator *GroupCoordinatorResponse
	JoinGroup        *JoinGroupResponse
	Heartbeat        *HeartbeatResponse
	LeaveGroup       *LeaveGroupResponse
	SyncGroup        *SyncGroupResponse
	DescribeGroups   *DescribeGroupsResponse
	ListGroups       *ListGroupsResponse
	SaslHandshake    *SaslHandshakeResponse
	ApiVersions      *ApiVersionsResponse
	CreateTopics     *CreateTopicsResponse
	DeleteTopics     *DeleteTopicsResponse
}

// Encode serializes req into a complete request frame: a length prefix,
// the common header built from ctx, then the body for req.APIKey. The
// returned slice is ready to write to a connection as-is.
func Encode(ctx *RequestContext, req *Request) ([]byte, error) {
	w := NewWriter()
	length := w.MarkLength()

	WriteHeader(w, ctx.Header(req.APIKey))

	v := ctx.APIVersion
	for _, av := range DefaultApiVersions() {
		if av.APIKey == req.APIKey && (v < av.MinVersion || v > av.MaxVersion) {
			return nil, ErrUnsupportedVersion
		}
	}
	switch req.APIKey {
	case APIKeyProduce:
		if err := EncodeProduceRequest(w, v, req.Produce, ctx); err != nil {
			return nil, err
		}
	case APIKeyFetch:
		EncodeFetchRequest(w, v, req.Fetch)
	case APIKeyListOffsets:
		EncodeListOffsetsRequest(w, v, req.ListOffsets)
	case APIKeyMetadata:
		EncodeMetadataRequest(w, v, req.Metadata)
	case APIKeyOffsetCommit:
		EncodeOffsetCommitRequest(w, v, req.OffsetCommit)
	case APIKeyOffsetFetch:
		EncodeOffsetFetchRequest(w, v, req.OffsetFetch)
	case APIKeyGroupCoordinator:
		EncodeGroupCoordinatorRequest(w, v, req.GroupCoordinator)
	case APIKeyJoinGroup:
		if err := EncodeJoinGroupRequest(w, v, req.JoinGroup, ctx); err != nil {
			return nil, err
		}
	case APIKeyHeartbeat:
		EncodeHeartbeatRequest(w, v, req.Heartbeat)
	case APIKeyLeaveGroup:
		EncodeLeaveGroupRequest(w, v, req.LeaveGroup)
	case APIKeySyncGroup:
		if err := EncodeSyncGroupRequest(w, v, req.SyncGroup, ctx); err != nil {
			return nil, err
		}
	case APIKeyDescribeGroups:
		EncodeDescribeGroupsRequest(w, v, req.DescribeGroups)
	case APIKeyListGroups:
		EncodeListGroupsRequest(w, v, req.ListGroups)
	case APIKeySaslHandshake:
		EncodeSaslHandshakeRequest(w, v, req.SaslHandshake)
	case APIKeyAPIVersions:
		EncodeApiVersionsRequest(w, v, req.ApiVersions)
	case APIKeyCreateTopics:
		EncodeCreateTopicsRequest(w, v, req.CreateTopics)
	case APIKeyDeleteTopics:
		EncodeDeleteTopicsRequest(w, v, req.DeleteTopics)
	default:
		return nil, ErrUnknownAPIKey
	}

	length.End()
	return w.Bytes(), nil
}

// Decode deserializes a response body for apiKey at ctx.APIVersion. When
// hasSize is true, data carries its own leading length:int32 prefix (as
// read straight off a socket); when false, data is already the bare
// frame. An unrecognized apiKey returns ErrUnknownAPIKey, mirroring the
// "null response, protocol error" handling a caller should give it.
func Decode(ctx *RequestContext, apiKey APIKey, data []byte, hasSize bool) (*Response, error) {
	r := NewReader(data)
	if hasSize {
		if _, err := r.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if _, err := ReadResponseHeader(r); err != nil {
		return nil, err
	}

	v := ctx.APIVersion
	resp := &Response{APIKey: apiKey}
	var err error
	switch apiKey {
	case APIKeyProduce:
		resp.Produce, err = DecodeProduceResponse(r, v)
	case APIKeyFetch:
		resp.Fetch, err = DecodeFetchResponse(r, v)
	case APIKeyListOffsets:
		resp.ListOffsets, err = DecodeListOffsetsResponse(r, v)
	case APIKeyMetadata:
		resp.Metadata, err = DecodeMetadataResponse(r, v)
	case APIKeyOffsetCommit:
		resp.OffsetCommit, err = DecodeOffsetCommitResponse(r, v)
	case APIKeyOffsetFetch:
		resp.OffsetFetch, err = DecodeOffsetFetchResponse(r, v)
	case APIKeyGroupCoordinator:
		resp.GroupCoordinator, err = DecodeGroupCoordinatorResponse(r, v)
	case APIKeyJoinGroup:
		resp.JoinGroup, err = DecodeJoinGroupResponse(r, v, ctx)
	case APIKeyHeartbeat:
		resp.Heartbeat, err = DecodeHeartbeatResponse(r, v)
	case APIKeyLeaveGroup:
		resp.LeaveGroup, err = DecodeLeaveGroupResponse(r, v)
	case APIKeySyncGroup:
		resp.SyncGroup, err = DecodeSyncGroupResponse(r, v, ctx)
	case APIKeyDescribeGroups:
		resp.DescribeGroups, err = DecodeDescribeGroupsResponse(r, v, ctx)
	case APIKeyListGroups:
		resp.ListGroups, err = DecodeListGroupsResponse(r, v)
	case APIKeySaslHandshake:
		resp.SaslHandshake, err = DecodeSaslHandshakeResponse(r, v)
	case APIKeyAPIVersions:
		resp.ApiVersions, err = DecodeApiVersionsResponse(r, v)
	case APIKeyCreateTopics:
		resp.CreateTopics, err = DecodeCreateTopicsResponse(r, v)
	case APIKeyDeleteTopics:
		resp.DeleteTopics, err = DecodeDeleteTopicsResponse(r, v)
	default:
		return nil, ErrUnknownAPIKey
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
