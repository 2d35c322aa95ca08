package protocol

// APIKey identifies a request/response family in the Kafka wire protocol.
type APIKey int16

const (
	APIKeyProduce          APIKey = 0
	APIKeyFetch            APIKey = 1
	APIKeyListOffsets      APIKey = 2
	APIKeyMetadata         APIKey = 3
	APIKeyOffsetCommit     APIKey = 8
	APIKeyOffsetFetch      APIKey = 9
	APIKeyGroupCoordinator APIKey = 10
	APIKeyJoinGroup        APIKey = 11
	APIKeyHeartbeat        APIKey = 12
	APIKeyLeaveGroup       APIKey = 13
	APIKeySyncGroup        APIKey = 14
	APIKeyDescribeGroups   APIKey = 15
	APIKeyListGroups       APIKey = 16
	APIKeySaslHandshake    APIKey = 17
	APIKeyAPIVersions      APIKey = 18
	APIKeyCreateTopics     APIKey = 19
	APIKeyDeleteTopics     APIKey = 20
)

func (k APIKey) String() string {
	switch k {
	case APIKeyProduce:
		return "Produce"
	case APIKeyFetch:
		return "Fetch"
	case APIKeyListOffsets:
		return "ListOffsets"
	case APIKeyMetadata:
		return "Metadata"
	case APIKeyOffsetCommit:
		return "OffsetCommit"
	case APIKeyOffsetFetch:
		return "OffsetFetch"
	case APIKeyGroupCoordinator:
		return "GroupCoordinator"
	case APIKeyJoinGroup:
		return "JoinGroup"
	case APIKeyHeartbeat:
		return "Heartbeat"
	case APIKeyLeaveGroup:
		return "LeaveGroup"
	case APIKeySyncGroup:
		return "SyncGroup"
	case APIKeyDescribeGroups:
		return "DescribeGroups"
	case APIKeyListGroups:
		return "ListGroups"
	case APIKeySaslHandshake:
		return "SaslHandshake"
	case APIKeyAPIVersions:
		return "ApiVersions"
	case APIKeyCreateTopics:
		return "CreateTopics"
	case APIKeyDeleteTopics:
		return "DeleteTopics"
	default:
		return "Unknown"
	}
}

// CompressionCodec is the low three bits of a message's attributes byte.
type CompressionCodec int8

const (
	CompressionNone CompressionCodec = 0
	CompressionGzip CompressionCodec = 1
)

// RequestHeader is the common frame prefix every request carries ahead of
// its body.
type RequestHeader struct {
	APIKey        APIKey
	APIVersion    int16
	CorrelationID int32
	ClientID      *string
}

// ResponseHeader is the common frame prefix every response carries: just
// the correlation id.
type ResponseHeader struct {
	CorrelationID int32
}

// ApiVersion describes the version range a broker (or this client) claims
// to support for one API key, as carried by ApiVersionsResponse.
type ApiVersion struct {
	APIKey     APIKey
	MinVersion int16
	MaxVersion int16
}

// BrokerMetadata is the per-broker record decoded from a MetadataResponse.
// Routing it into a live cluster view is a producer/consumer concern and
// out of scope here; the type itself is part of the codec's surface.
type BrokerMetadata struct {
	NodeID int32
	Host   string
	Port   int32
	Rack   *string
}

// SaslHandshakeRequest names the SASL mechanism the client intends to use.
type SaslHandshakeRequest struct {
	Mechanism string
}

// SaslHandshakeResponse reports whether the mechanism was accepted and, if
// not, which ones the broker supports.
type SaslHandshakeResponse struct {
	ErrorCode  int16
	Mechanisms []string
}

// WriteHeader encodes the common request frame prefix: api_key, api_version,
// correlation_id, then a nullable client_id string.
func WriteHeader(w *Writer, h RequestHeader) {
	w.WriteInt16(int16(h.APIKey))
	w.WriteInt16(h.APIVersion)
	w.WriteInt32(h.CorrelationID)
	w.WriteNullableString(h.ClientID)
}

// ReadHeader decodes the common request frame prefix, the mirror of
// WriteHeader.
func ReadHeader(r *Reader) (RequestHeader, error) {
	var h RequestHeader
	apiKey, err := r.ReadInt16()
	if err != nil {
		return h, err
	}
	h.APIKey = APIKey(apiKey)
	if h.APIVersion, err = r.ReadInt16(); err != nil {
		return h, err
	}
	if h.CorrelationID, err = r.ReadInt32(); err != nil {
		return h, err
	}
	if h.ClientID, err = r.ReadNullableString(); err != nil {
		return h, err
	}
	return h, nil
}

// WriteResponseHeader encodes the 4-byte correlation id that begins every
// response body.
func WriteResponseHeader(w *Writer, h ResponseHeader) {
	w.WriteInt32(h.CorrelationID)
}

// ReadResponseHeader decodes the leading correlation id of a response
// frame.
func ReadResponseHeader(r *Reader) (ResponseHeader, error) {
	var h ResponseHeader
	cid, err := r.ReadInt32()
	if err != nil {
		return h, err
	}
	h.CorrelationID = cid
	return h, nil
}
