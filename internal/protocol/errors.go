package protocol

import "errors"

// Sentinel decode/connection errors, distinct from the server-reported
// ErrorCode taxonomy below.
var (
	// ErrBufferUnderRun is returned whenever a read would need more bytes
	// than remain in the buffer.
	ErrBufferUnderRun = errors.New("protocol: buffer underrun")
	// ErrCRCMismatch is returned when a decoded message's stored CRC does
	// not match the CRC computed over its body.
	ErrCRCMismatch = errors.New("protocol: message crc mismatch")
	// ErrUnsupportedCodec is returned for an attributes byte naming a
	// compression codec this build does not implement (only gzip is).
	ErrUnsupportedCodec = errors.New("protocol: unsupported compression codec")
	// ErrUnknownAPIKey is returned when dispatching to an API key with no
	// registered codec.
	ErrUnknownAPIKey = errors.New("protocol: unknown api key")
	// ErrUnsupportedVersion is returned by Encode when the context's
	// api_version lies outside the range DefaultApiVersions lists for the
	// request's api_key.
	ErrUnsupportedVersion = errors.New("protocol: unsupported api version")
)

// ErrorCode is the int16 error code Kafka embeds in responses. Zero means
// success.
type ErrorCode int16

const (
	ErrNone                             ErrorCode = 0
	ErrUnknownServerError               ErrorCode = -1
	ErrOffsetOutOfRange                 ErrorCode = 1
	ErrCorruptMessage                   ErrorCode = 2
	ErrUnknownTopicOrPartition          ErrorCode = 3
	ErrInvalidFetchSize                 ErrorCode = 4
	ErrLeaderNotAvailable               ErrorCode = 5
	ErrNotLeaderForPartition            ErrorCode = 6
	ErrRequestTimedOut                  ErrorCode = 7
	ErrBrokerNotAvailable               ErrorCode = 8
	ErrReplicaNotAvailable              ErrorCode = 9
	ErrMessageTooLarge                  ErrorCode = 10
	ErrStaleControllerEpoch             ErrorCode = 11
	ErrOffsetMetadataTooLarge           ErrorCode = 12
	ErrNetworkException                 ErrorCode = 13
	ErrCoordinatorLoadInProgress        ErrorCode = 14
	ErrCoordinatorNotAvailable          ErrorCode = 15
	ErrNotCoordinator                   ErrorCode = 16
	ErrInvalidTopicException            ErrorCode = 17
	ErrRecordListTooLarge               ErrorCode = 18
	ErrNotEnoughReplicas                ErrorCode = 19
	ErrNotEnoughReplicasAfterAppend     ErrorCode = 20
	ErrInvalidRequiredAcks              ErrorCode = 21
	ErrIllegalGeneration                ErrorCode = 22
	ErrInconsistentGroupProtocol        ErrorCode = 23
	ErrInvalidGroupID                   ErrorCode = 24
	ErrUnknownMemberID                  ErrorCode = 25
	ErrInvalidSessionTimeout            ErrorCode = 26
	ErrRebalanceInProgress              ErrorCode = 27
	ErrInvalidCommitOffsetSize          ErrorCode = 28
	ErrTopicAuthorizationFailed         ErrorCode = 29
	ErrGroupAuthorizationFailed         ErrorCode = 30
	ErrClusterAuthorizationFailed       ErrorCode = 31
	ErrInvalidTimestamp                 ErrorCode = 32
	ErrUnsupportedSASLMechanism         ErrorCode = 33
	ErrIllegalSASLState                 ErrorCode = 34
	ErrUnsupportedVersionCode           ErrorCode = 35
	ErrTopicAlreadyExists               ErrorCode = 36
	ErrInvalidPartitions                ErrorCode = 37
	ErrInvalidReplicationFactor         ErrorCode = 38
	ErrInvalidReplicaAssignment         ErrorCode = 39
	ErrInvalidConfig                    ErrorCode = 40
	ErrNotController                    ErrorCode = 41
	ErrInvalidRequest                   ErrorCode = 42
	ErrUnsupportedForMessageFormat      ErrorCode = 43
	ErrMemberIDRequired                 ErrorCode = 79
)

// kafkaErrorInfo matches the shape the franz-go kerr package uses for its
// code2err table: a human message, a retriable flag, and a short
// description.
type kafkaErrorInfo struct {
	Message   string
	Retriable bool
	Desc      string
}

var errorTable = map[ErrorCode]kafkaErrorInfo{
	ErrNone:                         {"NONE", false, "no error"},
	ErrUnknownServerError:           {"UNKNOWN_SERVER_ERROR", false, "the server experienced an unexpected error"},
	ErrOffsetOutOfRange:             {"OFFSET_OUT_OF_RANGE", false, "the requested offset is outside the range of offsets maintained by the server"},
	ErrCorruptMessage:               {"CORRUPT_MESSAGE", true, "the message contents does not match its CRC"},
	ErrUnknownTopicOrPartition:      {"UNKNOWN_TOPIC_OR_PARTITION", true, "the request is for a topic or partition that does not exist"},
	ErrInvalidFetchSize:             {"INVALID_FETCH_SIZE", false, "the requested fetch size is invalid"},
	ErrLeaderNotAvailable:           {"LEADER_NOT_AVAILABLE", true, "there is no leader for this topic-partition as the leader is not yet available"},
	ErrNotLeaderForPartition:        {"NOT_LEADER_OR_FOLLOWER", true, "this server is not the leader for that topic-partition"},
	ErrRequestTimedOut:              {"REQUEST_TIMED_OUT", true, "the request timed out"},
	ErrBrokerNotAvailable:           {"BROKER_NOT_AVAILABLE", false, "the broker is not available"},
	ErrReplicaNotAvailable:          {"REPLICA_NOT_AVAILABLE", true, "the replica is not available for the requested topic-partition"},
	ErrMessageTooLarge:              {"MESSAGE_TOO_LARGE", false, "the request included a message larger than the max message size the server will accept"},
	ErrStaleControllerEpoch:         {"STALE_CONTROLLER_EPOCH", false, "the controller moved to another broker"},
	ErrOffsetMetadataTooLarge:       {"OFFSET_METADATA_TOO_LARGE", false, "the metadata field of the offset request was too large"},
	ErrNetworkException:             {"NETWORK_EXCEPTION", true, "the server disconnected before a response was received"},
	ErrCoordinatorLoadInProgress:    {"COORDINATOR_LOAD_IN_PROGRESS", true, "the coordinator is loading and hence can't process requests"},
	ErrCoordinatorNotAvailable:      {"COORDINATOR_NOT_AVAILABLE", true, "the coordinator is not available"},
	ErrNotCoordinator:               {"NOT_COORDINATOR", true, "this is not the correct coordinator"},
	ErrInvalidTopicException:        {"INVALID_TOPIC_EXCEPTION", false, "the request attempted to perform an operation on an invalid topic"},
	ErrRecordListTooLarge:           {"RECORD_LIST_TOO_LARGE", false, "the request included message batch larger than the configured segment size"},
	ErrNotEnoughReplicas:            {"NOT_ENOUGH_REPLICAS", true, "messages are rejected since there are fewer in-sync replicas than required"},
	ErrNotEnoughReplicasAfterAppend: {"NOT_ENOUGH_REPLICAS_AFTER_APPEND", true, "messages are written to the log, but fewer in-sync replicas acknowledged than required"},
	ErrInvalidRequiredAcks:          {"INVALID_REQUIRED_ACKS", false, "produce request specified an invalid value for required acks"},
	ErrIllegalGeneration:            {"ILLEGAL_GENERATION", false, "the provided generation id does not match the current generation"},
	ErrInconsistentGroupProtocol:    {"INCONSISTENT_GROUP_PROTOCOL", false, "the provided protocol type or set of protocols is not compatible with the current group"},
	ErrInvalidGroupID:               {"INVALID_GROUP_ID", false, "the provided group id is invalid"},
	ErrUnknownMemberID:              {"UNKNOWN_MEMBER_ID", false, "the coordinator is not aware of this member"},
	ErrInvalidSessionTimeout:        {"INVALID_SESSION_TIMEOUT", false, "the session timeout is not within an acceptable range"},
	ErrRebalanceInProgress:          {"REBALANCE_IN_PROGRESS", false, "the group is rebalancing, so a rejoin is needed"},
	ErrInvalidCommitOffsetSize:      {"INVALID_COMMIT_OFFSET_SIZE", false, "the committing offset data size is not valid"},
	ErrTopicAuthorizationFailed:     {"TOPIC_AUTHORIZATION_FAILED", false, "not authorized to access topics"},
	ErrGroupAuthorizationFailed:     {"GROUP_AUTHORIZATION_FAILED", false, "not authorized to access group"},
	ErrClusterAuthorizationFailed:   {"CLUSTER_AUTHORIZATION_FAILED", false, "not authorized to access cluster"},
	ErrInvalidTimestamp:             {"INVALID_TIMESTAMP", false, "the timestamp of the message is out of acceptable range"},
	ErrUnsupportedSASLMechanism:     {"UNSUPPORTED_SASL_MECHANISM", false, "the broker does not support the requested SASL mechanism"},
	ErrIllegalSASLState:             {"ILLEGAL_SASL_STATE", false, "request is not valid given the current SASL state"},
	ErrUnsupportedVersionCode:       {"UNSUPPORTED_VERSION", false, "the version of API is not supported"},
	ErrTopicAlreadyExists:           {"TOPIC_ALREADY_EXISTS", false, "a topic with this name already exists"},
	ErrInvalidPartitions:            {"INVALID_PARTITIONS", false, "number of partitions is below 1"},
	ErrInvalidReplicationFactor:     {"INVALID_REPLICATION_FACTOR", false, "replication factor is below 1 or larger than the number of available brokers"},
	ErrInvalidReplicaAssignment:     {"INVALID_REPLICA_ASSIGNMENT", false, "replica assignment is invalid"},
	ErrInvalidConfig:                {"INVALID_CONFIG", false, "configuration is invalid"},
	ErrNotController:                {"NOT_CONTROLLER", true, "this is not the correct controller for this cluster"},
	ErrInvalidRequest:               {"INVALID_REQUEST", false, "this most likely occurs because of a request being malformed"},
	ErrUnsupportedForMessageFormat:  {"UNSUPPORTED_FOR_MESSAGE_FORMAT", false, "the message format version does not support this request"},
	ErrMemberIDRequired:             {"MEMBER_ID_REQUIRED", false, "the group member needs to have a valid member id before actually entering a consumer group"},
}

// KafkaError wraps a response ErrorCode with its human-readable name,
// retriability, and description, in the shape of the franz-go kerr
// package's Error type.
type KafkaError struct {
	Code      ErrorCode
	Message   string
	Retriable bool
	Desc      string
}

func (e *KafkaError) Error() string {
	if e.Desc == "" {
		return e.Message
	}
	return e.Message + ": " + e.Desc
}

// ErrorForCode converts a raw response error code into a *KafkaError, or
// nil for ErrNone. Unknown codes produce a KafkaError carrying just the
// numeric code.
func ErrorForCode(code int16) error {
	ec := ErrorCode(code)
	if ec == ErrNone {
		return nil
	}
	info, ok := errorTable[ec]
	if !ok {
		return &KafkaError{Code: ec, Message: "UNKNOWN_ERROR_CODE"}
	}
	return &KafkaError{Code: ec, Message: info.Message, Retriable: info.Retriable, Desc: info.Desc}
}

// IsRetriable reports whether err is a *KafkaError flagged retriable.
func IsRetriable(err error) bool {
	var ke *KafkaError
	if errors.As(err, &ke) {
		return ke.Retriable
	}
	return false
}
