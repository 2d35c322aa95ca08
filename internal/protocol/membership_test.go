package protocol

import (
	"reflect"
	"testing"
)

// fakeConsumerEncoder stands in for a real consumer-group strategy
// (range/roundrobin) well enough to exercise the codec's delegation path:
// metadata is a topic list, assignment is a topic-to-partitions map.
type fakeConsumerEncoder struct{}

func (fakeConsumerEncoder) EncodeMetadata(w *Writer, metadata any) error {
	topics := metadata.([]string)
	w.WriteArrayLen(len(topics))
	for _, t := range topics {
		w.WriteString(t)
	}
	return nil
}

func (fakeConsumerEncoder) DecodeMetadata(protocolName string, r *Reader) (any, error) {
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	topics := make([]string, count)
	for i := range topics {
		if topics[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return topics, nil
}

func (fakeConsumerEncoder) EncodeAssignment(w *Writer, assignment any) error {
	partitions := assignment.(map[string][]int32)
	w.WriteArrayLen(len(partitions))
	for topic, parts := range partitions {
		w.WriteString(topic)
		w.WriteArrayLen(len(parts))
		for _, p := range parts {
			w.WriteInt32(p)
		}
	}
	return nil
}

func (fakeConsumerEncoder) DecodeAssignment(r *Reader) (any, error) {
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]int32, count)
	for i := int32(0); i < count; i++ {
		topic, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		n, err := r.ReadArrayLen()
		if err != nil {
			return nil, err
		}
		parts := make([]int32, n)
		for j := range parts {
			if parts[j], err = r.ReadInt32(); err != nil {
				return nil, err
			}
		}
		out[topic] = parts
	}
	return out, nil
}

func TestJoinGroupRequestMetadataDelegatesToRegisteredEncoder(t *testing.T) {
	ctx := NewRequestContext("kcli").WithAPIVersion(1).WithCorrelation(1)
	ctx.RegisterEncoder("consumer", fakeConsumerEncoder{})

	req := &JoinGroupRequest{
		GroupID:          "g1",
		SessionTimeoutMs: 1000,
		MemberID:         "",
		ProtocolType:     "consumer",
		Protocols: []JoinGroupRequestProtocol{
			{Name: "range", DecodedMetadata: []string{"topic-a", "topic-b"}},
		},
	}

	w := NewWriter()
	if err := EncodeJoinGroupRequest(w, 1, req, ctx); err != nil {
		t.Fatalf("EncodeJoinGroupRequest: %v", err)
	}

	decoded, err := DecodeJoinGroupRequest(NewReader(w.Bytes()), 1, ctx)
	if err != nil {
		t.Fatalf("DecodeJoinGroupRequest: %v", err)
	}
	if len(decoded.Protocols) != 1 {
		t.Fatalf("got %d protocols, want 1", len(decoded.Protocols))
	}
	got := decoded.Protocols[0].DecodedMetadata
	want := []string{"topic-a", "topic-b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodedMetadata = %#v, want %#v", got, want)
	}
	if decoded.Protocols[0].Metadata == nil {
		t.Fatal("Metadata raw bytes were not populated alongside DecodedMetadata")
	}
}

func TestJoinGroupRequestMetadataFallsThroughToRawBytesWithoutEncoder(t *testing.T) {
	req := &JoinGroupRequest{
		GroupID:          "g1",
		SessionTimeoutMs: 1000,
		ProtocolType:     "unregistered",
		Protocols: []JoinGroupRequestProtocol{
			{Name: "range", Metadata: []byte{0x01, 0x02, 0x03}},
		},
	}

	w := NewWriter()
	if err := EncodeJoinGroupRequest(w, 1, req, nil); err != nil {
		t.Fatalf("EncodeJoinGroupRequest: %v", err)
	}

	decoded, err := DecodeJoinGroupRequest(NewReader(w.Bytes()), 1, nil)
	if err != nil {
		t.Fatalf("DecodeJoinGroupRequest: %v", err)
	}
	if decoded.Protocols[0].DecodedMetadata != nil {
		t.Fatalf("DecodedMetadata = %#v, want nil with no registered encoder", decoded.Protocols[0].DecodedMetadata)
	}
	if !reflect.DeepEqual(decoded.Protocols[0].Metadata, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("Metadata = %v, want raw bytes preserved", decoded.Protocols[0].Metadata)
	}
}

func TestJoinGroupResponseMetadataDelegatesThroughCodecDecode(t *testing.T) {
	ctx := NewRequestContext("kcli").WithAPIVersion(1).WithCorrelation(5).WithProtocolType("consumer")
	ctx.RegisterEncoder("consumer", fakeConsumerEncoder{})

	resp := &JoinGroupResponse{
		ErrorCode:    0,
		GenerationID: 1,
		ProtocolName: "range",
		LeaderID:     "m1",
		MemberID:     "m1",
		Members: []JoinGroupResponseMember{
			{MemberID: "m1", DecodedMetadata: []string{"topic-a"}},
		},
	}

	respWriter := NewWriter()
	WriteResponseHeader(respWriter, ResponseHeader{CorrelationID: 5})
	if err := EncodeJoinGroupResponse(respWriter, 1, resp, ctx); err != nil {
		t.Fatalf("EncodeJoinGroupResponse: %v", err)
	}

	decoded, err := Decode(ctx, APIKeyJoinGroup, respWriter.Bytes(), false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.JoinGroup == nil || len(decoded.JoinGroup.Members) != 1 {
		t.Fatalf("Decode did not populate JoinGroup.Members: %+v", decoded.JoinGroup)
	}
	want := []string{"topic-a"}
	if got := decoded.JoinGroup.Members[0].DecodedMetadata; !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodedMetadata = %#v, want %#v", got, want)
	}
}

func TestSyncGroupAssignmentDelegatesToRegisteredEncoder(t *testing.T) {
	ctx := NewRequestContext("kcli").WithAPIVersion(1).WithCorrelation(2).WithProtocolType("consumer")
	ctx.RegisterEncoder("consumer", fakeConsumerEncoder{})

	req := &SyncGroupRequest{
		GroupID:      "g1",
		GenerationID: 1,
		MemberID:     "m1",
		Assignments: []SyncGroupRequestAssignment{
			{MemberID: "m1", DecodedAssignment: map[string][]int32{"topic-a": {0, 1, 2}}},
		},
	}

	w := NewWriter()
	if err := EncodeSyncGroupRequest(w, 1, req, ctx); err != nil {
		t.Fatalf("EncodeSyncGroupRequest: %v", err)
	}
	decoded, err := DecodeSyncGroupRequest(NewReader(w.Bytes()), 1, ctx)
	if err != nil {
		t.Fatalf("DecodeSyncGroupRequest: %v", err)
	}
	want := map[string][]int32{"topic-a": {0, 1, 2}}
	if got := decoded.Assignments[0].DecodedAssignment; !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodedAssignment = %#v, want %#v", got, want)
	}

	// Response side, exercised through the top-level codec Decode the same
	// way a client would receive its own assignment back.
	resp := &SyncGroupResponse{ErrorCode: 0, DecodedAssignment: want}
	respWriter := NewWriter()
	WriteResponseHeader(respWriter, ResponseHeader{CorrelationID: 2})
	if err := EncodeSyncGroupResponse(respWriter, 1, resp, ctx); err != nil {
		t.Fatalf("EncodeSyncGroupResponse: %v", err)
	}
	decodedResp, err := Decode(ctx, APIKeySyncGroup, respWriter.Bytes(), false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := decodedResp.SyncGroup.DecodedAssignment; !reflect.DeepEqual(got, want) {
		t.Fatalf("SyncGroup.DecodedAssignment = %#v, want %#v", got, want)
	}
}

func TestDescribeGroupsResponseScopesEncoderPerGroupProtocolType(t *testing.T) {
	ctx := NewRequestContext("kcli").WithAPIVersion(0).WithCorrelation(3)
	ctx.RegisterEncoder("consumer", fakeConsumerEncoder{})

	resp := &DescribeGroupsResponse{
		Groups: []DescribeGroupsResponseGroup{
			{
				GroupID:      "registered-group",
				ProtocolType: "consumer",
				Protocol:     "range",
				Members: []DescribeGroupsResponseMember{
					{MemberID: "m1", DecodedMetadata: []string{"topic-a"}, DecodedAssignment: map[string][]int32{"topic-a": {0}}},
				},
			},
			{
				GroupID:      "unregistered-group",
				ProtocolType: "connect",
				Protocol:     "simple",
				Members: []DescribeGroupsResponseMember{
					{MemberID: "m2", Metadata: []byte{0xaa, 0xbb}, Assignment: []byte{0xcc}},
				},
			},
		},
	}

	w := NewWriter()
	if err := EncodeDescribeGroupsResponse(w, 0, resp, ctx); err != nil {
		t.Fatalf("EncodeDescribeGroupsResponse: %v", err)
	}

	decoded, err := DecodeDescribeGroupsResponse(NewReader(w.Bytes()), 0, ctx)
	if err != nil {
		t.Fatalf("DecodeDescribeGroupsResponse: %v", err)
	}
	if len(decoded.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(decoded.Groups))
	}

	registered := decoded.Groups[0].Members[0]
	if want := []string{"topic-a"}; !reflect.DeepEqual(registered.DecodedMetadata, want) {
		t.Fatalf("registered-group DecodedMetadata = %#v, want %#v", registered.DecodedMetadata, want)
	}
	if want := map[string][]int32{"topic-a": {0}}; !reflect.DeepEqual(registered.DecodedAssignment, want) {
		t.Fatalf("registered-group DecodedAssignment = %#v, want %#v", registered.DecodedAssignment, want)
	}

	unregistered := decoded.Groups[1].Members[0]
	if unregistered.DecodedMetadata != nil {
		t.Fatalf("unregistered-group DecodedMetadata = %#v, want nil", unregistered.DecodedMetadata)
	}
	if !reflect.DeepEqual(unregistered.Metadata, []byte{0xaa, 0xbb}) {
		t.Fatalf("unregistered-group Metadata = %v, want raw bytes preserved", unregistered.Metadata)
	}
	if !reflect.DeepEqual(unregistered.Assignment, []byte{0xcc}) {
		t.Fatalf("unregistered-group Assignment = %v, want raw bytes preserved", unregistered.Assignment)
	}
}
