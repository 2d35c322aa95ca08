package protocol

import "testing"

func TestEncodeRequestHeaderByteExact(t *testing.T) {
	clientID := "kafkaclient"
	ctx := NewRequestContext(clientID).WithAPIVersion(1).WithCorrelation(42)

	w := NewWriter()
	WriteHeader(w, ctx.Header(APIKeyAPIVersions))
	got := w.Bytes()

	want := []byte{
		0x00, 0x12, // api_key = 18
		0x00, 0x01, // api_version = 1
		0x00, 0x00, 0x00, 0x2a, // correlation_id = 42
		0x00, 0x0b, // client_id length = 11
	}
	want = append(want, []byte(clientID)...)

	if len(got) != len(want) {
		t.Fatalf("header length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestEncodeDecodeApiVersionsRoundTrip(t *testing.T) {
	ctx := NewRequestContext("kcli").WithAPIVersion(0).WithCorrelation(7)

	req := &Request{APIKey: APIKeyAPIVersions, ApiVersions: &ApiVersionsRequest{}}
	frame, err := Encode(ctx, req)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// frame is length-prefixed; strip it to build a bare request body, then
	// build a matching response body by hand, as a real broker would.
	r := NewReader(frame)
	if _, err := r.ReadInt32(); err != nil {
		t.Fatalf("read length prefix: %v", err)
	}
	hdr, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if hdr.APIKey != APIKeyAPIVersions || hdr.CorrelationID != 7 {
		t.Fatalf("decoded header = %+v", hdr)
	}

	respWriter := NewWriter()
	WriteResponseHeader(respWriter, ResponseHeader{CorrelationID: 7})
	want := DefaultApiVersions()
	EncodeApiVersionsResponse(respWriter, 0, &ApiVersionsResponse{ApiVersions: want})

	resp, err := Decode(ctx, APIKeyAPIVersions, respWriter.Bytes(), false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if resp.ApiVersions == nil {
		t.Fatal("Decode did not populate ApiVersions field")
	}
	if len(resp.ApiVersions.ApiVersions) != len(want) {
		t.Fatalf("got %d api versions, want %d", len(resp.ApiVersions.ApiVersions), len(want))
	}
	for i, av := range resp.ApiVersions.ApiVersions {
		if av != want[i] {
			t.Errorf("api version %d = %+v, want %+v", i, av, want[i])
		}
	}
}

func TestDecodeUnknownAPIKey(t *testing.T) {
	ctx := NewRequestContext("kcli").WithAPIVersion(0)
	w := NewWriter()
	WriteResponseHeader(w, ResponseHeader{CorrelationID: 1})
	if _, err := Decode(ctx, APIKey(9999), w.Bytes(), false); err != ErrUnknownAPIKey {
		t.Fatalf("Decode unknown api key = %v, want ErrUnknownAPIKey", err)
	}
}

func TestProduceAcksZeroDoesNotExpectResponse(t *testing.T) {
	req := &Request{APIKey: APIKeyProduce, Produce: &ProduceRequest{Acks: 0}}
	if req.ExpectsResponse() {
		t.Fatal("Produce with Acks=0 should not expect a response")
	}

	req.Produce.Acks = 1
	if !req.ExpectsResponse() {
		t.Fatal("Produce with Acks=1 should expect a response")
	}
}
