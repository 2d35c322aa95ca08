package brokercache

import "github.com/rizkyandriawan/kafkaclient/internal/protocol"

// encodeVersions/decodeVersions serialize an ApiVersions result for the
// durable tier using the same big-endian Writer/Reader the wire codec
// uses, rather than reaching for a general-purpose serialization format
// for three fixed-width fields per entry.
func encodeVersions(versions []protocol.ApiVersion) []byte {
	w := protocol.NewWriter()
	w.WriteArrayLen(len(versions))
	for _, v := range versions {
		w.WriteInt16(int16(v.APIKey))
		w.WriteInt16(v.MinVersion)
		w.WriteInt16(v.MaxVersion)
	}
	return w.Bytes()
}

func decodeVersions(data []byte) ([]protocol.ApiVersion, error) {
	r := protocol.NewReader(data)
	count, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	out := make([]protocol.ApiVersion, 0, count)
	for i := int32(0); i < count; i++ {
		apiKey, err := r.ReadInt16()
		if err != nil {
			return nil, err
		}
		min, err := r.ReadInt16()
		if err != nil {
			return nil, err
		}
		max, err := r.ReadInt16()
		if err != nil {
			return nil, err
		}
		out = append(out, protocol.ApiVersion{
			APIKey:     protocol.APIKey(apiKey),
			MinVersion: min,
			MaxVersion: max,
		})
	}
	return out, nil
}
