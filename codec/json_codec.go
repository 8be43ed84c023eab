package codec

import (
	"github.com/bytedance/sonic"
)

// JSONCodec encodes with sonic in encoding/json compatible mode.
// Human-readable and handy for tooling, but several times larger than the
// binary format since every field name is repeated.
type JSONCodec struct{}

var jsonAPI = sonic.ConfigStd

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v any) error {
	return jsonAPI.Unmarshal(data, v)
}

func (c *JSONCodec) Type() CodecType {
	return CodecTypeJSON
}
