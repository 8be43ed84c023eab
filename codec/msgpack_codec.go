package codec

import (
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackCodec encodes with MessagePack. Self-describing, so it tolerates
// field reordering that the binary format does not.
type MsgPackCodec struct{}

func (c *MsgPackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgPackCodec) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (c *MsgPackCodec) Type() CodecType {
	return CodecTypeMsgPack
}
