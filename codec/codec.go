package codec

import (
	"fmt"
	"strings"
)

type CodecType byte

const (
	CodecTypeJSON    CodecType = 0
	CodecTypeBinary  CodecType = 1
	CodecTypeMsgPack CodecType = 2
)

func (t CodecType) String() string {
	switch t {
	case CodecTypeJSON:
		return "json"
	case CodecTypeBinary:
		return "binary"
	case CodecTypeMsgPack:
		return "msgpack"
	}
	return fmt.Sprintf("CodecType(%d)", byte(t))
}

// ParseCodecType maps a codec name to its type.
func ParseCodecType(name string) (CodecType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return CodecTypeJSON, nil
	case "", "binary", "bin":
		return CodecTypeBinary, nil
	case "msgpack":
		return CodecTypeMsgPack, nil
	}
	return 0, fmt.Errorf("codec: unknown codec %q", name)
}

type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Type() CodecType
}

// GetCodec returns the codec for codecType. Unknown types fall back to the
// binary codec.
func GetCodec(codecType CodecType) Codec {
	switch codecType {
	case CodecTypeJSON:
		return &JSONCodec{}
	case CodecTypeMsgPack:
		return &MsgPackCodec{}
	}
	return &BinaryCodec{}
}
