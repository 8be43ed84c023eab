package middleware

import (
	"msgwire/codec"
)

// LimitMiddleware rejects inputs and outputs longer than maxSize bytes
// regardless of the codec underneath. The binary codec enforces its own
// MaxSize; this covers the self-describing codecs too.
func LimitMiddleware(maxSize int) Middleware {
	return func(next codec.Codec) codec.Codec {
		return CodecFunc(next,
			func(v any) ([]byte, error) {
				data, err := next.Encode(v)
				if err != nil {
					return nil, err
				}
				if len(data) > maxSize {
					return nil, &codec.EncodeError{Size: uint64(len(data)), Err: codec.ErrMessageTooLarge}
				}
				return data, nil
			},
			func(data []byte, v any) error {
				if len(data) > maxSize {
					return &codec.DecodeError{Offset: 0, Err: codec.ErrMessageTooLarge}
				}
				return next.Decode(data, v)
			},
		)
	}
}
