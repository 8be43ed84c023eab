// Package middleware decorates codecs with cross-cutting behaviour.
//
// A Middleware wraps a codec.Codec and returns another one, so decorators
// stack like an onion:
//
//	Chain(A, B, C)(c) → A(B(C(c)))
//	Encode runs A.before → B.before → C.before → c → C.after → B.after → A.after
package middleware

import (
	"msgwire/codec"
)

type Middleware func(next codec.Codec) codec.Codec

// Chain composes middlewares; the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next codec.Codec) codec.Codec {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Wrap applies middlewares to c.
func Wrap(c codec.Codec, middlewares ...Middleware) codec.Codec {
	return Chain(middlewares...)(c)
}

// EncodeFunc and DecodeFunc are the two halves of a Codec.
type (
	EncodeFunc func(v any) ([]byte, error)
	DecodeFunc func(data []byte, v any) error
)

// CodecFunc builds a Codec from functions. It keeps next's Type.
func CodecFunc(next codec.Codec, encode EncodeFunc, decode DecodeFunc) codec.Codec {
	return &funcCodec{encode: encode, decode: decode, typ: next.Type()}
}

type funcCodec struct {
	encode EncodeFunc
	decode DecodeFunc
	typ    codec.CodecType
}

func (f *funcCodec) Encode(v any) ([]byte, error)    { return f.encode(v) }
func (f *funcCodec) Decode(data []byte, v any) error { return f.decode(data, v) }
func (f *funcCodec) Type() codec.CodecType           { return f.typ }
