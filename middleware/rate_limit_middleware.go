package middleware

import (
	"errors"

	"golang.org/x/time/rate"

	"msgwire/codec"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitMiddleware throttles decoding with a token bucket. Encoding is not
// limited: it only ever sees trusted, caller-built records.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next codec.Codec) codec.Codec {
		return CodecFunc(next,
			next.Encode,
			func(data []byte, v any) error {
				if !limiter.Allow() {
					return ErrRateLimited
				}
				return next.Decode(data, v)
			},
		)
	}
}
