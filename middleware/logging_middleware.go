package middleware

import (
	"time"

	"github.com/rs/zerolog"

	"msgwire/codec"
)

// LoggingMiddleware logs every encode and decode: successes at debug level,
// failures at warn.
func LoggingMiddleware(logger zerolog.Logger) Middleware {
	return func(next codec.Codec) codec.Codec {
		name := next.Type().String()
		log := func(op string, size int, start time.Time, err error) {
			ev := logger.Debug()
			if err != nil {
				ev = logger.Warn().Err(err).Str("error_class", ErrorClass(err))
			}
			ev.Str("codec", name).
				Str("op", op).
				Int("bytes", size).
				Dur("latency", time.Since(start)).
				Msg("codec call")
		}

		return CodecFunc(next,
			func(v any) ([]byte, error) {
				start := time.Now()
				data, err := next.Encode(v)
				log("encode", len(data), start, err)
				return data, err
			},
			func(data []byte, v any) error {
				start := time.Now()
				err := next.Decode(data, v)
				log("decode", len(data), start, err)
				return err
			},
		)
	}
}
