package codec

import (
	"msgwire/message"
)

// FieldSpan is the byte range a schema field occupies in an encoded record,
// prefix included. For toIds it covers the count and every element.
type FieldSpan struct {
	Field  string
	Offset int
	Length int
}

// End returns the offset just past the span.
func (s FieldSpan) End() int {
	return s.Offset + s.Length
}

// Layout decodes data and returns the span of each field in schema order.
func Layout(data []byte) ([]FieldSpan, *message.Msg, error) {
	return defaultBinary.Layout(data)
}

func (c *BinaryCodec) Layout(data []byte) ([]FieldSpan, *message.Msg, error) {
	spans := make([]FieldSpan, 0, len(message.Fields))
	m, err := c.decode(data, &spans)
	if err != nil {
		return nil, nil, err
	}
	return spans, m, nil
}
