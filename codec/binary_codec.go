package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"msgwire/message"
)

const (
	HeaderSize = 4 // total_length
	prefixSize = 4 // every length and count prefix

	// MinSize is the encoded size of a record with empty text fields and no
	// recipients: the header plus five prefixes.
	MinSize = HeaderSize + 5*prefixSize

	// DefaultMaxSize bounds total_length when reading untrusted streams.
	DefaultMaxSize = 16 << 20
)

// BinaryCodec implements the msgwire wire format. All integers are unsigned
// 32-bit little-endian:
//
//	[total_length]
//	[len][body] [len][fromId] [len][id]
//	[count] count x [len][toId]
//	[len][type]
//
// total_length counts the bytes that follow it. A BinaryCodec has no mutable
// state and is safe for concurrent use.
type BinaryCodec struct {
	// MaxSize caps total_length on both encode and decode. Zero means the
	// u32 limit.
	MaxSize uint32
}

// NewBinaryCodec returns a codec that rejects records whose total_length
// exceeds maxSize. Pass 0 for the u32 limit.
func NewBinaryCodec(maxSize uint32) *BinaryCodec {
	return &BinaryCodec{MaxSize: maxSize}
}

var defaultBinary = &BinaryCodec{}

// Marshal encodes m into a newly allocated buffer.
func Marshal(m *message.Msg) ([]byte, error) {
	return defaultBinary.Marshal(m)
}

// Unmarshal decodes a buffer produced by Marshal. The returned record does
// not share memory with data.
func Unmarshal(data []byte) (*message.Msg, error) {
	return defaultBinary.Unmarshal(data)
}

// Size returns the encoded length of m, header included.
func Size(m *message.Msg) (int, error) {
	return defaultBinary.Size(m)
}

// Append encodes m to the end of dst. On error dst is returned unchanged.
func Append(dst []byte, m *message.Msg) ([]byte, error) {
	return defaultBinary.Append(dst, m)
}

func (c *BinaryCodec) Encode(v any) ([]byte, error) {
	switch m := v.(type) {
	case *message.Msg:
		return c.Marshal(m)
	case message.Msg:
		return c.Marshal(&m)
	}
	return nil, fmt.Errorf("BinaryCodec: %w %T, want *message.Msg", ErrUnsupportedType, v)
}

// Decode fills v, which must be a *message.Msg. v is left untouched on error.
func (c *BinaryCodec) Decode(data []byte, v any) error {
	msg, ok := v.(*message.Msg)
	if !ok || msg == nil {
		return fmt.Errorf("BinaryCodec: %w %T, want non-nil *message.Msg", ErrUnsupportedType, v)
	}
	decoded, err := c.Unmarshal(data)
	if err != nil {
		return err
	}
	*msg = *decoded
	return nil
}

func (c *BinaryCodec) Type() CodecType {
	return CodecTypeBinary
}

func (c *BinaryCodec) Marshal(m *message.Msg) ([]byte, error) {
	n, err := c.Size(m)
	if err != nil {
		return nil, err
	}
	return c.appendMsg(make([]byte, 0, n), m), nil
}

func (c *BinaryCodec) Append(dst []byte, m *message.Msg) ([]byte, error) {
	n, err := c.Size(m)
	if err != nil {
		return dst, err
	}
	return c.appendMsg(slices.Grow(dst, n), m), nil
}

// Size validates m and returns its encoded length, header included.
func (c *BinaryCodec) Size(m *message.Msg) (int, error) {
	if m == nil {
		return 0, &EncodeError{Err: fmt.Errorf("%w: nil message", ErrUnsupportedType)}
	}
	total := uint64(HeaderSize)
	add := func(field int, s string) error {
		n := uint64(len(s))
		if n > math.MaxUint32 {
			return &EncodeError{Field: fieldName(field), Size: n, Err: ErrFieldTooLarge}
		}
		if !utf8.ValidString(s) {
			return &EncodeError{Field: fieldName(field), Size: n, Err: ErrInvalidUTF8}
		}
		total += prefixSize + n
		return nil
	}

	if err := add(message.FieldBody, m.Body); err != nil {
		return 0, err
	}
	if err := add(message.FieldFromID, m.FromID); err != nil {
		return 0, err
	}
	if err := add(message.FieldID, m.ID); err != nil {
		return 0, err
	}
	if n := uint64(len(m.ToIDs)); n > math.MaxUint32 {
		return 0, &EncodeError{Field: fieldName(message.FieldToIDs), Size: n, Err: ErrFieldTooLarge}
	}
	total += prefixSize
	for _, s := range m.ToIDs {
		if err := add(message.FieldToIDs, s); err != nil {
			return 0, err
		}
	}
	if err := add(message.FieldType, m.Type); err != nil {
		return 0, err
	}

	if body := total - HeaderSize; body > c.limit() {
		return 0, &EncodeError{Size: body, Err: ErrMessageTooLarge}
	}
	return int(total), nil
}

// appendMsg writes an already validated record.
func (c *BinaryCodec) appendMsg(dst []byte, m *message.Msg) []byte {
	start := len(dst)
	// Reserve total_length, patched once the fields are written.
	dst = append(dst, 0, 0, 0, 0)

	dst = appendString(dst, m.Body)
	dst = appendString(dst, m.FromID)
	dst = appendString(dst, m.ID)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(m.ToIDs)))
	for _, s := range m.ToIDs {
		dst = appendString(dst, s)
	}
	dst = appendString(dst, m.Type)

	binary.LittleEndian.PutUint32(dst[start:], uint32(len(dst)-start-HeaderSize))
	return dst
}

func appendString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

func (c *BinaryCodec) Unmarshal(data []byte) (*message.Msg, error) {
	return c.decode(data, nil)
}

func (c *BinaryCodec) limit() uint64 {
	if c == nil || c.MaxSize == 0 {
		return math.MaxUint32
	}
	return uint64(c.MaxSize)
}

// CheckHeader validates the total_length header of data against the codec's
// limit and returns it. It does not look at the fields.
func (c *BinaryCodec) CheckHeader(data []byte) (uint32, error) {
	if len(data) < HeaderSize {
		return 0, &DecodeError{Offset: 0, Err: ErrTruncatedInput}
	}
	total := binary.LittleEndian.Uint32(data)
	if uint64(total) > c.limit() {
		return 0, &DecodeError{Offset: 0, Err: ErrMessageTooLarge}
	}
	if uint64(total) != uint64(len(data)-HeaderSize) {
		return 0, &DecodeError{Offset: 0, Err: ErrLengthMismatch}
	}
	return total, nil
}

// decode parses data. When spans is non-nil it receives the byte range of
// each schema field.
func (c *BinaryCodec) decode(data []byte, spans *[]FieldSpan) (*message.Msg, error) {
	if _, err := c.CheckHeader(data); err != nil {
		return nil, err
	}

	r := reader{data: data, off: HeaderSize}
	mark := func(field int, from int) {
		if spans != nil {
			*spans = append(*spans, FieldSpan{Field: fieldName(field), Offset: from, Length: r.off - from})
		}
	}

	m := &message.Msg{}
	var err error

	from := r.off
	if m.Body, err = r.string(fieldName(message.FieldBody)); err != nil {
		return nil, err
	}
	mark(message.FieldBody, from)

	from = r.off
	if m.FromID, err = r.string(fieldName(message.FieldFromID)); err != nil {
		return nil, err
	}
	mark(message.FieldFromID, from)

	from = r.off
	if m.ID, err = r.string(fieldName(message.FieldID)); err != nil {
		return nil, err
	}
	mark(message.FieldID, from)

	from = r.off
	if m.ToIDs, err = r.strings(fieldName(message.FieldToIDs)); err != nil {
		return nil, err
	}
	mark(message.FieldToIDs, from)

	from = r.off
	if m.Type, err = r.string(fieldName(message.FieldType)); err != nil {
		return nil, err
	}
	mark(message.FieldType, from)

	if r.off != len(data) {
		return nil, &DecodeError{Offset: r.off, Err: ErrLengthMismatch}
	}
	return m, nil
}

// reader walks a buffer whose header has already been checked, so the end of
// data is the end of the declared frame.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) uint32(field string) (uint32, error) {
	if r.remaining() < prefixSize {
		return 0, &DecodeError{Field: field, Offset: r.off, Err: ErrMalformedPrefix}
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += prefixSize
	return v, nil
}

func (r *reader) string(field string) (string, error) {
	start := r.off
	n, err := r.uint32(field)
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.remaining()) {
		return "", &DecodeError{Field: field, Offset: start, Err: ErrTruncatedInput}
	}
	b := r.data[r.off : r.off+int(n)]
	if !utf8.Valid(b) {
		return "", &DecodeError{Field: field, Offset: r.off, Err: ErrInvalidUTF8}
	}
	r.off += int(n)
	// string(b) copies, so the record never aliases the caller's buffer.
	return string(b), nil
}

func (r *reader) strings(field string) ([]string, error) {
	start := r.off
	count, err := r.uint32(field)
	if err != nil {
		return nil, err
	}
	// Every element carries at least a prefix; reject impossible counts
	// before allocating.
	if uint64(count)*prefixSize > uint64(r.remaining()) {
		return nil, &DecodeError{Field: field, Offset: start, Err: ErrTruncatedInput}
	}
	out := make([]string, 0, count)
	for i := range int(count) {
		s, err := r.string(field)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Field = fmt.Sprintf("%s[%d]", field, i)
			}
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func fieldName(field int) string {
	return message.Fields[field].Name
}
