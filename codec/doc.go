// Package codec converts message.Msg records to and from bytes.
//
// The binary format is fixed by the schema in package message; nothing on
// the wire names a field. Every integer is an unsigned 32-bit little-endian
// value:
//
//	[total_length]
//	[body_len][body]
//	[from_id_len][from_id]
//	[id_len][id]
//	[to_ids_count] to_ids_count x [len][bytes]
//	[type_len][type]
//
// total_length counts the bytes after itself, so a reader knows how much to
// consume before parsing. Text is UTF-8 with no terminator. The smallest
// record is MinSize (24) bytes.
//
// # Errors
//
// Marshal fails with an *EncodeError when a length does not fit in 32 bits,
// the record exceeds the codec's MaxSize, or a text field is not valid UTF-8.
//
// Unmarshal fails with a *DecodeError wrapping one of:
//   - ErrTruncatedInput: a prefix claims more bytes than remain
//   - ErrInvalidUTF8: a text payload is not UTF-8
//   - ErrLengthMismatch: total_length disagrees with the buffer
//   - ErrMalformedPrefix: the frame ends inside a prefix
//   - ErrMessageTooLarge: total_length exceeds MaxSize
//
// total_length is checked before any field is parsed, and every count is
// checked against the remaining bytes before anything is allocated. No
// record is returned alongside an error.
//
// # Other codecs
//
// JSONCodec and MsgPackCodec implement the same Codec interface for tooling
// and comparison. They are self-describing and not wire compatible with
// BinaryCodec.
//
// # Thread Safety
//
// All codecs are stateless after construction and safe for concurrent use.
package codec
