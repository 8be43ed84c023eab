// Package protocol reads and writes streams of binary-encoded records.
//
// Records are written back to back. Each one starts with its own 4-byte
// little-endian total_length header, so a reader takes the header first,
// then exactly that many bytes, and only then hands the frame to the codec:
//
//	┌──────────────┬──────────────────────────┬──────────────┬─────
//	│ total_length │ fields (total_length B)  │ total_length │ ...
//	└──────────────┴──────────────────────────┴──────────────┴─────
//
// This is framing over any io.Reader/io.Writer (files, pipes, buffers); it
// has no notion of connections or peers.
package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"msgwire/codec"
	"msgwire/message"
)

// growStep bounds the up-front allocation for a frame. The rest grows as
// bytes actually arrive, so a forged header cannot force a large allocation.
const growStep = 64 << 10

// Writer writes framed records to an io.Writer. It is safe for concurrent
// use; each record is written with a single Write call under a lock so frames
// never interleave.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	codec *codec.BinaryCodec
	buf   []byte // Reused encode buffer, protected by mu
}

// NewWriter returns a Writer encoding with c. A nil c uses the default codec.
func NewWriter(w io.Writer, c *codec.BinaryCodec) *Writer {
	if c == nil {
		c = &codec.BinaryCodec{}
	}
	return &Writer{w: w, codec: c}
}

// WriteMsg encodes m and writes it as one frame.
func (w *Writer) WriteMsg(m *message.Msg) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	buf, err := w.codec.Append(w.buf[:0], m)
	if err != nil {
		return err
	}
	w.buf = buf
	_, err = w.w.Write(buf)
	return err
}

// WriteFrame writes an already encoded record after checking its header.
func (w *Writer) WriteFrame(frame []byte) error {
	if _, err := w.codec.CheckHeader(frame); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.w.Write(frame)
	return err
}

// Reader reads framed records from an io.Reader. Reads must be sequential to
// keep frame boundaries, so a Reader is not safe for concurrent use.
type Reader struct {
	r     io.Reader
	codec *codec.BinaryCodec
}

// NewReader returns a Reader that rejects frames whose total_length exceeds
// maxSize. Pass 0 for the u32 limit.
func NewReader(r io.Reader, maxSize uint32) *Reader {
	return &Reader{r: r, codec: codec.NewBinaryCodec(maxSize)}
}

// ReadFrame returns the next complete frame, header included. It returns
// io.EOF only when the stream ends cleanly between frames.
func (r *Reader) ReadFrame() ([]byte, error) {
	var header [codec.HeaderSize]byte
	n, err := io.ReadFull(r.r, header[:])
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, &codec.DecodeError{Offset: n, Err: codec.ErrTruncatedInput}
	case err != nil:
		return nil, err
	}

	total := binary.LittleEndian.Uint32(header[:])
	if limit := r.codec.MaxSize; limit != 0 && total > limit {
		return nil, &codec.DecodeError{Offset: 0, Err: codec.ErrMessageTooLarge}
	}

	var buf bytes.Buffer
	buf.Grow(codec.HeaderSize + int(min(total, growStep)))
	buf.Write(header[:])
	copied, err := io.CopyN(&buf, r.r, int64(total))
	if err != nil {
		if err == io.EOF {
			return nil, &codec.DecodeError{Offset: codec.HeaderSize + int(copied), Err: codec.ErrTruncatedInput}
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadMsg reads and decodes the next record.
func (r *Reader) ReadMsg() (*message.Msg, error) {
	frame, err := r.ReadFrame()
	if err != nil {
		return nil, err
	}
	return r.codec.Unmarshal(frame)
}
