// Package message defines the Msg record exchanged by msgwire.
//
// Msg is a fixed-schema record. Field order in Fields is the wire order used
// by the binary codec: position in the byte stream is defined here, not
// described by the stream itself.
package message

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Msg carries a single message.
//
// The struct tags give the wire names used by the JSON and MessagePack codecs.
type Msg struct {
	Body   string   `json:"body" msgpack:"body"`
	FromID string   `json:"fromId" msgpack:"fromId"` // Sender identifier
	ID     string   `json:"id" msgpack:"id"`         // Message identifier
	ToIDs  []string `json:"toIds" msgpack:"toIds"`   // Recipients, order is preserved on the wire
	Type   string   `json:"type" msgpack:"type"`     // Category label, e.g. "greeting"
}

// Kind is the primitive type of a schema field.
type Kind byte

const (
	KindString    Kind = 0 // u32 length + UTF-8 bytes
	KindStringSeq Kind = 1 // u32 count + count strings
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindStringSeq:
		return "string[]"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// FieldDesc describes one field of the schema.
type FieldDesc struct {
	Name string
	Kind Kind
}

// Field indexes into Fields.
const (
	FieldBody = iota
	FieldFromID
	FieldID
	FieldToIDs
	FieldType
)

// Fields is the schema of Msg in wire order.
var Fields = []FieldDesc{
	FieldBody:   {Name: "body", Kind: KindString},
	FieldFromID: {Name: "fromId", Kind: KindString},
	FieldID:     {Name: "id", Kind: KindString},
	FieldToIDs:  {Name: "toIds", Kind: KindStringSeq},
	FieldType:   {Name: "type", Kind: KindString},
}

var ErrMissingField = errors.New("message: missing required field")

// New builds a Msg with a freshly generated ID and returns it together with
// its creation time. The ID generator defaults to UUIDv7.
func New(body, fromID string, toIDs []string, typ string, opts ...Option) (*Msg, time.Time) {
	o := options{gen: UUIDGenerator{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	now := o.now()
	return &Msg{
		Body:   body,
		FromID: fromID,
		ID:     o.gen.NewID(now),
		ToIDs:  slices.Clone(toIDs),
		Type:   typ,
	}, now
}

// Option configures New.
type Option func(*options)

type options struct {
	gen IDGenerator
	now func() time.Time
}

// WithGenerator selects the ID generator used by New.
func WithGenerator(gen IDGenerator) Option {
	return func(o *options) { o.gen = gen }
}

// WithClock overrides the clock used by New.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Validate reports whether every text field is set and there is at least one
// recipient. The codec does not require this; it is for callers that treat
// such records as incomplete.
func (m *Msg) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil message", ErrMissingField)
	}
	switch {
	case m.Body == "":
		return fmt.Errorf("%w: %s", ErrMissingField, Fields[FieldBody].Name)
	case m.FromID == "":
		return fmt.Errorf("%w: %s", ErrMissingField, Fields[FieldFromID].Name)
	case m.ID == "":
		return fmt.Errorf("%w: %s", ErrMissingField, Fields[FieldID].Name)
	case len(m.ToIDs) == 0:
		return fmt.Errorf("%w: %s", ErrMissingField, Fields[FieldToIDs].Name)
	case m.Type == "":
		return fmt.Errorf("%w: %s", ErrMissingField, Fields[FieldType].Name)
	}
	return nil
}

// Equal reports structural equality. A nil and an empty ToIDs are equal,
// since both have zero recipients on the wire.
func (m *Msg) Equal(other *Msg) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Body == other.Body &&
		m.FromID == other.FromID &&
		m.ID == other.ID &&
		slices.Equal(m.ToIDs, other.ToIDs) &&
		m.Type == other.Type
}

// Clone returns a deep copy of m.
func (m *Msg) Clone() *Msg {
	if m == nil {
		return nil
	}
	c := *m
	c.ToIDs = slices.Clone(m.ToIDs)
	return &c
}
