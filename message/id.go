package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// IDGenerator produces message identifiers.
type IDGenerator interface {
	NewID(now time.Time) string
}

// UUIDGenerator produces time-ordered UUIDv7 strings. The timestamp embedded
// in the UUID comes from the system clock, not from now.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return uuid.NewString()
	}
	return id.String()
}

// KSUIDGenerator produces KSUIDs stamped with now.
type KSUIDGenerator struct{}

func (KSUIDGenerator) NewID(now time.Time) string {
	id, err := ksuid.NewRandomWithTime(now)
	if err != nil {
		return ksuid.New().String()
	}
	return id.String()
}

// GeneratorByName returns the generator for "uuid" or "ksuid".
func GeneratorByName(name string) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "uuid":
		return UUIDGenerator{}, nil
	case "ksuid":
		return KSUIDGenerator{}, nil
	}
	return nil, fmt.Errorf("message: unknown id scheme %q", name)
}
