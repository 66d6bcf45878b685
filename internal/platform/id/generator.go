package id

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator mints prediction IDs. IDs are opaque to callers but must stay
// unique across uploads of the same sheet.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces 32-char hex IDs with a millisecond timestamp
// prefix, so IDs created later sort later. The suffix is 10 random bytes,
// which keeps collisions implausible even within one millisecond.
type RandomGenerator struct {
	now func() time.Time
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{now: time.Now}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	// Low 48 bits of the ms timestamp fill the first six bytes.
	binary.BigEndian.PutUint64(buf[:8], uint64(g.now().UnixMilli())<<16)

	if _, err := rand.Read(buf[6:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
