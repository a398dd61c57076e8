// Package id provides centralized ID generation for the surface host.
//
// Two formats coexist on purpose:
//   - Prefixed ULIDs for host-side identities (sessions, inset handles):
//     lexicographically sortable and readable in logs.
//   - Random UUIDs for output ids shipped into the surface: the protocol
//     only requires process-uniqueness, and the surface treats them as
//     opaque DOM ids.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// SessionID identifies a surface session.
type SessionID string

// Handle is the stable identity of an output inset on the host side. It is
// assigned once when the output enters the system and never reused; the
// inset cache is keyed by it.
type Handle string

const (
	sessionPrefix = "surf"
	handlePrefix  = "inset"
)

// Generator produces ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a ULID generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewSessionID generates a new surface session ID.
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(sessionPrefix))
}

// NewHandle generates a new inset handle.
func NewHandle() Handle {
	return Handle(Default().GenerateWithPrefix(handlePrefix))
}

// NewOutputID generates the id under which an output is created inside the
// surface. Fresh per creation; re-shows reuse the cached value.
func NewOutputID() string {
	return uuid.NewString()
}

func (id SessionID) String() string { return string(id) }
func (h Handle) String() string     { return string(h) }
