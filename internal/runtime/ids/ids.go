// Package ids generates identifiers used on the wire.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// CreateULID returns a time-sortable ULID encoded as a 26-character string.
// Used for correlation identifiers injected into envelope params.
func CreateULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}

// NewUUID returns a random RFC 4122 UUID string. The dispatcher never
// assigns envelope IDs itself; callers issuing requests can use this to
// produce one.
func NewUUID() string {
	return uuid.NewString()
}
