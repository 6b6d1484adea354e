// Package identity generates globally-unique tokens for agents, work items,
// and coordination records. Tokens combine a nanosecond timestamp with a
// random suffix so that two uncoordinated processes observing the same
// clock tick still produce distinct IDs.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// suffixBytes is the number of random bytes appended to each ID.
const suffixBytes = 4

// fallbackCounter disambiguates IDs when the OS random source is unavailable.
var fallbackCounter atomic.Uint64

// New returns a unique identifier of the form "<unix-nanos>-<hex-suffix>".
// It never blocks and never fails: if the random source is unreadable the
// suffix falls back to pid+counter, which still guarantees uniqueness within
// a process and near-uniqueness across processes.
func New() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), suffix())
}

// NewWithPrefix returns a unique identifier prefixed with the given label,
// e.g. NewWithPrefix("agent") -> "agent-1712345678901234567-a1b2c3d4".
func NewWithPrefix(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), suffix())
}

// suffix returns a short random hex string.
func suffix() string {
	b := make([]byte, suffixBytes)
	if _, err := rand.Read(b); err != nil {
		// Extremely rare; keep IDs unique without blocking.
		return fmt.Sprintf("%x-%d", os.Getpid(), fallbackCounter.Add(1))
	}
	return hex.EncodeToString(b)
}
