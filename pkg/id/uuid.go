package id

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var mu = &sync.Mutex{}

// GetUUID generates a new UUID.
func GetUUID() string {
	mu.Lock()
	defer mu.Unlock()
	return uuid.NewString()
}

// GetUUIDWithoutDashes generates a new UUID without dashes.
func GetUUIDWithoutDashes() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Replace(uuid.NewString(), "-", "", -1)
}

// GetULID generates a lexicographically sortable id, used for append-only
// record streams.
func GetULID() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
