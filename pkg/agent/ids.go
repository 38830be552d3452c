package agent

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idMu      sync.Mutex
	idEntropy = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NewSessionID mints a sortable session identifier.
func NewSessionID() string {
	return "sess_" + newULID()
}

// newCallID backfills an identifier for tool calls the provider returned
// without one, so tool result messages can still be correlated.
func newCallID() string {
	return "call_" + strings.ToLower(newULID())
}

func newULID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String()
}
