package core

import (
	"fmt"
	"sync/atomic"
)

// Identity is a process-wide unique identifier. It is never reused within
// the lifetime of the process and is distinct from scene node ids.
type Identity uint64

// InvalidIdentity is never returned by an IdentityService.
const InvalidIdentity Identity = 0

func (id Identity) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// IdentityService hands out strictly increasing identities. The zero value
// is ready to use and is safe for concurrent callers.
type IdentityService struct {
	last atomic.Uint64
}

// Next returns the next identity. The first call returns 1.
func (s *IdentityService) Next() Identity {
	return Identity(s.last.Add(1))
}

// Last returns the most recently allocated identity, or InvalidIdentity.
func (s *IdentityService) Last() Identity {
	return Identity(s.last.Load())
}

var identities IdentityService

// NextIdentity allocates from the process-wide identity counter.
func NextIdentity() Identity {
	return identities.Next()
}
