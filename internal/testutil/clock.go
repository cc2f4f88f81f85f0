package testutil

import (
	"sync"
	"time"
)

// StubClock returns a fixed time. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *StubClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// StubIdentity reports a fixed user and machine. A non-nil Err is returned
// from both lookups instead.
type StubIdentity struct {
	UserName    string
	MachineName string
	Err         error
}

// FixedIdentity returns the identity used across tests.
func FixedIdentity() StubIdentity {
	return StubIdentity{UserName: "archivist", MachineName: "reading-room"}
}

func (s StubIdentity) User() (string, error)    { return s.UserName, s.Err }
func (s StubIdentity) Machine() (string, error) { return s.MachineName, s.Err }
