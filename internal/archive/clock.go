package archive

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"time"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time in the local zone.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// UnknownIdentity is recorded when the user or host cannot be determined.
const UnknownIdentity = "unknown"

// Identity reports who is acting and on which machine.
type Identity interface {
	User() (string, error)
	Machine() (string, error)
}

// OSIdentity reads the acting user from the environment or the account
// database and the machine from the host name.
type OSIdentity struct{}

func (OSIdentity) User() (string, error) {
	for _, key := range []string{"USER", "LOGNAME", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("%w: looking up current user: %w", ErrIdentityUnresolved, err)
	}
	if u.Username == "" {
		return "", fmt.Errorf("%w: empty user name", ErrIdentityUnresolved)
	}
	return u.Username, nil
}

func (OSIdentity) Machine() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("%w: reading host name: %w", ErrIdentityUnresolved, err)
	}
	if host == "" {
		return "", fmt.Errorf("%w: empty host name", ErrIdentityUnresolved)
	}
	return host, nil
}

// Auditor stamps provenance onto records before they are first stored.
type Auditor struct {
	clock    Clock
	identity Identity
	logger   Logger
}

func NewAuditor(clock Clock, identity Identity, logger Logger) *Auditor {
	return &Auditor{clock: clock, identity: identity, logger: logger}
}

// Stamp sets CreatedBy, CreatedMachine and CreatedAt on r.
// Identity failures never fail the write: the sentinel UnknownIdentity is
// recorded and a warning is logged.
func (a *Auditor) Stamp(r Record) {
	audit := r.AuditRecord()
	audit.CreatedBy = a.resolve("user", a.identity.User)
	audit.CreatedMachine = a.resolve("machine", a.identity.Machine)
	audit.CreatedAt = a.clock.Now()
}

// Now exposes the auditor's clock to callers that must agree with it.
func (a *Auditor) Now() time.Time { return a.clock.Now() }

func (a *Auditor) resolve(field string, lookup func() (string, error)) string {
	v, err := lookup()
	if err == nil && v != "" {
		return v
	}
	if err == nil {
		err = ErrIdentityUnresolved
	}
	if !errors.Is(err, ErrIdentityUnresolved) {
		err = fmt.Errorf("%w: %w", ErrIdentityUnresolved, err)
	}
	a.logger.Warn("identity unresolved, recording sentinel", "field", field, "sentinel", UnknownIdentity, "error", err)
	return UnknownIdentity
}
