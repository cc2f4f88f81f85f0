package archive

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type recordingLogger struct {
	NopLogger
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

type identityStub struct {
	user, machine       string
	userErr, machineErr error
}

func (i identityStub) User() (string, error)    { return i.user, i.userErr }
func (i identityStub) Machine() (string, error) { return i.machine, i.machineErr }

func TestAuditor_Stamp(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := clockFunc(func() time.Time { return now })

	tests := []struct {
		name        string
		identity    identityStub
		wantUser    string
		wantMachine string
		wantWarns   int
	}{
		{
			name:        "resolved identity",
			identity:    identityStub{user: "archivist", machine: "reading-room"},
			wantUser:    "archivist",
			wantMachine: "reading-room",
		},
		{
			name:        "user lookup fails",
			identity:    identityStub{userErr: fmt.Errorf("%w: no passwd entry", ErrIdentityUnresolved), machine: "reading-room"},
			wantUser:    UnknownIdentity,
			wantMachine: "reading-room",
			wantWarns:   1,
		},
		{
			name:        "both lookups fail with foreign errors",
			identity:    identityStub{userErr: errors.New("boom"), machineErr: errors.New("boom")},
			wantUser:    UnknownIdentity,
			wantMachine: UnknownIdentity,
			wantWarns:   2,
		},
		{
			name:        "empty values count as unresolved",
			identity:    identityStub{},
			wantUser:    UnknownIdentity,
			wantMachine: UnknownIdentity,
			wantWarns:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			a := NewAuditor(clock, tt.identity, logger)

			f := &Fond{FondNo: "A01"}
			a.Stamp(f)

			if f.CreatedBy != tt.wantUser {
				t.Errorf("CreatedBy = %q, want %q", f.CreatedBy, tt.wantUser)
			}
			if f.CreatedMachine != tt.wantMachine {
				t.Errorf("CreatedMachine = %q, want %q", f.CreatedMachine, tt.wantMachine)
			}
			if !f.CreatedAt.Equal(now) {
				t.Errorf("CreatedAt = %v, want %v", f.CreatedAt, now)
			}
			if len(logger.warns) != tt.wantWarns {
				t.Errorf("warnings logged = %d, want %d", len(logger.warns), tt.wantWarns)
			}
		})
	}
}

func TestOSIdentity_User_FromEnvironment(t *testing.T) {
	t.Setenv("USER", "archivist")

	got, err := OSIdentity{}.User()
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}
	if got != "archivist" {
		t.Errorf("User() = %q, want %q", got, "archivist")
	}
}
