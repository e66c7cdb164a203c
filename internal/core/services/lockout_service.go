package services

import (
	"markethub/internal/core/domain"
	"markethub/internal/pkg/clock"
)

// LockoutTracker counts failed login attempts per identity and
// enforces the timed lockout: 3 failures lock an identity for 10
// minutes. Its methods mutate a State Document in place and are meant
// to run inside a container Update together with the operation that
// triggered them.
type LockoutTracker struct {
	clk clock.Clock
}

// NewLockoutTracker creates a new lockout tracker
func NewLockoutTracker(clk clock.Clock) *LockoutTracker {
	return &LockoutTracker{clk: clk}
}

// RecordFailure increments the identity's failed-attempt counter and
// installs a lock once the counter reaches the threshold. The counter
// is preserved, not reset, so the identity stays counted as locked
// until the window elapses.
func (t *LockoutTracker) RecordFailure(s *domain.State, identity string) {
	attempts := s.LoginAttempts[identity] + 1
	s.LoginAttempts[identity] = attempts

	if attempts >= domain.MaxLoginAttempts {
		s.LockedAccounts[identity] = domain.LockInfo{Timestamp: t.clk.NowMillis()}
	}
}

// IsLocked reports whether the identity is inside an active lockout
// window. An expired lock is removed lazily here and the identity's
// attempt counter reset to zero.
func (t *LockoutTracker) IsLocked(s *domain.State, identity string) bool {
	lock, ok := s.LockedAccounts[identity]
	if !ok {
		return false
	}

	if t.clk.NowMillis()-lock.Timestamp < domain.LockoutWindowMs {
		return true
	}

	delete(s.LockedAccounts, identity)
	s.LoginAttempts[identity] = 0
	return false
}

// Sweep removes every lock whose window has elapsed. When any lock was
// removed, ALL attempt counters are reset, not just the expired ones.
// The global reset is a deliberate simplification. Returns whether the
// document changed.
func (t *LockoutTracker) Sweep(s *domain.State) bool {
	now := t.clk.NowMillis()

	changed := false
	for identity, lock := range s.LockedAccounts {
		if now-lock.Timestamp >= domain.LockoutWindowMs {
			delete(s.LockedAccounts, identity)
			changed = true
		}
	}

	if changed {
		s.LoginAttempts = map[string]int{}
	}
	return changed
}
