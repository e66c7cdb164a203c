package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"markethub/internal/core/domain"
)

func TestLockoutTracker_LocksAfterThreeFailures(t *testing.T) {
	clk := newTestClock()
	tracker := NewLockoutTracker(clk)
	st := domain.NewState()

	tracker.RecordFailure(st, "customer1")
	tracker.RecordFailure(st, "customer1")
	assert.False(t, tracker.IsLocked(st, "customer1"))
	assert.Equal(t, 2, st.LoginAttempts["customer1"])

	tracker.RecordFailure(st, "customer1")
	assert.True(t, tracker.IsLocked(st, "customer1"))
	assert.Equal(t, 3, st.LoginAttempts["customer1"])
}

func TestLockoutTracker_CountersArePerIdentity(t *testing.T) {
	clk := newTestClock()
	tracker := NewLockoutTracker(clk)
	st := domain.NewState()

	tracker.RecordFailure(st, "customer1")
	tracker.RecordFailure(st, "customer1")
	tracker.RecordFailure(st, "vendor1")

	assert.False(t, tracker.IsLocked(st, "customer1"))
	assert.False(t, tracker.IsLocked(st, "vendor1"))
	assert.Equal(t, 2, st.LoginAttempts["customer1"])
	assert.Equal(t, 1, st.LoginAttempts["vendor1"])
}

func TestLockoutTracker_LazyExpiryResetsCounter(t *testing.T) {
	clk := newTestClock()
	tracker := NewLockoutTracker(clk)
	st := domain.NewState()

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(st, "customer1")
	}
	assert.True(t, tracker.IsLocked(st, "customer1"))

	// Just inside the window the lock holds.
	clk.Advance(domain.LockoutWindowMs*time.Millisecond - time.Second)
	assert.True(t, tracker.IsLocked(st, "customer1"))

	// A single check after expiry removes the lock and resets the
	// counter, so the next failure starts from one again.
	clk.Advance(2 * time.Second)
	assert.False(t, tracker.IsLocked(st, "customer1"))
	assert.NotContains(t, st.LockedAccounts, "customer1")
	assert.Equal(t, 0, st.LoginAttempts["customer1"])

	tracker.RecordFailure(st, "customer1")
	assert.False(t, tracker.IsLocked(st, "customer1"))
}

func TestLockoutTracker_SweepRemovesExpiredAndResetsAllCounters(t *testing.T) {
	clk := newTestClock()
	tracker := NewLockoutTracker(clk)
	st := domain.NewState()

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(st, "stale")
	}
	clk.Advance(domain.LockoutWindowMs * time.Millisecond)

	// A fresh lock and an unlocked identity with partial failures.
	for i := 0; i < 3; i++ {
		tracker.RecordFailure(st, "fresh")
	}
	tracker.RecordFailure(st, "partial")

	changed := tracker.Sweep(st)
	assert.True(t, changed)
	assert.NotContains(t, st.LockedAccounts, "stale")
	assert.Contains(t, st.LockedAccounts, "fresh")

	// Any expiry resets every counter, including unrelated ones.
	assert.Empty(t, st.LoginAttempts)
}

func TestLockoutTracker_SweepNoExpiredLocksIsNoOp(t *testing.T) {
	clk := newTestClock()
	tracker := NewLockoutTracker(clk)
	st := domain.NewState()

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(st, "customer1")
	}
	tracker.RecordFailure(st, "vendor1")

	changed := tracker.Sweep(st)
	assert.False(t, changed)
	assert.Contains(t, st.LockedAccounts, "customer1")
	assert.Equal(t, 1, st.LoginAttempts["vendor1"])
}
