package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"markethub/internal/adapters/persistence"
	"markethub/internal/config"
	"markethub/internal/core/domain"
	"markethub/internal/core/state"
	"markethub/internal/pkg/clock"
	"markethub/internal/pkg/password"
)

// -------- test fixtures --------

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestClock() *clock.Manual {
	return clock.NewManual(testEpoch)
}

func newTestContainer(t *testing.T) *state.Container {
	t.Helper()
	c, err := state.Load(context.Background(), persistence.NewMemoryStore(), domain.NewState)
	require.NoError(t, err)
	return c
}

func newTestConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		Admin:   config.AdminConfig{Password: "step1-secret", ID: "step2-secret"},
		JWT:     config.JWTConfig{Secret: "test-signing-key", AccessTokenMins: 15},
	}
}

// addUser registers a user directly in the document with a bcrypt
// password hash.
func addUser(t *testing.T, c *state.Container, identity string, role domain.Role, credits int64, pass string) {
	t.Helper()

	hash, err := password.Hash(pass)
	require.NoError(t, err)

	err = c.Update(context.Background(), func(st *domain.State) error {
		u := &domain.User{
			Type:                role,
			Credits:             credits,
			Password:            hash,
			PendingTransactions: []domain.PendingTransaction{},
		}
		if role == domain.RoleVendor {
			u.Products = []domain.Product{}
		}
		st.Users[identity] = u
		return nil
	})
	require.NoError(t, err)
}

// getState snapshots the current document.
func getState(c *state.Container) *domain.State {
	var snap *domain.State
	c.View(func(st *domain.State) {
		snap = st
	})
	return snap
}
