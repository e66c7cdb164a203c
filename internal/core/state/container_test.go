package state

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markethub/internal/adapters/persistence"
	"markethub/internal/core/domain"
)

func seedState() *domain.State {
	st := domain.NewState()
	st.Users["customer1"] = &domain.User{
		Type:                domain.RoleCustomer,
		Credits:             50,
		Password:            "hash",
		PendingTransactions: []domain.PendingTransaction{},
	}
	return st
}

func TestLoad_SeedsEmptyStore(t *testing.T) {
	store := persistence.NewMemoryStore()

	c, err := Load(context.Background(), store, seedState)
	require.NoError(t, err)

	c.View(func(s *domain.State) {
		assert.Contains(t, s.Users, "customer1")
	})

	// The seeded document is persisted immediately.
	blob, err := store.Get(context.Background(), domain.StateKey)
	require.NoError(t, err)
	require.NotNil(t, blob)
}

func TestLoad_RestoresExistingDocument(t *testing.T) {
	store := persistence.NewMemoryStore()
	st := seedState()
	st.AdminBalance = 123
	blob, err := json.Marshal(st)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), domain.StateKey, blob))

	c, err := Load(context.Background(), store, domain.NewState)
	require.NoError(t, err)

	c.View(func(s *domain.State) {
		assert.Equal(t, int64(123), s.AdminBalance)
		assert.Contains(t, s.Users, "customer1")
	})
}

func TestLoad_CorruptDocumentFallsBackToSeed(t *testing.T) {
	store := persistence.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), domain.StateKey, []byte("{not json")))

	c, err := Load(context.Background(), store, seedState)
	require.NoError(t, err)

	c.View(func(s *domain.State) {
		assert.Contains(t, s.Users, "customer1")
		assert.Zero(t, s.AdminBalance)
	})
}

func TestUpdate_PersistsMutation(t *testing.T) {
	store := persistence.NewMemoryStore()
	c, err := Load(context.Background(), store, seedState)
	require.NoError(t, err)

	err = c.Update(context.Background(), func(s *domain.State) error {
		s.AdminBalance = 77
		return nil
	})
	require.NoError(t, err)

	// A second container restored from the same store sees the change.
	c2, err := Load(context.Background(), store, domain.NewState)
	require.NoError(t, err)
	c2.View(func(s *domain.State) {
		assert.Equal(t, int64(77), s.AdminBalance)
	})
}

func TestUpdate_FailedMutationLeavesDocumentUntouched(t *testing.T) {
	store := persistence.NewMemoryStore()
	c, err := Load(context.Background(), store, seedState)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = c.Update(context.Background(), func(s *domain.State) error {
		s.AdminBalance = 999
		delete(s.Users, "customer1")
		return boom
	})
	require.ErrorIs(t, err, boom)

	c.View(func(s *domain.State) {
		assert.Zero(t, s.AdminBalance)
		assert.Contains(t, s.Users, "customer1")
	})
}

func TestView_CannotMutateSharedState(t *testing.T) {
	store := persistence.NewMemoryStore()
	c, err := Load(context.Background(), store, seedState)
	require.NoError(t, err)

	c.View(func(s *domain.State) {
		s.Users["customer1"].Credits = 0
	})

	c.View(func(s *domain.State) {
		assert.Equal(t, int64(50), s.Users["customer1"].Credits)
	})
}

func TestForceLogout_PatchesOnlySessionFields(t *testing.T) {
	store := persistence.NewMemoryStore()
	c, err := Load(context.Background(), store, seedState)
	require.NoError(t, err)

	err = c.Update(context.Background(), func(s *domain.State) error {
		s.SetSession("customer1")
		s.AdminBalance = 11
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, c.ForceLogout(context.Background()))

	blob, err := store.Get(context.Background(), domain.StateKey)
	require.NoError(t, err)

	st := &domain.State{}
	require.NoError(t, json.Unmarshal(blob, st))
	assert.False(t, st.IsLoggedIn)
	assert.Nil(t, st.CurrentUser)
	assert.Equal(t, int64(11), st.AdminBalance)
	assert.Contains(t, st.Users, "customer1")
}
