package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markethub/internal/core/domain"
)

func TestAdminService_SetCredits(t *testing.T) {
	container := newTestContainer(t)
	admin := NewAdminService(container, newTestClock())
	ctx := context.Background()

	addUser(t, container, "alice", domain.RoleCustomer, 10, "pw")

	require.NoError(t, admin.SetCredits(ctx, "alice", 500))
	assert.Equal(t, int64(500), getState(container).Users["alice"].Credits)

	// Negative input clamps to zero rather than erroring.
	require.NoError(t, admin.SetCredits(ctx, "alice", -50))
	assert.Equal(t, int64(0), getState(container).Users["alice"].Credits)

	assert.ErrorIs(t, admin.SetCredits(ctx, "ghost", 100), domain.ErrUserNotFound)
}

func TestAdminService_DeleteUser(t *testing.T) {
	container := newTestContainer(t)
	admin := NewAdminService(container, newTestClock())
	ctx := context.Background()

	addUser(t, container, "alice", domain.RoleCustomer, 10, "pw")
	addUser(t, container, "bob", domain.RoleVendor, 0, "pw")

	require.NoError(t, admin.DeleteUser(ctx, "bob"))

	st := getState(container)
	assert.NotContains(t, st.Users, "bob")
	assert.Contains(t, st.Users, "alice")

	assert.ErrorIs(t, admin.DeleteUser(ctx, "bob"), domain.ErrUserNotFound)
}

func TestAdminService_Withdraw(t *testing.T) {
	container := newTestContainer(t)
	clk := newTestClock()
	admin := NewAdminService(container, clk)
	ctx := context.Background()

	err := container.Update(ctx, func(st *domain.State) error {
		st.AdminBalance = 100
		return nil
	})
	require.NoError(t, err)

	entry, err := admin.Withdraw(ctx, 40)
	require.NoError(t, err)
	assert.Equal(t, domain.LogTypeWithdrawal, entry.Type)
	assert.Equal(t, domain.LogStatusCompleted, entry.Status)
	assert.Equal(t, int64(40), entry.Amount)
	assert.Equal(t, clk.NowMillis(), entry.ID)
	assert.Equal(t, entry.ID, entry.Timestamp)
	assert.Empty(t, entry.From)
	assert.Empty(t, entry.To)

	st := getState(container)
	assert.Equal(t, int64(60), st.AdminBalance)
	require.Len(t, st.TransactionLogs, 1)
}

func TestAdminService_WithdrawValidation(t *testing.T) {
	container := newTestContainer(t)
	admin := NewAdminService(container, newTestClock())
	ctx := context.Background()

	err := container.Update(ctx, func(st *domain.State) error {
		st.AdminBalance = 30
		return nil
	})
	require.NoError(t, err)

	_, err = admin.Withdraw(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = admin.Withdraw(ctx, -10)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// Overdraw is rejected and the balance is untouched.
	_, err = admin.Withdraw(ctx, 31)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	st := getState(container)
	assert.Equal(t, int64(30), st.AdminBalance)
	assert.Empty(t, st.TransactionLogs)
}

func TestAdminService_Balance(t *testing.T) {
	container := newTestContainer(t)
	admin := NewAdminService(container, newTestClock())

	assert.Equal(t, int64(0), admin.Balance())

	err := container.Update(context.Background(), func(st *domain.State) error {
		st.AdminBalance = 77
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(77), admin.Balance())
}

func TestAdminService_ListUsersSorted(t *testing.T) {
	container := newTestContainer(t)
	admin := NewAdminService(container, newTestClock())

	addUser(t, container, "zoe", domain.RoleVendor, 5, "pw")
	addUser(t, container, "alice", domain.RoleCustomer, 10, "pw")
	addUser(t, container, "mia", domain.RoleCustomer, 0, "pw")

	users := admin.ListUsers()
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Identity)
	assert.Equal(t, "mia", users[1].Identity)
	assert.Equal(t, "zoe", users[2].Identity)
}

func TestAdminService_LogsNewestFirst(t *testing.T) {
	container := newTestContainer(t)
	admin := NewAdminService(container, newTestClock())

	err := container.Update(context.Background(), func(st *domain.State) error {
		st.AppendLog(domain.LogEntry{ID: 1, Type: domain.LogTypePayment, Status: domain.LogStatusCompleted})
		st.AppendLog(domain.LogEntry{ID: 2, Type: domain.LogTypePayment, Status: domain.LogStatusDeclined})
		st.AppendLog(domain.LogEntry{ID: 3, Type: domain.LogTypeWithdrawal, Status: domain.LogStatusCompleted})
		return nil
	})
	require.NoError(t, err)

	logs := admin.Logs()
	require.Len(t, logs, 3)
	assert.Equal(t, int64(3), logs[0].ID)
	assert.Equal(t, int64(2), logs[1].ID)
	assert.Equal(t, int64(1), logs[2].ID)
}
