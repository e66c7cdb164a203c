package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markethub/internal/core/domain"
)

func TestMarketService_AddProduct(t *testing.T) {
	container := newTestContainer(t)
	market := NewMarketService(container)
	ctx := context.Background()

	addUser(t, container, "bob", domain.RoleVendor, 0, "pw")

	require.NoError(t, market.AddProduct(ctx, "bob", "Coffee", 25))
	require.NoError(t, market.AddProduct(ctx, "bob", "Tea", 20))

	st := getState(container)
	require.Len(t, st.Users["bob"].Products, 2)
	assert.Equal(t, domain.Product{Name: "Coffee", Price: 25}, st.Users["bob"].Products[0])
}

func TestMarketService_AddProductValidation(t *testing.T) {
	container := newTestContainer(t)
	market := NewMarketService(container)
	ctx := context.Background()

	addUser(t, container, "bob", domain.RoleVendor, 0, "pw")
	addUser(t, container, "alice", domain.RoleCustomer, 0, "pw")

	assert.ErrorIs(t, market.AddProduct(ctx, "bob", "", 10), domain.ErrInvalidInput)
	assert.ErrorIs(t, market.AddProduct(ctx, "bob", "Coffee", -1), domain.ErrInvalidAmount)
	assert.ErrorIs(t, market.AddProduct(ctx, "ghost", "Coffee", 10), domain.ErrUserNotFound)
	assert.ErrorIs(t, market.AddProduct(ctx, "alice", "Coffee", 10), domain.ErrUserNotFound)

	require.NoError(t, market.AddProduct(ctx, "bob", "Coffee", 25))
	assert.ErrorIs(t, market.AddProduct(ctx, "bob", "Coffee", 30), domain.ErrDuplicateProduct)
}

func TestMarketService_RemoveProduct(t *testing.T) {
	container := newTestContainer(t)
	market := NewMarketService(container)
	ctx := context.Background()

	addUser(t, container, "bob", domain.RoleVendor, 0, "pw")
	require.NoError(t, market.AddProduct(ctx, "bob", "Coffee", 25))
	require.NoError(t, market.AddProduct(ctx, "bob", "Tea", 20))

	require.NoError(t, market.RemoveProduct(ctx, "bob", "Coffee"))

	st := getState(container)
	require.Len(t, st.Users["bob"].Products, 1)
	assert.Equal(t, "Tea", st.Users["bob"].Products[0].Name)

	assert.ErrorIs(t, market.RemoveProduct(ctx, "bob", "Coffee"), domain.ErrNotFound)
	assert.ErrorIs(t, market.RemoveProduct(ctx, "ghost", "Tea"), domain.ErrUserNotFound)
}

func TestMarketService_ListVendors(t *testing.T) {
	container := newTestContainer(t)
	market := NewMarketService(container)
	ctx := context.Background()

	addUser(t, container, "zoe", domain.RoleVendor, 0, "pw")
	addUser(t, container, "bob", domain.RoleVendor, 0, "pw")
	addUser(t, container, "alice", domain.RoleCustomer, 0, "pw")
	require.NoError(t, market.AddProduct(ctx, "bob", "Coffee", 25))

	vendors := market.ListVendors()
	require.Len(t, vendors, 2)
	assert.Equal(t, "bob", vendors[0].Identity)
	assert.Equal(t, "zoe", vendors[1].Identity)
	require.Len(t, vendors[0].Products, 1)
	assert.Equal(t, "Coffee", vendors[0].Products[0].Name)
	assert.Empty(t, vendors[1].Products)
}

func TestMarketService_PendingPayments(t *testing.T) {
	container := newTestContainer(t)
	market := NewMarketService(container)
	ledger := NewLedgerService(container, newTestClock())
	ctx := context.Background()

	addUser(t, container, "alice", domain.RoleCustomer, 100, "pw")
	addUser(t, container, "bob", domain.RoleVendor, 0, "pw")

	pending, err := market.PendingPayments("alice")
	require.NoError(t, err)
	assert.Empty(t, pending)

	tx, err := ledger.RequestPayment(ctx, "bob", "alice", 25)
	require.NoError(t, err)

	pending, err = market.PendingPayments("alice")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, *tx, pending[0])

	_, err = market.PendingPayments("ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
