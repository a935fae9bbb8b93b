package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxaDeveloper/e-commerce-task/internal/domain/cart"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/identity"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/order"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/product"
)

func TestBeginAuthRejectsConcurrentDispatch(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.BeginAuth())
	assert.ErrorIs(t, store.BeginAuth(), ErrBusy)

	store.AuthFailed("bad credentials")
	assert.NoError(t, store.BeginAuth())
}

func TestAuthTransitions(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.BeginAuth())
	store.AuthSucceeded("tok", identity.User{ID: "bob", Email: "bob@x.com", Role: identity.RoleAdmin})

	auth := store.Auth()
	assert.Equal(t, StatusIdle, auth.Status)
	assert.Equal(t, "tok", auth.Token)
	require.NotNil(t, auth.User)
	assert.True(t, auth.User.IsAdmin())

	store.ClearCredentials()
	auth = store.Auth()
	assert.Nil(t, auth.User)
	assert.Empty(t, auth.Token)
}

func TestAuthSnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.SetCredentials("tok", identity.User{ID: "bob", Role: identity.RoleCustomer})

	snapshot := store.Auth()
	snapshot.User.Role = identity.RoleAdmin

	assert.Equal(t, identity.RoleCustomer, store.Auth().User.Role)
}

func TestProductsFailedEmptiesPage(t *testing.T) {
	store := NewStore()
	store.ProductsLoaded([]product.Product{{ID: "1"}}, 1, 1, 10, product.Query{})

	store.ProductsFailed("backend down")

	state := store.Products()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, "backend down", state.Error)
	assert.Empty(t, state.Items)
}

func TestProductCreatedPrepends(t *testing.T) {
	store := NewStore()
	store.ProductsLoaded([]product.Product{{ID: "1"}}, 1, 1, 10, product.Query{})

	store.ProductCreated(product.Product{ID: "2"})

	state := store.Products()
	require.Len(t, state.Items, 2)
	assert.Equal(t, product.StringID("2"), state.Items[0].ID)
	assert.Equal(t, 2, state.Total)
}

func TestProductUpdatedAndDeleted(t *testing.T) {
	store := NewStore()
	store.ProductsLoaded([]product.Product{{ID: "1", Name: "Old"}, {ID: "2"}}, 2, 1, 10, product.Query{})

	store.ProductUpdated(product.Product{ID: "1", Name: "New"})
	assert.Equal(t, "New", store.Products().Items[0].Name)

	store.ProductDeleted("1")
	state := store.Products()
	require.Len(t, state.Items, 1)
	assert.Equal(t, product.StringID("2"), state.Items[0].ID)
}

func TestBeginCheckoutRejectsConcurrentDispatch(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.BeginCheckout())
	assert.ErrorIs(t, store.BeginCheckout(), ErrBusy)

	store.OrderCreated(order.Order{ID: "1"})
	assert.NoError(t, store.BeginCheckout())
}

func TestOrderTransitions(t *testing.T) {
	store := NewStore()
	store.OrdersLoaded([]order.Order{{ID: "1", Status: order.StatusPending}})

	store.OrderUpdated(order.Order{ID: "1", Status: order.StatusConfirmed})
	assert.Equal(t, order.StatusConfirmed, store.Orders().Items[0].Status)

	store.OrderCreated(order.Order{ID: "2", Status: order.StatusPending})
	items := store.Orders().Items
	require.Len(t, items, 2)
	assert.Equal(t, product.StringID("2"), items[0].ID)
}

func TestCartTransitions(t *testing.T) {
	store := NewStore()

	items := store.CartAdd(cart.Line{ProductID: "1", Quantity: 1})
	items = store.CartAdd(cart.Line{ProductID: "1", Quantity: 1})
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	items = store.CartSetQuantity("1", 5)
	assert.Equal(t, 5, items[0].Quantity)

	items = store.CartRemove("1")
	assert.Empty(t, items)

	store.CartReplace([]cart.Line{{ProductID: "9", Quantity: 3}})
	assert.Len(t, store.Cart().Items, 1)

	assert.Empty(t, store.CartClear())
	assert.Empty(t, store.Cart().Items)
}
