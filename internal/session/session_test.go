package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxaDeveloper/e-commerce-task/internal/backend"
	"github.com/oxaDeveloper/e-commerce-task/internal/config"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/cart"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/identity"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/order"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/storage"
)

func newTestSession(t *testing.T, handler http.Handler) (*Session, storage.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	st, err := storage.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	cfg := &config.Config{
		Backend: config.BackendConfig{
			BaseURL:  server.URL,
			Timeout:  5 * time.Second,
			Language: "uz",
		},
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	client := backend.New(cfg, log, func() string {
		token, err := st.Get(context.Background(), storage.KeyToken)
		if err != nil {
			return ""
		}
		return token
	})

	sess := New(NewStore(), client, st, log)
	client.SetUnauthorizedCallback(sess.ForceLogout)
	return sess, st
}

func authenticate(t *testing.T, sess *Session, role identity.Role) {
	t.Helper()
	sess.SetCredentials(context.Background(), "tok", identity.User{
		ID:    "bob",
		Email: "bob@x.com",
		Role:  role,
	})
}

func TestLoginInstallsResolvedIdentity(t *testing.T) {
	sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"data":{"token":"t-1","username":"bob","email":"bob@x.com","role":"ROLE_ADMIN"}}`))
	}))

	state, err := sess.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)

	assert.Equal(t, StatusIdle, state.Status)
	assert.Equal(t, "t-1", state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, "bob@x.com", state.User.Email)
	assert.True(t, state.User.IsAdmin())

	ctx := context.Background()
	token, err := st.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t-1", token)

	email, err := st.Get(ctx, storage.KeyLastEmail)
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", email)
}

func TestLoginFailureRecordsError(t *testing.T) {
	sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))

	state, err := sess.Login(context.Background(), "bob", "wrong")
	require.Error(t, err)

	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, "Invalid credentials", state.Error)
	assert.Nil(t, state.User)
}

func TestLoginWhileLoadingReturnsBusy(t *testing.T) {
	sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	require.NoError(t, sess.store.BeginAuth())

	_, err := sess.Login(context.Background(), "bob", "pw")
	assert.ErrorIs(t, err, ErrBusy)
}

func TestFetchProductsTranslatesPage(t *testing.T) {
	var backendPage string
	sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendPage = r.URL.Query().Get("page")
		w.Write([]byte(`{"content":[{"id":1,"name":"Mug"}],"totalElements":21}`))
	}))

	state, err := sess.FetchProducts(context.Background(), FetchProductsParams{Page: 3, Size: 10})
	require.NoError(t, err)

	assert.Equal(t, "2", backendPage, "backend page is 0-based")
	assert.Equal(t, 3, state.Page, "stored page is the requested 1-based page")
	assert.Equal(t, 21, state.Total)
	assert.Len(t, state.Items, 1)
}

func TestFetchProductsFailureEmptiesPage(t *testing.T) {
	sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	state, err := sess.FetchProducts(context.Background(), FetchProductsParams{Page: 1})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, state.Status)
	assert.Empty(t, state.Items)
}

func TestUpdateOrderStatusGuard(t *testing.T) {
	requests := 0
	sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"id":"1","status":"CONFIRMED"}`))
	}))

	t.Run("terminal status is frozen", func(t *testing.T) {
		sess.store.OrdersLoaded([]order.Order{{ID: "1", Status: order.StatusShipped}})

		_, err := sess.UpdateOrderStatus(context.Background(), "1", order.StatusConfirmed)
		assert.ErrorIs(t, err, ErrStatusLocked)
		assert.Zero(t, requests, "guarded edits never reach the backend")
	})

	t.Run("cancel only from pending", func(t *testing.T) {
		sess.store.OrdersLoaded([]order.Order{{ID: "1", Status: order.StatusConfirmed}})

		_, err := sess.UpdateOrderStatus(context.Background(), "1", order.StatusCancelled)
		assert.ErrorIs(t, err, ErrStatusLocked)
	})

	t.Run("allowed transition goes through", func(t *testing.T) {
		sess.store.OrdersLoaded([]order.Order{{ID: "1", Status: order.StatusPending}})

		updated, err := sess.UpdateOrderStatus(context.Background(), "1", order.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, updated.Status)
		assert.Equal(t, order.StatusConfirmed, sess.Orders().Items[0].Status)
	})

	t.Run("unknown local order is not guarded", func(t *testing.T) {
		sess.store.OrdersLoaded(nil)

		_, err := sess.UpdateOrderStatus(context.Background(), "404", order.StatusConfirmed)
		assert.NoError(t, err)
	})
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("requires authentication", func(t *testing.T) {
		sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		_, err := sess.Checkout(ctx, "Bob")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("requires non-empty cart", func(t *testing.T) {
		sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		authenticate(t, sess, identity.RoleCustomer)

		_, err := sess.Checkout(ctx, "Bob")
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("places order then clears cart", func(t *testing.T) {
		sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"id":42,"status":"PENDING","customerEmail":"bob@x.com","totalAmount":19}}`))
		}))
		authenticate(t, sess, identity.RoleCustomer)

		_, err := sess.AddToCart(ctx, cart.AddRequest{ProductID: "7", Name: "Mug", Price: 9.5, Quantity: 2})
		require.NoError(t, err)

		placed, err := sess.Checkout(ctx, "Bob")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, placed.Status)

		assert.Empty(t, sess.Cart().Items)
		require.Len(t, sess.Orders().Items, 1)

		raw, err := st.Get(ctx, storage.KeyCart)
		require.NoError(t, err)
		assert.JSONEq(t, "[]", raw)
	})

	t.Run("second checkout while loading is rejected", func(t *testing.T) {
		sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}))
		authenticate(t, sess, identity.RoleCustomer)
		sess.store.CartReplace([]cart.Line{{ProductID: "7", Quantity: 1}})

		require.NoError(t, sess.store.BeginCheckout())

		_, err := sess.Checkout(ctx, "Bob")
		assert.ErrorIs(t, err, ErrBusy)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears token but keeps cart", func(t *testing.T) {
		sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		authenticate(t, sess, identity.RoleCustomer)

		_, err := sess.AddToCart(ctx, cart.AddRequest{ProductID: "7", Name: "Mug", Quantity: 1})
		require.NoError(t, err)

		sess.Logout(ctx)

		assert.Nil(t, sess.CurrentUser())
		_, err = st.Get(ctx, storage.KeyToken)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.Len(t, sess.Cart().Items, 1)
		_, err = st.Get(ctx, storage.KeyCart)
		assert.NoError(t, err)
	})

	t.Run("keeps ordinary cached identity", func(t *testing.T) {
		sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		authenticate(t, sess, identity.RoleCustomer)

		sess.Logout(ctx)

		email, err := st.Get(ctx, storage.KeyLastEmail)
		require.NoError(t, err)
		assert.Equal(t, "bob@x.com", email)
	})

	t.Run("purges cached admin identity", func(t *testing.T) {
		sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		authenticate(t, sess, identity.RoleAdmin)

		sess.Logout(ctx)

		_, err := st.Get(ctx, storage.KeyLastEmail)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = st.Get(ctx, storage.KeyLastRole)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("purges cached developer shortcut identity", func(t *testing.T) {
		sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		sess.SetCredentials(ctx, "tok", identity.User{
			ID:    "admin",
			Email: identity.DevAdminEmail,
			Role:  identity.RoleCustomer,
		})

		sess.Logout(ctx)

		_, err := st.Get(ctx, storage.KeyLastEmail)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestBackend401ForcesLogout(t *testing.T) {
	sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	authenticate(t, sess, identity.RoleCustomer)

	_, err := sess.FetchProducts(context.Background(), FetchProductsParams{Page: 1})
	require.Error(t, err)

	assert.Nil(t, sess.CurrentUser())
	_, err = st.Get(context.Background(), storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBootstrapRestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	sess, st := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	require.NoError(t, st.Set(ctx, storage.KeyDeveloperMode, "true"))
	require.NoError(t, st.Set(ctx, storage.KeyCart, `[{"productId":"7","name":"Mug","quantity":2}]`))
	require.NoError(t, st.Set(ctx, storage.KeyToken, "a.b")) // malformed on purpose

	require.NoError(t, sess.Bootstrap(ctx))

	assert.True(t, sess.Auth().DeveloperMode)
	require.Len(t, sess.Cart().Items, 1)
	assert.Equal(t, 2, sess.Cart().Items[0].Quantity)
}
