package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxaDeveloper/e-commerce-task/internal/backend"
	"github.com/oxaDeveloper/e-commerce-task/internal/config"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/identity"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/storage"
	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

func newTestRouter(t *testing.T, backendHandler http.Handler) (*gin.Engine, *session.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(backendHandler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		App: config.AppConfig{Environment: "development"},
		Backend: config.BackendConfig{
			BaseURL:  server.URL,
			Timeout:  5 * time.Second,
			Language: "uz",
		},
	}

	st, err := storage.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	client := backend.New(cfg, log, func() string { return "" })
	sess := session.New(session.NewStore(), client, st, log)

	router := gin.New()
	SetupRoutes(router.Group("/api/v1"), sess, cfg)
	return router, sess
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"t-1","username":"bob","email":"bob@x.com","role":"USER"}`))
	}))

	t.Run("login", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/v1/session/login", `{"username":"bob","password":"pw"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"t-1"`)
	})

	t.Run("login validation", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/v1/session/login", `{"username":"bob"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("session snapshot", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/api/v1/session", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("developer mode toggle", func(t *testing.T) {
		w := perform(router, http.MethodPut, "/api/v1/session/developer-mode", `{"enabled":true}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"developerMode":true`)
	})
}

func TestDevAdminShortcut(t *testing.T) {
	router, sess := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	t.Run("rejected while developer mode is off", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/v1/session/dev-admin", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Developer mode is disabled")
	})

	t.Run("installs the admin identity once enabled", func(t *testing.T) {
		w := perform(router, http.MethodPut, "/api/v1/session/developer-mode", `{"enabled":true}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = perform(router, http.MethodPost, "/api/v1/session/dev-admin", "")
		require.Equal(t, http.StatusOK, w.Code)

		auth := sess.Auth()
		require.NotNil(t, auth.User)
		assert.Equal(t, identity.DevAdminEmail, auth.User.Email)
		assert.Equal(t, identity.RoleAdmin, auth.User.Role)

		w = perform(router, http.MethodGet, "/api/v1/session", "")
		assert.Contains(t, w.Body.String(), identity.DevAdminEmail)
	})
}

func TestLoginFailurePropagatesBackendStatus(t *testing.T) {
	router, _ := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))

	w := perform(router, http.MethodPost, "/api/v1/session/login", `{"username":"bob","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestCatalogEditsRequireAdmin(t *testing.T) {
	router, sess := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"name":"Mug","price":9.5}`))
	}))

	t.Run("anonymous is rejected", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/api/v1/products", `{"name":"Mug","price":9.5}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("customer is rejected", func(t *testing.T) {
		sess.SetCredentials(context.Background(), "tok", identity.User{ID: "bob", Email: "bob@x.com", Role: identity.RoleCustomer})

		w := perform(router, http.MethodPost, "/api/v1/products", `{"name":"Mug","price":9.5}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin is allowed", func(t *testing.T) {
		sess.SetCredentials(context.Background(), "tok", identity.User{ID: "root", Email: "root@x.com", Role: identity.RoleAdmin})

		w := perform(router, http.MethodPost, "/api/v1/products", `{"name":"Mug","price":9.5}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("reads stay public", func(t *testing.T) {
		sess.Logout(context.Background())

		w := perform(router, http.MethodGet, "/api/v1/products?page=1&size=10", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCartEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := perform(router, http.MethodPost, "/api/v1/cart/items", `{"productId":"7","name":"Mug","price":9.5,"quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":2`)

	w = perform(router, http.MethodPut, "/api/v1/cart/items/7", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":5`)

	w = perform(router, http.MethodDelete, "/api/v1/cart/items/7", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/api/v1/cart", "")
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	router, _ := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := perform(router, http.MethodPost, "/api/v1/checkout", `{"customerName":"Bob"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	router, sess := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	sess.SetCredentials(context.Background(), "tok", identity.User{ID: "bob", Email: "bob@x.com", Role: identity.RoleCustomer})

	w := perform(router, http.MethodPost, "/api/v1/checkout", `{"customerName":"Bob"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
