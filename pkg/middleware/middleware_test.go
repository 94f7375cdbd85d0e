package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"user-management/internal/data/entity"
	"user-management/internal/testutil"
	"user-management/internal/usecase"
	"user-management/pkg/metrics"
	"user-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, token, tc.header)
	}
}

func newGuard(t *testing.T) (usecase.GuardService, *testutil.Store, *utils.TokenManager) {
	t.Helper()

	store := testutil.NewStore()
	tokens := testutil.TokenManager(t)
	repo := store.Repository()
	auth := usecase.NewAuthService(repo.User, tokens, nil, zap.NewNop())
	return usecase.NewGuardService(auth, repo.User, zap.NewNop()), store, tokens
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	guard, store, tokens := newGuard(t)
	admin := store.SeedUser(t, "admin@mail.com", "admin", entity.StatusActive, entity.RoleAdmin)
	plain := store.SeedUser(t, "alice@mail.com", "secret", entity.StatusActive, entity.RoleUser)

	var seen *entity.User
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetUserFromContext(r.Context())
		token, _ := utils.GetTokenFromContext(r.Context())
		assert.NotEmpty(t, token)
		w.WriteHeader(http.StatusNoContent)
	})
	log := zap.NewNop()
	handler := Authenticate(guard, log)(RequireRole(guard, entity.RoleAdmin, log)(final))

	call := func(user *entity.User) int {
		token, _, err := tokens.Issue(user.ID, user.Username)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/user", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call(admin))
	require.NotNil(t, seen)
	assert.Equal(t, admin.ID, seen.ID)

	assert.Equal(t, http.StatusUnauthorized, call(plain))
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	guard, _, _ := newGuard(t)

	handler := RequireRole(guard, entity.RoleUser, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestLoggerCapturesStatus(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())
	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)
	n, err := rw.Write([]byte("hi"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, rw.statusCode)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, rw.bytesWritten)
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/admin/user", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusAccepted)
	})

	for _, path := range []string{"/items/1", "/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := promtest.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
