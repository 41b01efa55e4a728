package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
	"perfumeadmin/internal/service"
)

// fakeAuth accepts the tokens listed in claims and looks users up in users.
type fakeAuth struct {
	service.AuthService
	claims  map[string]*service.Claims
	users   map[string]*models.User
	lookups int
}

func (f *fakeAuth) GetUser(_ context.Context, userID string) (*models.User, error) {
	f.lookups++
	if userID == "broken" {
		return nil, errors.New("connection reset")
	}
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, errs.NotFound("User not found")
}

func (f *fakeAuth) ValidateToken(token string) (*service.Claims, error) {
	if c, ok := f.claims[token]; ok {
		return c, nil
	}
	return nil, service.ErrInvalidToken
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{claims: map[string]*service.Claims{
		"admin-token":   {UserID: "u1", Email: "admin@example.com", Role: models.RoleAdmin},
		"visitor-token": {UserID: "u2", Email: "visitor@example.com", Role: models.RoleVisitor},
		"demoted-token": {UserID: "u3", Email: "demoted@example.com", Role: models.RoleAdmin},
		"deleted-token": {UserID: "u4", Email: "deleted@example.com", Role: models.RoleAdmin},
		"broken-token":  {UserID: "broken", Email: "broken@example.com", Role: models.RoleAdmin},
	}, users: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleAdmin},
		"u2": {ID: "u2", Role: models.RoleVisitor},
		"u3": {ID: "u3", Role: models.RoleVisitor},
	}}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["message"]
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedMsg    string
	}{
		{name: "missing header", expectedStatus: http.StatusUnauthorized, expectedMsg: "Authorization required"},
		{name: "wrong scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid token format"},
		{name: "too many parts", header: "Bearer a b", expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid token format"},
		{name: "unknown token", header: "Bearer nope", expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid token"},
		{name: "valid token", header: "Bearer visitor-token", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *service.Claims
			h := Auth(newFakeAuth())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = ClaimsFromContext(r.Context())
				okHandler(w, r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, messageOf(t, rr))
				assert.Nil(t, seen)
			} else {
				require.NotNil(t, seen)
				assert.Equal(t, "u2", seen.UserID)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		token           string
		expectedStatus  int
		expectedMsg     string
		expectedLookups int
	}{
		{token: "", expectedStatus: http.StatusUnauthorized, expectedMsg: "Authorization required"},
		{token: "visitor-token", expectedStatus: http.StatusForbidden, expectedMsg: "Access denied"},
		{token: "admin-token", expectedStatus: http.StatusOK, expectedLookups: 1},
		{token: "demoted-token", expectedStatus: http.StatusForbidden, expectedMsg: "Access denied", expectedLookups: 1},
		{token: "deleted-token", expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid token", expectedLookups: 1},
		{token: "broken-token", expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error", expectedLookups: 1},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			auth := newFakeAuth()
			h := AdminOnly(auth)(http.HandlerFunc(okHandler))

			req := httptest.NewRequest(http.MethodDelete, "/api/products/1", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, messageOf(t, rr))
			}
			assert.Equal(t, tt.expectedLookups, auth.lookups)
		})
	}
}

func TestCurrentRole_ReplacesTokenRole(t *testing.T) {
	var seen *service.Claims
	h := CurrentRole(newFakeAuth())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
	}))

	claims := &service.Claims{UserID: "u3", Role: models.RoleAdmin}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil).WithContext(WithClaims(context.Background(), claims))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, models.RoleVisitor, seen.Role)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	h := RequireRole(models.RoleAdmin)(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	ctx := WithClaims(context.Background(), &service.Claims{Role: models.RoleAdmin})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS("https://admin.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/products", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, called)
	assert.Equal(t, "https://admin.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	rr = httptest.NewRecorder()
	CORS("")(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestLoggingAndRecover(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Chain(panicking, Logging(logger), Recover(logger))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error", messageOf(t, rr))

	require.Equal(t, 1, logs.FilterMessage("panic while handling request").Len())
	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 1)
	fields := requests[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/blogs", fields["path"])
	assert.EqualValues(t, http.StatusInternalServerError, fields["status"])
}

func TestMaxBody(t *testing.T) {
	var readErr error
	h := MaxBody(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf strings.Builder
		_, readErr = io.Copy(&buf, r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	assert.Error(t, readErr)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(http.HandlerFunc(okHandler), mark("first"), mark("second")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second"}, order)
}
