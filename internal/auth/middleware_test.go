package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/auth"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

func loginAs(t *testing.T, svc *auth.Service, email, role string) string {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Register(ctx, "User", email, "password-123", "", role)
	require.NoError(t, err)
	result, err := svc.Login(ctx, email, "password-123")
	require.NoError(t, err)
	return result.AccessToken
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	svc := newService(t, storetest.New())
	mw := auth.Middleware{Service: svc}

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	svc := newService(t, storetest.New())
	mw := auth.Middleware{Service: svc}
	token := loginAs(t, svc, "asha@example.com", "seller")

	var got common.Identity
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = common.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "seller", got.Role)
	require.Equal(t, "asha@example.com", got.Email)
	require.NotEmpty(t, got.UserID)
}

func TestRequireRoleForbidsMismatch(t *testing.T) {
	svc := newService(t, storetest.New())
	mw := auth.Middleware{Service: svc}
	token := loginAs(t, svc, "cust@example.com", "customer")

	handler := mw.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}
