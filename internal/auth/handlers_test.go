package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/auth"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

func TestRegisterHandler(t *testing.T) {
	svc := newService(t, storetest.New())
	h := &auth.Handler{Service: svc}

	body := `{"name":"Asha","email":"asha@example.com","password":"password-123"}`
	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Contains(t, rr.Body.String(), `"email":"asha@example.com"`)
	require.NotContains(t, rr.Body.String(), "password")
}

func TestRegisterHandlerValidation(t *testing.T) {
	svc := newService(t, storetest.New())
	h := &auth.Handler{Service: svc}

	body := `{"name":"Asha","email":"not-an-email","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
}

func TestLoginHandlerSetsRefreshCookie(t *testing.T) {
	svc := newService(t, storetest.New())
	h := &auth.Handler{Service: svc, RefreshCookieName: "vardan_refresh"}

	reg := httptest.NewRequest(http.MethodPost, "/users/",
		strings.NewReader(`{"name":"Asha","email":"asha@example.com","password":"password-123"}`))
	rr := httptest.NewRecorder()
	h.Register(rr, reg)
	require.Equal(t, http.StatusCreated, rr.Code)

	login := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"asha@example.com","password":"password-123"}`))
	rr = httptest.NewRecorder()
	h.Login(rr, login)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "access_token")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "vardan_refresh", cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.NotEmpty(t, cookies[0].Value)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	svc := newService(t, storetest.New())
	h := &auth.Handler{Service: svc}

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"whatever-1"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}
