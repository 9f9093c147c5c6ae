package security

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBodyLimitPassesSmallPayloads(t *testing.T) {
	limiter := BodyLimit{Max: 64}
	var seen string
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(data)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(`{"payment_method":"manual"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, `{"payment_method":"manual"}`, seen)
}

func TestBodyLimitRejectsOversizedPayloads(t *testing.T) {
	limiter := BodyLimit{Max: 4}
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader("definitely too long")))
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	// A lying Content-Length is rejected before any read.
	declared := httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader("tiny"))
	declared.ContentLength = 4096
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, declared)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestBodyLimitDisabledWhenZero(t *testing.T) {
	limiter := BodyLimit{}
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orders/", strings.NewReader(strings.Repeat("x", 4096))))
	require.Equal(t, http.StatusOK, rr.Code)
}
