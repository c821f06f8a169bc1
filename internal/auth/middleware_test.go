package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shopfront/internal/auth"
	"github.com/noah-isme/shopfront/internal/common"
)

var testSecret = []byte("unit-test-secret")

func signToken(t *testing.T, sub, name, role string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewBuilder().
		Subject(sub).
		Claim("name", name).
		Claim("role", role).
		IssuedAt(exp.Add(-time.Hour)).
		Expiration(exp).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, testSecret))
	require.NoError(t, err)
	return string(signed)
}

func TestAuthenticateAttachesUser(t *testing.T) {
	m := auth.Middleware{Secret: testSecret}
	var got common.User
	var authed bool
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, authed = common.UserFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", "Alice", common.RoleCustomer, time.Now().Add(time.Hour)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, authed)
	require.Equal(t, common.User{ID: "u1", Name: "Alice", Role: "customer"}, got)
}

func TestAuthenticatePassesThroughWithoutToken(t *testing.T) {
	m := auth.Middleware{Secret: testSecret}
	var authed bool
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authed = common.UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, authed)
}

func TestAuthenticateIgnoresExpiredToken(t *testing.T) {
	m := auth.Middleware{Secret: testSecret}
	var authed bool
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authed = common.UserFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", "Alice", common.RoleCustomer, time.Now().Add(-time.Hour)))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, authed)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	m := auth.Middleware{Secret: testSecret}
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseTokenRequiresSubject(t *testing.T) {
	m := auth.Middleware{Secret: testSecret}
	tok, err := jwt.NewBuilder().Claim("role", "customer").Expiration(time.Now().Add(time.Hour)).Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, testSecret))
	require.NoError(t, err)

	_, err = m.ParseToken(string(signed))
	require.Error(t, err)
}
