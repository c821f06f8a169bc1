package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/shopfront/internal/common"
)

var errNoToken = errors.New("auth: token missing")

// Middleware resolves the current user from a bearer token supplied by the
// auth collaborator. A missing or invalid token leaves the request
// unauthenticated; it is a navigational guard downstream, never an error here.
type Middleware struct {
	Secret    []byte
	ClockSkew time.Duration
	Now       func() time.Time
}

// Authenticate attaches the user to the request context when a valid token is
// present and passes the request through otherwise.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.userFromRequest(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithUser(r.Context(), user)))
	})
}

// RequireAuth enforces an authenticated user before executing the next handler.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.userFromRequest(r)
		if err != nil {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(common.WithUser(r.Context(), user)))
	})
}

func (m Middleware) userFromRequest(r *http.Request) (common.User, error) {
	raw := extractToken(r)
	if raw == "" {
		return common.User{}, errNoToken
	}
	return m.ParseToken(raw)
}

// ParseToken verifies the signature and standard claims and extracts the user.
func (m Middleware) ParseToken(raw string) (common.User, error) {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	options := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, m.Secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
	}
	if m.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(m.ClockSkew))
	}
	tok, err := jwt.Parse([]byte(raw), options...)
	if err != nil {
		return common.User{}, err
	}
	user := common.User{ID: tok.Subject()}
	if v, ok := tok.Get("name"); ok {
		if name, ok := v.(string); ok {
			user.Name = name
		}
	}
	if v, ok := tok.Get("role"); ok {
		if role, ok := v.(string); ok {
			user.Role = role
		}
	}
	if user.ID == "" {
		return common.User{}, errors.New("auth: token missing subject")
	}
	return user, nil
}

func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
