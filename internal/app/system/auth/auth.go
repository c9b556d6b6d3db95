// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/ledger"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Token claims                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// Claims is the payload carried by admin bearer tokens.
// The identity service issues these; this API only verifies them.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

type ctxKey string

const claimsKey ctxKey = "authClaims"

const (
	msgUnauthorized  = "Unauthorized access"
	msgAdminRequired = "Admin access required"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

/*─────────────────────────────────────────────────────────────────────────────*
| Verifier                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Verifier validates HS256 bearer tokens and gates routes by role.
type Verifier struct {
	secret     []byte
	adminRoles map[string]struct{}
	logger     *zap.Logger
}

// NewVerifier builds a Verifier. Roles are compared after normalize.Role.
func NewVerifier(secret string, adminRoles []string, logger *zap.Logger) *Verifier {
	roles := make(map[string]struct{}, len(adminRoles))
	for _, role := range adminRoles {
		if r := normalize.Role(role); r != "" {
			roles[r] = struct{}{}
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{secret: []byte(secret), adminRoles: roles, logger: logger}
}

// Sign issues a token for userID with the given role. Used by tests and
// local tooling; production tokens come from the identity service.
func (v *Verifier) Sign(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse verifies the signature and expiry of raw and returns its claims.
func (v *Verifier) Parse(raw string) (*Claims, error) {
	raw = NormalizeToken(raw)
	if raw == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// IsAdmin reports whether c carries one of the configured admin roles.
func (v *Verifier) IsAdmin(c *Claims) bool {
	if c == nil {
		return false
	}
	_, ok := v.adminRoles[normalize.Role(c.Role)]
	return ok
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireToken rejects requests without a valid bearer token (401).
func (v *Verifier) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := v.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without a valid token (401) or whose role is
// not an admin role (403). It authenticates on its own, so it may be used
// alone or after RequireToken.
func (v *Verifier) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := v.authenticate(w, r)
		if !ok {
			return
		}
		c, _ := CurrentClaims(r)
		if !v.IsAdmin(c) {
			jsonutil.Forbidden(w, r, msgAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (v *Verifier) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	if _, ok := CurrentClaims(r); ok {
		return r, true
	}
	claims, err := v.Parse(BearerToken(r))
	if err != nil {
		v.logger.Debug("token rejected",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		jsonutil.Unauthorized(w, r, msgUnauthorized)
		return r, false
	}
	ledger.SetActor(r.Context(), claims.UserID, normalize.Role(claims.Role))
	return WithClaims(r, claims), true
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// CurrentClaims returns the verified claims attached to the request.
func CurrentClaims(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// WithClaims attaches claims to the request context.
func WithClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	return NormalizeToken(r.Header.Get("Authorization"))
}

// NormalizeToken strips an optional "Bearer " prefix and surrounding space.
func NormalizeToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	return raw
}

// IsWeakSecret reports whether a signing secret is empty, short, or looks like
// a placeholder. Production startup refuses such secrets.
func IsWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	lower := strings.ToLower(secret)
	for _, p := range []string{"dev-only", "change-me", "placeholder", "default", "example", "insecure", "secret123"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
