// Package identity resolves the calling user. A verified bearer token wins;
// without one the handlers fall back to a userId parameter and then to a
// configured placeholder user.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingToken = errors.New("missing token")
)

type Resolver struct {
	Secret      []byte
	DefaultUser string
	Required    bool
}

// Resolve returns the token subject, or "" when the request carries no token
// and tokens are optional.
func (rv Resolver) Resolve(r *http.Request) (string, error) {
	// the auth scheme is case-insensitive
	scheme, raw, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	raw = strings.TrimSpace(raw)
	if !strings.EqualFold(scheme, "Bearer") || raw == "" {
		if rv.Required {
			return "", ErrMissingToken
		}
		return "", nil
	}
	if len(rv.Secret) == 0 {
		if rv.Required {
			return "", ErrInvalidToken
		}
		return "", nil
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return rv.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Issue mints an HS256 token for subject.
func Issue(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

type ctxKey struct{}

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKey{}, subject)
}

// FromContext returns the verified subject stored by Middleware.
func FromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKey{}).(string)
	return s, ok && s != ""
}

// Middleware resolves the caller once per request. Failures are passed to
// onError, which writes the response.
func (rv Resolver) Middleware(onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, err := rv.Resolve(r)
			if err != nil {
				onError(w, r, err)
				return
			}
			if sub != "" {
				r = r.WithContext(WithSubject(r.Context(), sub))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID picks the effective user: token subject, then the explicit
// parameter, then the placeholder.
func (rv Resolver) UserID(ctx context.Context, param string) string {
	if sub, ok := FromContext(ctx); ok {
		return sub
	}
	if p := strings.TrimSpace(param); p != "" {
		return p
	}
	return rv.DefaultUser
}
