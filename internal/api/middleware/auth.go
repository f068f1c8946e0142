package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/windlens/windlens/internal/api/models"
)

// Operator token claims are standard registered claims; the token only gates
// the detailed status endpoint, so no subject-specific context is kept.
const opsAudience = "windlens-ops"

// OpsAuth creates authentication middleware that validates HS256 bearer
// tokens for operator endpoints. An empty signing key disables the endpoint
// entirely rather than leaving it open.
func OpsAuth(signingKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingKey == "" {
				writeUnauthorized(w, r, "operator access is not configured")
				return
			}

			tokenString, err := bearerToken(r)
			if err != nil {
				writeUnauthorized(w, r, err.Error())
				return
			}

			_, err = jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(signingKey), nil
			},
				jwt.WithValidMethods([]string{"HS256"}),
				jwt.WithAudience(opsAudience),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					writeUnauthorized(w, r, "token has expired")
					return
				}
				writeUnauthorized(w, r, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}

	token := authHeader[len(bearerPrefix):]
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

// writeUnauthorized writes a 401 Unauthorized response.
// This is implemented directly here to avoid import cycle with response package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewUnauthorized(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}
