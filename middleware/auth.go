package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fieldhouse-sports/scheduler-core/utils"
)

const bearerPrefix = "Bearer "

type contextKey string

const userContextKey contextKey = "user"

// Authenticate parses the bearer JWT on every request and, if valid,
// attaches its claims to the request context for Authorize and the
// scheduler handlers' "caller may manage event"/"caller is assigned
// referee" checks to read.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := extractToken(r)
		if err != nil {
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}
		if tokenString == "" {
			http.Error(w, "Unauthorized: no token provided", http.StatusUnauthorized)
			return
		}

		parsedToken, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.GetJWTSecret(), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				http.Error(w, "Unauthorized: token expired", http.StatusUnauthorized)
			} else {
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			}
			return
		}
		if !parsedToken.Valid {
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "Unauthorized: invalid token claims", http.StatusUnauthorized)
			return
		}
		if _, idOk := claims[jwtClaimUserID]; !idOk {
			http.Error(w, "Unauthorized: missing "+jwtClaimUserID+" claim", http.StatusUnauthorized)
			return
		}
		if _, roleOk := claims[jwtClaimRole]; !roleOk {
			http.Error(w, "Unauthorized: missing "+jwtClaimRole+" claim", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize rejects the request unless the authenticated caller's role
// is one of roles.
func Authorize(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerRole, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				log.Printf("authorization failed: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, allowed := range roles {
				if allowed == callerRole {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimPrefix(authHeader, bearerPrefix), nil
}
