package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/bank-suite/cards-service/internal/usecase/services"
)

// Principal is the authenticated caller. Role names ride along for the
// role middleware; the services themselves only use the user id for
// ownership checks.
type Principal struct {
	UserID string
	Roles  []string
}

type contextKey struct{}

var principalKey contextKey

// FromContext returns the principal placed by BearerAuth.
func FromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}

type TokenParser interface {
	ParseToken(tokenString string) (*services.Claims, error)
}

// BearerAuth validates the Authorization header and injects the
// principal into the request context.
func BearerAuth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization format", http.StatusUnauthorized)
				return
			}

			claims, err := parser.ParseToken(parts[1])
			if err != nil {
				logger.Info("bearer auth rejected token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			principal := Principal{UserID: claims.Subject, Roles: claims.Roles}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
		})
	}
}

// RequireRole gates a route on a role claim. Role enforcement lives
// here, upstream of the services; they never see role names.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			for _, have := range principal.Roles {
				if have == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "insufficient permissions", http.StatusForbidden)
		})
	}
}
