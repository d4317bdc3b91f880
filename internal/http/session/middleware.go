package session

import (
	"net/http"
	"strings"

	"github.com/budgetivoire/budgetivoire/internal/auth"
	"github.com/budgetivoire/budgetivoire/internal/http/respond"
)

// Require rejects requests without a valid bearer token and stores the
// session claims in the request context.
func Require(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				respond.Error(w, http.StatusUnauthorized, auth.ErrInvalidToken)
				return
			}

			claims, err := issuer.Parse(token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
