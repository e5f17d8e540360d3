package api

import (
	"net/http"

	"github.com/mattjoyce/glossa/internal/auth"
)

// openMode reports whether the server runs without credentials.
func (s *Server) openMode() bool {
	return s.config.APIKey == "" && len(s.config.Tokens) == 0
}

// authMiddleware resolves the caller's principal. In open mode every
// request gets the wildcard scope; otherwise a valid bearer token is
// required.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.openMode() {
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{
				Scopes: map[string]struct{}{auth.ScopeAll: {}},
			})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		token, err := auth.ExtractBearerToken(r)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		principal, ok := auth.Authenticate(token, s.config.APIKey, s.config.Tokens)
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// requireScopes gates a route on the principal holding at least one
// of the given scopes.
func (s *Server) requireScopes(scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				s.writeError(w, http.StatusUnauthorized, "no principal")
				return
			}
			if !auth.HasAnyScope(principal, scopes...) {
				s.writeError(w, http.StatusForbidden, "insufficient scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
