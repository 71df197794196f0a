package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RequireOwner compares the authenticated subject against the {user_id}
// path parameter. Routes without the parameter pass on identity alone;
// a mismatch is forbidden regardless of whether the resource exists. Must
// run after Authenticator.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity == nil {
			unauthorized(w, "not authenticated")
			return
		}
		owner := chi.URLParam(r, "user_id")
		if owner != "" && owner != identity.SubjectID {
			writeErr(w, http.StatusForbidden, "not authorized to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
