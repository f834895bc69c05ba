// Package rbac restricts routes to roles carried by the access token.
package rbac

import (
	"net/http"
	"slices"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/middleware"
	"github.com/shashiranjanraj/bizadmin/pkg/response"
)

// HasRole lets through requests whose token role is one of roles and
// answers 403 otherwise. Mount it after middleware.Authenticate; without a
// role in the context every request is refused.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !slices.Contains(roles, role) {
				uid, _ := middleware.UserIDFromCtx(r)
				logger.WithCtx(r.Context()).Info("rbac: access denied",
					"user_id", uid, "role", role, "method", r.Method, "path", r.URL.Path)
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
