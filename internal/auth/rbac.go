package auth

import (
	"net/http"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/transport"
)

// RoleAuthorization gates route groups by role. Services still check the
// actor themselves; this only stops the request earlier.
type RoleAuthorization struct {
	*transport.BaseHandler
}

func NewRoleAuthorization(base *transport.BaseHandler) *RoleAuthorization {
	return &RoleAuthorization{BaseHandler: base}
}

func (ra *RoleAuthorization) Require(role internal.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ra.ActorOrUnauthorized(w, r)
			if !ok {
				return
			}
			if actor.Role != role {
				ra.HandleServiceError(w, r, internal.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireHR is Require(internal.RoleHR).
func (ra *RoleAuthorization) RequireHR(next http.Handler) http.Handler {
	return ra.Require(internal.RoleHR)(next)
}
