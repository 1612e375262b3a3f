package middleware

import (
	"net/http"
	"slices"
	"strings"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/response"
)

// RequireRole lets through staff whose role is one of allowedRoleIDs.
// It must run after Authenticate.
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	names := make([]string, 0, len(allowedRoleIDs))
	for _, id := range allowedRoleIDs {
		if name, ok := entity.RoleName(id); ok {
			names = append(names, name)
		}
	}
	denied := "This action is limited to: " + strings.Join(names, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			staff, ok := StaffFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}
			if !slices.Contains(allowedRoleIDs, staff.RoleID) {
				response.Forbidden(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards catalog, doctor and staff account management.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireFrontDesk allows admins and receptionists
func RequireFrontDesk(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDReceptionist)(next)
}
