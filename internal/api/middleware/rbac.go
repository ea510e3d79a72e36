package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

// RBAC enforces role-based access control. The check is exact-set
// membership, not a hierarchy: a gate listing only "user" rejects an admin
// identity just as a gate listing only "admin" rejects a user.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
