package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/archstack/fieldreport/internal/core/domain/user"
	"github.com/archstack/fieldreport/internal/infrastructure/httpserver/helpers"
)

type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// RequireAdmin rejects any caller whose token role is not admin.
func (m *AdminMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := helpers.GetUserRoleFromContext(c)
			if err != nil {
				return err
			}
			if role != user.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}
