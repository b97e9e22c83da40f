package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// RoleStore is the narrow repository surface RBAC needs.
type RoleStore interface {
	RoleByID(ctx context.Context, id int64) (string, error)
}

// RBAC enforces role-based access control. The current role is re-read
// from the store on every request instead of trusted from the token, so
// an admin demoting a user takes effect on that user's next call, at
// the cost of one store round-trip per guarded request. Do not replace
// this with a role claim in the token.
func RBAC(store RoleStore, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			role, err := store.RoleByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, "user not found")
				}
				return err
			}

			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}
