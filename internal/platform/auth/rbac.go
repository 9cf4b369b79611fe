package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through when the user holds one of roles.
// "admin" passes every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, has := range RolesFromContext(c.Request().Context()) {
				if has == "admin" {
					return next(c)
				}
				for _, required := range roles {
					if has == required {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Accès refusé")
		}
	}
}

// WriteRoles guards mutating methods with RequireRole and leaves reads open
// to any authenticated user. An empty role list disables the check.
func WriteRoles(roles ...string) echo.MiddlewareFunc {
	if len(roles) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	require := RequireRole(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := require(next)
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			return guarded(c)
		}
	}
}
