package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Callers are identified by an X-User-ID header set by the edge proxy.
// Session validation happens upstream and is not repeated here.

const UserIDHeader = "X-User-ID"

// RequireUserID rejects requests without an X-User-ID header. chi variant.
func RequireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(UserIDHeader) == "" {
			http.Error(w, "User ID is required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUserIDEcho rejects requests without an X-User-ID header. echo variant.
func RequireUserIDEcho() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(UserIDHeader) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "User ID is required")
			}
			return next(c)
		}
	}
}

// UserID reads the caller identity from a request.
func UserID(r *http.Request) string {
	return r.Header.Get(UserIDHeader)
}
