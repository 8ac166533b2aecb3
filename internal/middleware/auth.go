package middleware

import (
	"net/http"
	"slices"
	"storefront-checkout/internal/model"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUsername = "X-Username"

	// matches the username column of stored orders
	MaxUsernameLen = 64

	userKey = "user"
)

// UserMiddleware reads the caller identity forwarded by the chat front-end.
// The front-end is trusted; this is identification, not authentication.
func UserMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderUserID)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID+" header")
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+HeaderUserID+" header")
			}

			username := strings.TrimPrefix(strings.TrimSpace(c.Request().Header.Get(HeaderUsername)), "@")
			if utf8.RuneCountInString(username) > MaxUsernameLen {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid "+HeaderUsername+" header")
			}

			c.Set(userKey, model.User{
				ID:       id,
				Username: username,
			})
			return next(c)
		}
	}
}

// AdminMiddleware must run after UserMiddleware. A user is an admin when
// the id is listed or the username matches, case-insensitively.
func AdminMiddleware(adminIDs []int64, adminUsername string) echo.MiddlewareFunc {
	adminUsername = strings.TrimPrefix(adminUsername, "@")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			if !IsAdmin(user, adminIDs, adminUsername) {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

func IsAdmin(user model.User, adminIDs []int64, adminUsername string) bool {
	if user.ID != 0 && slices.Contains(adminIDs, user.ID) {
		return true
	}
	return adminUsername != "" && user.Username != "" && strings.EqualFold(user.Username, adminUsername)
}

func UserFromContext(c echo.Context) model.User {
	user, _ := c.Get(userKey).(model.User)
	return user
}
