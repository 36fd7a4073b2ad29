package handler // handler defines http handlers

import (
	"errors" // errors provides sentinel values used in getUserID

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id that SessionAuth stored in the context.
// An absent or non-string value means the route was registered without
// the middleware, which is a wiring bug surfaced as an error here.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}

// getUserName extracts the display name stored alongside user_id.
// Falls back to empty when absent; callers treat the name as cosmetic.
func getUserName(c echo.Context) string {
	if s, ok := c.Get("user_name").(string); ok {
		return s
	}
	return ""
}
