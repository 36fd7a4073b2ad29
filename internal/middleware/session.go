package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/anveshk/rideshare-board/internal/repository"
)

// SessionAuth returns an Echo middleware that resolves a Bearer session
// token to a user account and injects the account's id and display name
// into the request context. Resolution is two linear scans: the session
// store for the token, then the user store for the session's user id.
// This middleware should wrap protected routes so that handlers can
// access authenticated user information via `c.Get("user_id")` and
// `c.Get("user_name")`.
func SessionAuth(sessions *repository.SessionRepo, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		// The returned handler is invoked for each incoming HTTP request.
		return func(c echo.Context) error {
			// Read the Authorization header. A valid header starts with
			// "Bearer " followed by the opaque session token. If it
			// doesn't, respond with 401 Unauthorized.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			// Remove the "Bearer " prefix to obtain the raw token string.
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Look the token up in the session store. Expired sessions
			// are reported as absent, so one error path covers both a
			// bogus and a stale token.
			session, err := sessions.GetByToken(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Resolve the session's user. A missing account means the
			// account was deleted while the session row survived; the
			// token is dead either way.
			user, err := users.GetByID(session.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store the id and display name in the context. Handlers and
			// downstream middleware can access these values via c.Get().
			c.Set("user_id", user.ID)
			c.Set("user_name", user.Name)
			return next(c)
		}
	}
}
