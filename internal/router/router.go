package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/anveshk/rideshare-board/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes wires the full API surface onto the provided Echo
// instance. sessionAuth guards the routes that need a logged-in user;
// limiter shields the auth endpoints from brute force and is a
// pass-through when Redis is absent.
func RegisterRoutes(e *echo.Echo, auth *handler.AuthHandler, rides *handler.RideHandler, messages *handler.MessageHandler, sessionAuth, limiter echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Auth endpoints. The OTP and credential routes are public by
	// nature; verify/logout/account act on an existing session.
	a := e.Group("/api/auth", limiter)
	a.POST("/request-otp", auth.RequestOTP)
	a.POST("/verify-otp", auth.VerifyOTP)
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)
	a.GET("/verify", auth.Verify, sessionAuth)
	a.POST("/logout", auth.Logout, sessionAuth)
	a.DELETE("/account", auth.DeleteAccount, sessionAuth)

	// Ride board. Reading the board and polling for changes works
	// without an account; mutations require one.
	r := e.Group("/api/rides")
	r.GET("", rides.List)
	r.GET("/check-updates", rides.CheckUpdates)
	r.POST("", rides.Create, sessionAuth)
	r.PUT("/:id", rides.Update, sessionAuth)
	r.DELETE("/:id", rides.Delete, sessionAuth)

	// Messaging is account-only on every route.
	conv := e.Group("/api/conversations", sessionAuth)
	conv.GET("", messages.ListConversations)
	conv.POST("", messages.StartConversation)
	conv.GET("/:id/messages", messages.GetMessages)

	e.POST("/api/messages", messages.SendMessage, sessionAuth)
}
