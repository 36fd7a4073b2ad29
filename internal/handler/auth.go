package handler

import (
	"context"  // fire-and-forget publish uses a background context
	"errors"   // errors.As unwraps the typed cooldown error
	"log"      // dev stand-in for an SMS provider logs the issued code
	"net/http" // HTTP status codes and primitives
	"strconv"  // Retry-After header rendering
	"strings"  // string trimming for request fields
	"time"     // timestamps on login and event payloads

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/anveshk/rideshare-board/internal/config"     // app configuration
	"github.com/anveshk/rideshare-board/internal/model"      // record types returned to clients
	"github.com/anveshk/rideshare-board/internal/queue"      // OTP issued events for the SMS worker
	"github.com/anveshk/rideshare-board/internal/repository" // CSV-backed repositories
	"github.com/anveshk/rideshare-board/internal/utils"      // helper functions (hashing, phone normalization)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	OTPs     *repository.OTPRepo
}

// NewAuthHandler constructs an AuthHandler and panics if any dependency is nil.
func NewAuthHandler(cfg config.Config, users *repository.UserRepo, sessions *repository.SessionRepo, otps *repository.OTPRepo) *AuthHandler {
	if users == nil || sessions == nil || otps == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions, OTPs: otps}
}

// ----- DTOs -----

type requestOTPReq struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}
type verifyOTPReq struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}
type registerReq struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
	Password    string `json:"password"`
}
type loginReq struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type authResp struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// RequestOTP issues a verification code for a phone number. The code
// reaches the user through the otp.issued queue (an SMS gateway worker
// in production, a log file in development); it is never part of the
// HTTP response.
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req requestOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	phone := utils.NormalizePhone(req.PhoneNumber)
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid phoneNumber required"})
	}
	name := strings.TrimSpace(req.Name)

	// Whether this code will register a new account or log into an
	// existing one only matters for the notification payload.
	purpose := "register"
	if _, err := h.Users.GetByPhone(phone); err == nil {
		purpose = "login"
	}

	session, err := h.OTPs.Request(phone, name, h.Cfg.OTPTTL(), h.Cfg.OTPCooldown())
	if err != nil {
		var cooldown *repository.CooldownError
		if errors.As(err, &cooldown) {
			c.Response().Header().Set("Retry-After", strconv.Itoa(cooldown.RetryAfter))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":      "otp requested too soon",
				"retryAfter": cooldown.RetryAfter,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request otp failed"})
	}

	// No SMS provider is attached in development; the code lands in the
	// server log so it can be read off during manual testing.
	log.Printf("otp for %s: %s (expires %s)", phone, session.OTP, session.ExpiresAt.Format(time.RFC3339))

	event := queue.OTPIssuedEvent{
		PhoneNumber: phone,
		OTP:         session.OTP,
		Name:        name,
		Purpose:     purpose,
		ExpiresAt:   session.ExpiresAt.Format(time.RFC3339),
		IssuedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	// Fire and forget: a broker outage must not block the auth flow.
	go func() { _ = queue.PublishOTPIssued(context.Background(), event) }()

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "otp sent",
		"expiresAt": session.ExpiresAt,
	})
}

// VerifyOTP checks a submitted code. On first success for an unknown
// phone number the account is created (name captured at request time)
// and marked verified; either way a fresh session token is issued.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	phone := utils.NormalizePhone(req.PhoneNumber)
	code := strings.TrimSpace(req.OTP)
	if phone == "" || code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phoneNumber and otp required"})
	}

	otpSession, err := h.OTPs.Verify(phone, code)
	if err != nil {
		switch err {
		case repository.ErrNoActiveOTP:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no otp requested for this number"})
		case repository.ErrOTPExpired:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "otp expired"})
		case repository.ErrInvalidOTP:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid otp"})
		case repository.ErrOTPAttemptsExceeded:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many failed attempts"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify otp failed"})
	}

	now := time.Now().UTC()
	user, err := h.Users.GetByPhone(phone)
	switch {
	case err == repository.ErrNotFound:
		// First successful verification creates the account.
		name := otpSession.Name
		if name == "" {
			name = phone
		}
		user, err = h.Users.Create(model.User{
			PhoneNumber: phone,
			Name:        name,
			IsVerified:  true,
			LastLoginAt: now,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	default:
		user.IsVerified = true
		user.LastLoginAt = now
		if err := h.Users.Update(user); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
		}
	}

	session, err := h.Sessions.Create(user.ID, h.Cfg.SessionTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusOK, authResp{Token: session.Token, User: user})
}

// Register creates an account with a password and logs it straight in.
// The account starts unverified; a later OTP verification flips the flag.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	phone := utils.NormalizePhone(req.PhoneNumber)
	name := strings.TrimSpace(req.Name)
	if phone == "" || name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phoneNumber and name required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	user, err := h.Users.Create(model.User{
		PhoneNumber: phone,
		Name:        name,
		Password:    hash,
		LastLoginAt: time.Now().UTC(),
	})
	if err != nil {
		if err == repository.ErrPhoneExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	session, err := h.Sessions.Create(user.ID, h.Cfg.SessionTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusCreated, authResp{Token: session.Token, User: user})
}

// Login verifies phone+password and returns a new session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	phone := utils.NormalizePhone(req.PhoneNumber)
	if phone == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phoneNumber and password required"})
	}

	user, err := h.Users.GetByPhone(phone)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	// Accounts created through the OTP flow have no password; they
	// cannot use password login until one is set.
	if user.Password == "" || !utils.VerifyPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	user.LastLoginAt = time.Now().UTC()
	if err := h.Users.Update(user); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}

	session, err := h.Sessions.Create(user.ID, h.Cfg.SessionTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.JSON(http.StatusOK, authResp{Token: session.Token, User: user})
}

// Verify reports who the bearer token belongs to. Protected route; the
// middleware has already resolved the session when this runs.
func (h *AuthHandler) Verify(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	user, err := h.Users.GetByID(uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// Logout removes the presented session token. Removing a token that is
// already gone still succeeds, so repeated logouts are harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	raw := strings.TrimPrefix(auth, "Bearer ")
	if err := h.Sessions.DeleteByToken(raw); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes the caller's account and every session it
// owns. Rides and messages the account created stay behind with
// dangling author references; that is the documented policy.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Users.Delete(uid); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	if err := h.Sessions.DeleteByUser(uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete sessions failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
