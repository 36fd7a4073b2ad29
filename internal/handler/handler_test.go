package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/anveshk/rideshare-board/internal/config"
	"github.com/anveshk/rideshare-board/internal/handler"
	"github.com/anveshk/rideshare-board/internal/middleware"
	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/repository"
	"github.com/anveshk/rideshare-board/internal/router"
)

// testEnv is a fully wired server over a throwaway data directory,
// with rate limiting off and no Redis or broker attached.
type testEnv struct {
	e   *echo.Echo
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, config.Config{
		Env:            "test",
		Port:           "0",
		SessionTTLDays: 30,
		OTPTTLMin:      5,
		OTPCooldownSec: 0, // no throttling between OTP requests in most tests
		BcryptCost:     4, // bcrypt.MinCost keeps hashing fast
	})
}

func newTestEnvWithConfig(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg.DataDir = dir

	rides := repository.NewRideRepo(filepath.Join(dir, "rides.csv"))
	users := repository.NewUserRepo(filepath.Join(dir, "users.csv"))
	sessions := repository.NewSessionRepo(filepath.Join(dir, "sessions.csv"))
	otps := repository.NewOTPRepo(filepath.Join(dir, "otp_sessions.csv"))
	conversations := repository.NewConversationRepo(filepath.Join(dir, "conversations.csv"))
	messages := repository.NewMessageRepo(filepath.Join(dir, "messages.csv"))

	stores := []interface{ Initialize() error }{rides, users, sessions, otps, conversations, messages}
	for _, s := range stores {
		if err := s.Initialize(); err != nil {
			t.Fatalf("initialize store: %v", err)
		}
	}

	e := echo.New()
	sessionAuth := middleware.SessionAuth(sessions, users)
	limiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)
	router.RegisterRoutes(e,
		handler.NewAuthHandler(cfg, users, sessions, otps),
		handler.NewRideHandler(rides),
		handler.NewMessageHandler(users, rides, conversations, messages),
		sessionAuth, limiter)

	return &testEnv{e: e, dir: dir}
}

// do performs a request against the wired server. A non-empty token is
// sent as a bearer; a non-nil body is marshalled to JSON.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
}

type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// register creates an account through the HTTP surface and returns its
// session token and user record.
func (env *testEnv) register(t *testing.T, phone, name string) authResponse {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"phoneNumber": phone,
		"name":        name,
		"password":    "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body %s", phone, rec.Code, rec.Body.String())
	}
	var resp authResponse
	decode(t, rec, &resp)
	return resp
}

// storedOTP digs the issued code for a phone number out of the OTP
// store file; the API never returns codes.
func (env *testEnv) storedOTP(t *testing.T, phone string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.dir, "otp_sessions.csv"))
	if err != nil {
		t.Fatalf("read otp store: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) >= 2 && fields[0] == phone {
			return fields[1]
		}
	}
	t.Fatalf("no otp stored for %s", phone)
	return ""
}
