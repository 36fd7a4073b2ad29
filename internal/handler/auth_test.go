package handler_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anveshk/rideshare-board/internal/config"
)

func TestRegisterLoginFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	reg := env.register(t, "5550100100", "Alice")
	if reg.Token == "" {
		t.Fatal("register returned no token")
	}
	if reg.User.PhoneNumber != "5550100100" || reg.User.Name != "Alice" {
		t.Errorf("registered user = %+v, want phone 5550100100 name Alice", reg.User)
	}
	if reg.User.IsVerified {
		t.Error("password registration marked the account verified, want unverified until OTP")
	}

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"phoneNumber": "5550100100", "name": "Mallory", "password": "hunter22",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"phoneNumber": "5550100100", "password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password login status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"phoneNumber": "5550100100", "password": "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var login authResponse
	decode(t, rec, &login)
	if login.Token == "" || login.Token == reg.Token {
		t.Error("login did not issue a fresh token")
	}

	// Both sessions stay valid at once.
	for _, token := range []string{reg.Token, login.Token} {
		rec = env.do(t, http.MethodGet, "/api/auth/verify", token, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("verify status = %d, want %d", rec.Code, http.StatusOK)
		}
	}

	rec = env.do(t, http.MethodGet, "/api/auth/verify", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("verify without token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	rec = env.do(t, http.MethodGet, "/api/auth/verify", "bogus-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("verify with bogus token status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	rec = env.do(t, http.MethodGet, "/api/auth/verify", login.Token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("verify after logout status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	// The other session is untouched by the logout.
	rec = env.do(t, http.MethodGet, "/api/auth/verify", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("sibling session after logout status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestOTPFlowCreatesAccount(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]any{
		"phoneNumber": "5550100200", "name": "Bob",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("request-otp status = %d, body %s", rec.Code, rec.Body.String())
	}
	code := env.storedOTP(t, "5550100200")

	rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"phoneNumber": "5550100200", "otp": code,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-otp status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp authResponse
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Error("verify-otp returned no token")
	}
	if !resp.User.IsVerified {
		t.Error("verified user has isVerified = false")
	}
	if resp.User.Name != "Bob" {
		t.Errorf("user name = %q, want the name captured at request time", resp.User.Name)
	}

	// The code was consumed on success.
	rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"phoneNumber": "5550100200", "otp": code,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("replayed verify-otp status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// An OTP-only account has no password to log in with.
	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"phoneNumber": "5550100200", "password": "anything66",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("password login on otp-only account status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestOTPAttemptLimit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]any{
		"phoneNumber": "5550100300",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("request-otp status = %d", rec.Code)
	}
	code := env.storedOTP(t, "5550100300")
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
			"phoneNumber": "5550100300", "otp": wrong,
		})
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid otp") {
			t.Fatalf("wrong code #%d: status = %d, body %s", i+1, rec.Code, rec.Body.String())
		}
	}

	// The fourth attempt fails even with the correct code, and burns
	// the record.
	rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"phoneNumber": "5550100300", "otp": code,
	})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "too many failed attempts") {
		t.Fatalf("exhausted verify status = %d, body %s", rec.Code, rec.Body.String())
	}

	data, err := os.ReadFile(filepath.Join(env.dir, "otp_sessions.csv"))
	if err != nil {
		t.Fatalf("read otp store: %v", err)
	}
	if strings.Contains(string(data), "5550100300") {
		t.Error("otp record still present after attempts were exhausted")
	}

	rec = env.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]any{
		"phoneNumber": "5550100300", "otp": code,
	})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "no otp requested") {
		t.Errorf("verify after purge status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestOTPCooldown(t *testing.T) {
	t.Parallel()
	env := newTestEnvWithConfig(t, config.Config{
		Env:            "test",
		Port:           "0",
		SessionTTLDays: 30,
		OTPTTLMin:      5,
		OTPCooldownSec: 60,
		BcryptCost:     4,
	})

	rec := env.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]any{
		"phoneNumber": "5550100400",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("first request-otp status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]any{
		"phoneNumber": "5550100400",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request-otp status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	var body struct {
		RetryAfter int `json:"retryAfter"`
	}
	decode(t, rec, &body)
	if body.RetryAfter <= 0 || body.RetryAfter > 60 {
		t.Errorf("retryAfter = %d, want between 1 and 60", body.RetryAfter)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response carries no Retry-After header")
	}

	// A different phone number is not throttled.
	rec = env.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]any{
		"phoneNumber": "5550100401",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("other phone request-otp status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestDeleteAccountOrphansRides(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	alice := env.register(t, "5550100500", "Alice")

	rec := env.do(t, http.MethodPost, "/api/rides", alice.Token, map[string]any{
		"type": "offering", "from": "NYC", "to": "Boston",
		"date": "2024-06-01", "time": "08:00",
		"name": "Alice", "contact": "555-0100",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create ride status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/auth/account", alice.Token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete account status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	rec = env.do(t, http.MethodGet, "/api/auth/verify", alice.Token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("verify after account deletion status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// The ride survives with its createdBy pointing at the deleted
	// account. No cascade, by policy.
	rec = env.do(t, http.MethodGet, "/api/rides", "", nil)
	var list struct {
		Rides []struct {
			CreatedBy string `json:"createdBy"`
		} `json:"rides"`
	}
	decode(t, rec, &list)
	if len(list.Rides) != 1 {
		t.Fatalf("rides after account deletion = %d, want 1", len(list.Rides))
	}
	if list.Rides[0].CreatedBy != alice.User.ID {
		t.Errorf("orphaned ride createdBy = %q, want %q", list.Rides[0].CreatedBy, alice.User.ID)
	}
}
