package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time converts the numeric TTL knobs into durations
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Strings for identifiers and paths, ints
// for durations and costs; the duration accessors below convert them
// where callers need time.Duration.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DataDir        string // directory holding the CSV stores
	SessionTTLDays int    // login session time-to-live in days
	OTPTTLMin      int    // OTP validity window in minutes
	OTPCooldownSec int    // minimum seconds between OTP requests per phone
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns
// a Config. APP_ENV and APP_PORT are enforced by must() and missing
// values cause the program to exit with a fatal log message; everything
// else has a workable default so a fresh checkout boots.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),  // environment (dev/test/prod)
		Port:           must("APP_PORT"), // port to bind the HTTP server
		DataDir:        envStr("DATA_DIR", "data"),
		SessionTTLDays: envInt("SESSION_TTL_DAYS", 30),
		OTPTTLMin:      envInt("OTP_TTL_MIN", 5),
		OTPCooldownSec: envInt("OTP_COOLDOWN_SEC", 60),
		BcryptCost:     envInt("BCRYPT_COST", 10),
	}
}

// SessionTTL returns the session lifetime as a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

// OTPTTL returns the OTP validity window as a duration.
func (c Config) OTPTTL() time.Duration {
	return time.Duration(c.OTPTTLMin) * time.Minute
}

// OTPCooldown returns the per-phone OTP request cooldown as a duration.
func (c Config) OTPCooldown() time.Duration {
	return time.Duration(c.OTPCooldownSec) * time.Second
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
