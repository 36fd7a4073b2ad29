package model

import "time"

// User represents an account row in users.csv. Accounts are created either
// by explicit registration (with a password) or on first successful OTP
// verification (password column left empty).
//
// Fields:
//  ID          – generated identifier of the form user_<millis>_<suffix>.
//  PhoneNumber – digits-only phone number, unique across users.
//  Name        – display name.
//  CreatedAt   – creation timestamp.
//  IsVerified  – set once the phone number has been confirmed via OTP.
//  Password    – bcrypt hash, never serialized to JSON. Empty for
//                OTP-only accounts, which cannot use password login.
//  LastLoginAt – last successful password login; zero when never.
type User struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	IsVerified  bool      `json:"isVerified"`
	Password    string    `json:"-"`
	LastLoginAt time.Time `json:"lastLoginAt,omitzero"`
}

// Session is one bearer-token row in sessions.csv. A user may hold any
// number of concurrent sessions; expired rows are filtered lazily when the
// store is read, there is no background sweep.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OTPSession is one pending one-time password in otp_sessions.csv. At most
// one row exists per phone number: requesting a new code replaces the old
// one. Attempts counts failed verifications; the row is purged after the
// third.
type OTPSession struct {
	PhoneNumber string
	OTP         string
	Name        string
	ExpiresAt   time.Time
	Attempts    int
}
