// Package queue defines message payloads exchanged over the message broker.
package queue

// OTPIssuedEvent is published when a verification code is issued for a
// phone number. It contains enough information for a downstream SMS
// gateway worker to deliver the code without querying the primary store.
type OTPIssuedEvent struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
	Name        string `json:"name,omitempty"`
	Purpose     string `json:"purpose"` // "register" or "login"
	ExpiresAt   string `json:"expires_at"`
	IssuedAt    string `json:"issued_at"`
}
