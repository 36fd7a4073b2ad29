package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("HashPassword() stored the plaintext")
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Error("VerifyPassword() rejected the original password")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Error("VerifyPassword() accepted a wrong password")
	}
	if VerifyPassword("", "hunter22") {
		t.Error("VerifyPassword() accepted against an empty hash")
	}
}
