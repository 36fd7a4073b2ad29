package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword runs a plaintext password through bcrypt at the given
// cost. The cost is a config knob so tests can drop to bcrypt.MinCost.
func HashPassword(plain string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
