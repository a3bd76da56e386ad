package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Password hashes a plaintext password with bcrypt. A fresh random salt is
// embedded in the output on every call.
func Password(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored bcrypt hash. Comparison is
// constant time; any mismatch or malformed hash yields false.
func Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// Bcrypt adapts the package functions to the hasher interface consumed by
// the auth service.
type Bcrypt struct{}

func (Bcrypt) Hash(plain string) (string, error) { return Password(plain) }

func (Bcrypt) Verify(plain, hashed string) bool { return Verify(plain, hashed) }
