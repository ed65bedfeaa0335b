package access

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the web app used when the project passwords
// were first hashed. Changing it only affects newly created hashes; verify
// reads the cost embedded in each stored hash.
const bcryptCost = 12

// HashPassword hashes a plaintext project password with bcrypt.
// A fresh random salt is generated per call, so two hashes of the same
// password never compare equal as strings.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// The comparison is exact: any whitespace or case difference fails.
// Malformed hashes are treated as a non-match, never a panic.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
