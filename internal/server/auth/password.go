// Package auth implements the credential hasher and the JWT token service
// used by the session flow.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a one-way bcrypt digest of password. bcrypt embeds a
// per-call random salt, so two calls for the same input produce different
// digests.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword reports whether digest was produced from password by
// HashPassword. The comparison is timing-safe.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
