package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the work factor for stored password hashes
	BcryptCost = 12

	// MinLength is the minimum accepted password length
	MinLength = 8
)

// Hash derives a bcrypt hash for storage
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether plain matches the stored hash. An empty hash
// never matches; external sign-in accounts carry no password.
func Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashToken digests a refresh token for at-rest storage. SHA256 is enough
// here: the input is already a high-entropy signed token, not a password.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword checks the password policy for new credentials
func ValidatePassword(plain string) bool {
	return len(plain) >= MinLength
}
