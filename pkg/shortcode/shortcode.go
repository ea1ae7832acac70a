// Package shortcode generates and validates the public codes of short links.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	MinLength = 6
	MaxLength = 8
)

var wellFormed = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// Generate returns a random code of the given length drawn from [A-Za-z0-9].
// Uniqueness is not guaranteed; the caller must claim the code in the store.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}

	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// IsWellFormed reports whether code could ever name a link.
func IsWellFormed(code string) bool {
	return wellFormed.MatchString(code)
}
