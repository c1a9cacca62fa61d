package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// userIDPrefix is the prefix used for generated user IDs.
const userIDPrefix = "ID:"

// GenerateUserID creates a new user ID of form "ID:" followed by 6 random digits.
func GenerateUserID() (string, error) {
	digits, err := randomDigits(6)
	if err != nil {
		return "", fmt.Errorf("generate user id: %w", err)
	}
	return userIDPrefix + digits, nil
}

// GenerateNumericCode returns a random numeric code of the given length,
// suitable for one-time verification codes.
func GenerateNumericCode(length int) (string, error) {
	code, err := randomDigits(length)
	if err != nil {
		return "", fmt.Errorf("generate numeric code: %w", err)
	}
	return code, nil
}

// randomDigits returns n decimal digits from the crypto source.
func randomDigits(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + v.Int64())
	}
	return string(out), nil
}
