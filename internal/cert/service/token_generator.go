// Package service implements the issuance policies: token generation,
// namespace assignment, and signed command verification.
package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenGenerator produces verification token values.
type TokenGenerator interface {
	// Generate creates a random token of the specified length.
	Generate(length int) (string, error)
}

type alphanumericGenerator struct{}

// NewAlphanumericGenerator creates a token generator producing
// cryptographically secure random alphanumeric tokens using [A-Za-z0-9].
func NewAlphanumericGenerator() TokenGenerator {
	return &alphanumericGenerator{}
}

// Generate creates a cryptographically secure random alphanumeric token of the specified length.
// Returns an error if length is less than 1 or greater than 255.
func (g *alphanumericGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", errors.New("length must be at least 1")
	}
	if length > 255 {
		return "", errors.New("length must not exceed 255")
	}

	token := make([]byte, length)
	charsLen := big.NewInt(int64(len(alphanumericChars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		token[i] = alphanumericChars[n.Int64()]
	}

	return string(token), nil
}
