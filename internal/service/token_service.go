package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NumericTokenGenerator draws fixed-width numeric confirmation codes from
// crypto/rand. Codes are uniform over [0, 10^length) and left-zero-padded,
// so "000042" is as likely as any other six-digit code.
type NumericTokenGenerator struct{}

// NewNumericTokenGenerator creates a new NumericTokenGenerator.
func NewNumericTokenGenerator() *NumericTokenGenerator {
	return &NumericTokenGenerator{}
}

// Generate returns a numeric string of exactly length digits.
func (g *NumericTokenGenerator) Generate(length int) (string, error) {
	if length < 1 || length > 18 {
		return "", fmt.Errorf("token length %d out of range [1,18]", length)
	}
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("draw token: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
