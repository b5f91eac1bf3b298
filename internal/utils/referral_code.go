package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Code alphabet avoids characters that read ambiguously in print
// (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 8

// GenerateReferralCode creates a random 8-character referral code from
// the unambiguous alphabet. Uniqueness is enforced by the database
// index; callers retry on conflict.
func GenerateReferralCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		code[i] = codeAlphabet[idx.Int64()]
	}
	return string(code), nil
}
