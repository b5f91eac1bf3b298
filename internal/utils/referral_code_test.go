package utils

import (
	"strings"
	"testing"
)

func TestGenerateReferralCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode()
		if err != nil {
			t.Fatalf("GenerateReferralCode failed: %v", err)
		}
		if len(code) != 8 {
			t.Fatalf("expected 8 characters, got %q", code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("character %q outside the code alphabet in %q", c, code)
			}
		}
		seen[code] = true
	}

	// 100 draws from a 31^8 space should never collide
	if len(seen) != 100 {
		t.Errorf("expected 100 distinct codes, got %d", len(seen))
	}
}

func TestCodeAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1IL" {
		if strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("ambiguous character %q present in code alphabet", c)
		}
	}
}
