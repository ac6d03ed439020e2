package utils

import (
	"strings"
	"testing"
)

func TestNewReferralCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewReferralCode()
		if len(code) != 8 {
			t.Fatalf("code %q has length %d, want 8", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune("0123456789ABCDEF", r) {
				t.Fatalf("code %q contains non-hex rune %q", code, r)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 32-bit space should essentially never collide.
	if len(seen) < 99 {
		t.Errorf("generated %d distinct codes out of 100", len(seen))
	}
}

func TestNormalizeReferralCode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ab12cd34", "AB12CD34"},
		{"  AB12CD34  ", "AB12CD34"},
		{"\tAb12Cd34\n", "AB12CD34"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeReferralCode(tc.in); got != tc.want {
			t.Errorf("NormalizeReferralCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidReferralCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"AB12CD34", true},
		{"ABCD", true},
		{"ABC", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidReferralCode(tc.code); got != tc.want {
			t.Errorf("ValidReferralCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
