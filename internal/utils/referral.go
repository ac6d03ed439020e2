package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// referralCodeLen is the length of a generated referral code.
const referralCodeLen = 8

// NewReferralCode generates a short shareable referral code: the first
// eight hex characters of a random UUID, uppercased.  Collisions are
// possible and handled by the caller through the unique index on the
// column.
func NewReferralCode() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:])[:referralCodeLen])
}

// NormalizeReferralCode canonicalizes user-supplied codes so lookups are
// case- and whitespace-insensitive.
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidReferralCode reports whether a normalized code is plausible
// enough to look up.
func ValidReferralCode(code string) bool {
	return len(code) >= 4
}
