package utils

import (
	"crypto/rand"   // secure random generation for refresh tokens
	"crypto/sha256" // hashing refresh tokens before storage
	"encoding/hex"  // hex encoding for tokens and digests
	"time"          // expiry arithmetic

	"github.com/golang-jwt/jwt/v5" // signed JWT access tokens
)

// AccessToken is a signed HS256 JWT together with its expiry.  Access
// tokens are short-lived and travel in the Authorization header.
type AccessToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// RefreshToken is the long-lived opaque token used to mint new access
// tokens.  Only a SHA-256 hash of Raw is ever stored; the raw string is
// returned to the client once.
type RefreshToken struct {
	Raw string    // raw token handed to the client
	Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an access token for a user.  The
// claims are the standard sub/exp/iat triple plus the username, which
// saves a user lookup on requests that only need to display identity.
func NewAccessToken(secret string, userID uint64, username string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random refresh token and
// its expiry.  48 random bytes hex-encode to a 96-character string.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the hex SHA-256 digest of a raw refresh token.
// Storing only the digest keeps a leaked database from refreshing
// sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns n bytes of secure random data as a hex string.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
