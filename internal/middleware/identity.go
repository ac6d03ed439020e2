package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// identityKey returns a stable string identity for the requester, used
// by the rate limiter and cache to partition keys.  JWTAuth stores the
// sub claim under "user_id"; jwt.MapClaims decodes numbers as float64,
// so both numeric and string forms are handled.  Unauthenticated
// requests share the "anon" bucket.
func identityKey(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
