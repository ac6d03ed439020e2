package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/reputation"
)

// getUserID extracts the authenticated user's ID from the echo context.
// The JWT middleware stores the sub claim, which arrives as float64
// from jwt.MapClaims.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter; zero is never a valid ID.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// trustParams assembles the reputation coefficients from configuration.
func trustParams(cfg config.Config) reputation.Params {
	return reputation.Params{
		Baseline:      cfg.TrustBaseline,
		HostedBonus:   cfg.TrustHostedBonus,
		AttendedBonus: cfg.TrustAttendedBonus,
		NoShowPenalty: cfg.TrustNoShowPenalty,
		MinToHost:     cfg.TrustMinToHost,
	}
}

// trustFields renders the derived reputation metrics of one user the
// way every profile-shaped response reports them.
func trustFields(p reputation.Params, h reputation.History) echo.Map {
	return echo.Map{
		"trust_score":            reputation.Score(p, h),
		"reliability_percentage": reputation.Reliability(h.Attended, h.NoShows),
		"events_hosted":          h.Hosted,
		"events_attended":        h.Attended,
		"no_show_count":          h.NoShows,
		"can_host":               reputation.CanHost(p, h),
	}
}
