package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/repository"
	"github.com/iliyamo/dinner-party-reservation/internal/utils"
)

// ReferralHandler serves the read side of the referral subsystem.  The
// write side (recording a referral and awarding the capped bonus) runs
// inside registration.
type ReferralHandler struct {
	Cfg       config.Config
	Users     *repository.UserRepo
	Referrals *repository.ReferralRepo
}

func NewReferralHandler(cfg config.Config, u *repository.UserRepo, r *repository.ReferralRepo) *ReferralHandler {
	if u == nil || r == nil {
		panic("nil repository passed to NewReferralHandler")
	}
	return &ReferralHandler{Cfg: cfg, Users: u, Referrals: r}
}

// MyCode handles GET /v1/referrals/my-code.
func (h *ReferralHandler) MyCode(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"referral_code":   u.ReferralCode,
		"referral_points": u.ReferralPoints,
	})
}

// Stats handles GET /v1/referrals/stats: the caller's full referral
// history with totals.
func (h *ReferralHandler) Stats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	rows, err := h.Referrals.ListByReferrer(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	awarded := 0
	earned := 0
	items := make([]echo.Map, 0, len(rows))
	for _, sr := range rows {
		if sr.Referral.BonusAwarded {
			awarded++
			earned += sr.Referral.BonusAmount
		}
		items = append(items, echo.Map{
			"referred_username": sr.Username,
			"bonus_awarded":     sr.Referral.BonusAwarded,
			"bonus_amount":      sr.Referral.BonusAmount,
			"created_at":        sr.Referral.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"referral_code":   u.ReferralCode,
		"total_referrals": len(rows),
		"awarded_count":   awarded,
		"points_earned":   earned,
		"referral_points": u.ReferralPoints,
		"referrals":       items,
	})
}

// Validate handles GET /v1/referrals/validate/:code.  Public and
// read-only: unknown or implausible codes soft-fail with valid=false
// rather than an error status.
func (h *ReferralHandler) Validate(c echo.Context) error {
	code := utils.NormalizeReferralCode(c.Param("code"))
	if !utils.ValidReferralCode(code) {
		return c.JSON(http.StatusOK, echo.Map{"valid": false})
	}
	u, err := h.Users.GetByReferralCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusOK, echo.Map{"valid": false})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":             true,
		"referrer_username": u.Username,
	})
}
