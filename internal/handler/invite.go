package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/model"
	"github.com/iliyamo/dinner-party-reservation/internal/repository"
)

// InviteHandler owns the reserved-spots pool.  Invite arithmetic runs
// under the event row lock: pending and accepted invites together can
// never exceed reserved_spots, however many invites the host fires off
// at once.
type InviteHandler struct {
	Cfg     config.Config
	Events  *repository.EventRepo
	Invites *repository.InviteRepo
	RSVPs   *repository.RSVPRepo
	Foods   *repository.FoodItemRepo
	Users   *repository.UserRepo
}

func NewInviteHandler(cfg config.Config, e *repository.EventRepo, i *repository.InviteRepo, r *repository.RSVPRepo, f *repository.FoodItemRepo, u *repository.UserRepo) *InviteHandler {
	if e == nil || i == nil || r == nil || f == nil || u == nil {
		panic("nil repository passed to NewInviteHandler")
	}
	return &InviteHandler{Cfg: cfg, Events: e, Invites: i, RSVPs: r, Foods: f, Users: u}
}

func inviteJSON(ir repository.InviteRow) echo.Map {
	return echo.Map{
		"id":           ir.Invite.ID,
		"event_id":     ir.Invite.EventID,
		"user_id":      ir.Invite.UserID,
		"username":     ir.Username,
		"status":       ir.Invite.Status,
		"event_title":  ir.EventTitle,
		"event_date":   ir.EventDate,
		"created_at":   ir.Invite.CreatedAt,
		"responded_at": ir.Invite.RespondedAt,
	}
}

type createInviteReq struct {
	EventID  uint64 `json:"event_id"`
	Username string `json:"username"`
}

// Create handles POST /v1/invites.  Host-only; consumes one spot of
// the reserved pool, counted under the event row lock.
func (h *InviteHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createInviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 || strings.TrimSpace(req.Username) == "" {
		return failMsg(c, repository.ErrValidation, "event_id and username required")
	}

	ctx := c.Request().Context()
	invitee, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return failMsg(c, repository.ErrNotFound, "user not found")
		}
		return fail(c, err)
	}
	if invitee.ID == userID {
		return failMsg(c, repository.ErrValidation, "cannot invite yourself")
	}

	tx, err := h.Events.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	e, err := h.Events.GetForUpdateTx(ctx, tx, req.EventID)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may invite guests")
	}
	if e.Status != model.EventOpen {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}
	if dup, err := h.Invites.HasActiveTx(ctx, tx, req.EventID, invitee.ID); err != nil {
		return fail(c, err)
	} else if dup {
		return failMsg(c, repository.ErrDuplicateInvite, "user already has an invite for this event")
	}
	if dup, err := h.RSVPs.HasActiveTx(ctx, tx, req.EventID, invitee.ID); err != nil {
		return fail(c, err)
	} else if dup {
		return failMsg(c, repository.ErrDuplicateInvite, "user already has an active rsvp for this event")
	}
	consuming, err := h.Invites.CountConsumingTx(ctx, tx, req.EventID)
	if err != nil {
		return fail(c, err)
	}
	if consuming >= e.ReservedSpots {
		return failMsg(c, repository.ErrReservedSpotsExhausted, "no reserved spots left")
	}
	inv := model.Invite{EventID: req.EventID, UserID: invitee.ID, Status: model.InvitePending}
	if err := h.Invites.CreateTx(ctx, tx, &inv); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       inv.ID,
		"event_id": inv.EventID,
		"user_id":  inv.UserID,
		"username": invitee.Username,
		"status":   inv.Status,
	})
}

// ListForEvent handles GET /v1/invites/event/:id.  Host-only.
func (h *InviteHandler) ListForEvent(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	e, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may list invites")
	}
	rows, err := h.Invites.ListByEvent(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	items := make([]echo.Map, 0, len(rows))
	for _, ir := range rows {
		items = append(items, inviteJSON(ir))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MyInvites handles GET /v1/invites/my-invites: the caller's pending
// invites.
func (h *InviteHandler) MyInvites(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Invites.ListPendingByUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	items := make([]echo.Map, 0, len(rows))
	for _, ir := range rows {
		items = append(items, inviteJSON(ir))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type acceptInviteReq struct {
	FoodItemID *uint64 `json:"food_item_id"`
}

// Accept handles POST /v1/invites/:id/accept.  The invitee's RSVP is
// created already confirmed and flagged reserved, so it bypasses the
// free-pool capacity check; an optional food claim still goes through
// the ledger.
func (h *InviteHandler) Accept(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invite id"})
	}
	var req acceptInviteReq
	_ = c.Bind(&req)

	ctx := c.Request().Context()
	tx, err := h.Events.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	inv, err := h.Invites.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if inv.UserID != userID {
		return failMsg(c, repository.ErrPermission, "not your invite")
	}
	if inv.Status != model.InvitePending {
		return failMsg(c, repository.ErrInvalidState, "invite is "+string(inv.Status))
	}
	// Lock order: event row first, then the food item.
	e, err := h.Events.GetForUpdateTx(ctx, tx, inv.EventID)
	if err != nil {
		return fail(c, err)
	}
	if e.Status != model.EventOpen && e.Status != model.EventConfirmed {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}
	// An invitee may have submitted a general RSVP after the invite went
	// out; accepting on top of it would give the pair two active rows.
	if dup, err := h.RSVPs.HasActiveTx(ctx, tx, inv.EventID, userID); err != nil {
		return fail(c, err)
	} else if dup {
		return failMsg(c, repository.ErrDuplicateRSVP, "you already have an active rsvp for this event")
	}
	if req.FoodItemID != nil {
		if err := h.Foods.ClaimTx(ctx, tx, inv.EventID, *req.FoodItemID); err != nil {
			return fail(c, err)
		}
	}
	now := time.Now().UTC()
	invitedAt := inv.CreatedAt
	rv := model.RSVP{
		UserID:      userID,
		EventID:     inv.EventID,
		FoodItemID:  req.FoodItemID,
		Status:      model.RSVPConfirmed,
		GuestCount:  1,
		IsReserved:  true,
		InvitedAt:   &invitedAt,
		ConfirmedAt: &now,
	}
	if err := h.RSVPs.CreateTx(ctx, tx, &rv); err != nil {
		return fail(c, err)
	}
	if err := h.Invites.UpdateStatusTx(ctx, tx, id, model.InviteAccepted); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"invite_status": model.InviteAccepted,
		"rsvp":          rsvpJSON(rv),
	})
}

// Decline handles POST /v1/invites/:id/decline, returning the reserved
// spot to the pool.  Declining twice is a no-op.
func (h *InviteHandler) Decline(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invite id"})
	}
	ctx := c.Request().Context()
	tx, err := h.Events.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	inv, err := h.Invites.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if inv.UserID != userID {
		return failMsg(c, repository.ErrPermission, "not your invite")
	}
	if inv.Status == model.InviteDeclined {
		return c.JSON(http.StatusOK, echo.Map{"id": inv.ID, "status": inv.Status})
	}
	if !inv.Status.CanTransition(model.InviteDeclined) {
		return failMsg(c, repository.ErrInvalidTransition, "invite is "+string(inv.Status))
	}
	if err := h.Invites.UpdateStatusTx(ctx, tx, id, model.InviteDeclined); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"id": inv.ID, "status": model.InviteDeclined})
}
