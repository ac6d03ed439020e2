package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/model"
	"github.com/iliyamo/dinner-party-reservation/internal/repository"
	"github.com/iliyamo/dinner-party-reservation/internal/reputation"
)

// RSVPHandler owns RSVP submission and the state machine around it.
// Submission is the hot concurrent path: the whole
// check-capacity-claim-insert sequence runs in one transaction behind
// the event row lock, so the event can never be oversold and a food
// race has exactly one winner.
type RSVPHandler struct {
	Cfg    config.Config
	Events *repository.EventRepo
	RSVPs  *repository.RSVPRepo
	Foods  *repository.FoodItemRepo
}

func NewRSVPHandler(cfg config.Config, e *repository.EventRepo, r *repository.RSVPRepo, f *repository.FoodItemRepo) *RSVPHandler {
	if e == nil || r == nil || f == nil {
		panic("nil repository passed to NewRSVPHandler")
	}
	return &RSVPHandler{Cfg: cfg, Events: e, RSVPs: r, Foods: f}
}

type submitRSVPReq struct {
	EventID          uint64  `json:"event_id"`
	GuestCount       int     `json:"guest_count"`
	Message          *string `json:"message"`
	FoodItemID       *uint64 `json:"food_item_id"`
	BringingFoodItem *string `json:"bringing_food_item"`
	FoodNotes        *string `json:"food_notes"`
}

func rsvpJSON(rv model.RSVP) echo.Map {
	return echo.Map{
		"id":                 rv.ID,
		"event_id":           rv.EventID,
		"user_id":            rv.UserID,
		"status":             rv.Status,
		"guest_count":        rv.GuestCount,
		"message":            rv.Message,
		"food_item_id":       rv.FoodItemID,
		"bringing_food_item": rv.BringingFoodItem,
		"food_notes":         rv.FoodNotes,
		"is_reserved":        rv.IsReserved,
		"created_at":         rv.CreatedAt,
		"confirmed_at":       rv.ConfirmedAt,
		"attended_at":        rv.AttendedAt,
	}
}

// Submit handles POST /v1/rsvps.  Checks run in a fixed order inside
// one transaction with the event row locked: existence, lifecycle
// state, deadline, host self-RSVP, duplicate, capacity, then the
// optional food claim, then the insert.
func (h *RSVPHandler) Submit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req submitRSVPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 {
		return failMsg(c, repository.ErrValidation, "event_id required")
	}
	if req.GuestCount < 1 {
		return failMsg(c, repository.ErrValidation, "guest_count must be at least 1")
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

	// The event row lock serializes every capacity decision for this
	// event until commit.
	e, err := h.Events.GetForUpdateTx(ctx, tx, req.EventID)
	if err != nil {
		return fail(c, err)
	}
	if e.Status != model.EventOpen {
		return failMsg(c, repository.ErrInvalidState, "event is not accepting rsvps")
	}
	if time.Now().UTC().After(e.RSVPDeadline) {
		return failMsg(c, repository.ErrDeadlinePassed, "rsvp deadline has passed")
	}
	if e.HostID == userID {
		return failMsg(c, repository.ErrValidation, "hosts cannot rsvp to their own event")
	}
	if dup, err := h.RSVPs.HasActiveTx(ctx, tx, req.EventID, userID); err != nil {
		return fail(c, err)
	} else if dup {
		return failMsg(c, repository.ErrDuplicateRSVP, "an active rsvp already exists for this event")
	}
	agg, err := h.Events.AggregatesForTx(ctx, tx, req.EventID)
	if err != nil {
		return fail(c, err)
	}
	if !model.FitsFreePool(e.MaxGuests, e.ReservedSpots, agg.ActiveGuests, req.GuestCount) {
		return failMsg(c, repository.ErrCapacityExceeded, "not enough spots left for this party size")
	}
	// Claim after the capacity check so the lock order is always event
	// row first, food item second.
	if req.FoodItemID != nil {
		if err := h.Foods.ClaimTx(ctx, tx, req.EventID, *req.FoodItemID); err != nil {
			return fail(c, err)
		}
	}

	status := model.RSVPPending
	var confirmedAt *time.Time
	if h.Cfg.RSVPAutoConfirm {
		status = model.RSVPConfirmed
		now := time.Now().UTC()
		confirmedAt = &now
	}
	rv := model.RSVP{
		UserID:           userID,
		EventID:          req.EventID,
		FoodItemID:       req.FoodItemID,
		Status:           status,
		GuestCount:       req.GuestCount,
		Message:          req.Message,
		BringingFoodItem: req.BringingFoodItem,
		FoodNotes:        req.FoodNotes,
		ConfirmedAt:      confirmedAt,
	}
	if err := h.RSVPs.CreateTx(ctx, tx, &rv); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"rsvp": rsvpJSON(rv)})
}

// MyRSVPs handles GET /v1/rsvps/my-rsvps.
func (h *RSVPHandler) MyRSVPs(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.RSVPs.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	items := make([]echo.Map, 0, len(rows))
	for _, er := range rows {
		item := rsvpJSON(er.RSVP)
		item["event"] = echo.Map{
			"id":            er.Event.ID,
			"title":         er.Event.Title,
			"event_date":    er.Event.EventDate,
			"location_name": er.Event.LocationName,
			"status":        er.Event.Status,
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListForEvent handles GET /v1/rsvps/event/:id.  The host sees guest
// messages plus derived trust and reliability; everyone else gets the
// public subset.
func (h *RSVPHandler) ListForEvent(c echo.Context) error {
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
	rows, err := h.RSVPs.ListByEvent(ctx, eventID)
	if err != nil {
		return fail(c, err)
	}
	isHost := e.HostID == userID
	items := make([]echo.Map, 0, len(rows))
	for _, ur := range rows {
		item := echo.Map{
			"id":          ur.RSVP.ID,
			"user_id":     ur.RSVP.UserID,
			"username":    ur.Username,
			"status":      ur.RSVP.Status,
			"guest_count": ur.RSVP.GuestCount,
			"is_reserved": ur.RSVP.IsReserved,
			"created_at":  ur.RSVP.CreatedAt,
		}
		if isHost {
			hist := reputation.History{Hosted: ur.Hosted, Attended: ur.Attended, NoShows: ur.NoShows}
			item["message"] = ur.RSVP.Message
			item["food_item_id"] = ur.RSVP.FoodItemID
			item["bringing_food_item"] = ur.RSVP.BringingFoodItem
			item["food_notes"] = ur.RSVP.FoodNotes
			item["trust_score"] = reputation.Score(trustParams(h.Cfg), hist)
			item["reliability_percentage"] = reputation.Reliability(ur.Attended, ur.NoShows)
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type updateRSVPReq struct {
	Message          *string `json:"message"`
	BringingFoodItem *string `json:"bringing_food_item"`
	FoodNotes        *string `json:"food_notes"`
}

// Update handles PATCH /v1/rsvps/:id.  The guest may edit notes on
// their own pending or confirmed RSVP; party size and the claimed food
// item are immutable here.
func (h *RSVPHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rsvp id"})
	}
	var req updateRSVPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	tx, err := h.RSVPs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rv, err := h.RSVPs.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if rv.UserID != userID {
		return failMsg(c, repository.ErrPermission, "not your rsvp")
	}
	if rv.Status != model.RSVPPending && rv.Status != model.RSVPConfirmed {
		return failMsg(c, repository.ErrInvalidState, "rsvp is "+string(rv.Status))
	}
	if req.Message != nil {
		rv.Message = req.Message
	}
	if req.BringingFoodItem != nil {
		rv.BringingFoodItem = req.BringingFoodItem
	}
	if req.FoodNotes != nil {
		rv.FoodNotes = req.FoodNotes
	}
	if err := h.RSVPs.UpdateDetailsTx(ctx, tx, &rv); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"rsvp": rsvpJSON(rv)})
}

// Cancel handles POST /v1/rsvps/:id/cancel.  Guest-only; releases the
// food claim in the same transaction.  Cancelling an already-cancelled
// RSVP is a no-op that returns the current state.
func (h *RSVPHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rsvp id"})
	}
	ctx := c.Request().Context()
	tx, err := h.RSVPs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rv, err := h.RSVPs.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if rv.UserID != userID {
		return failMsg(c, repository.ErrPermission, "not your rsvp")
	}
	if rv.Status == model.RSVPCancelled {
		return c.JSON(http.StatusOK, echo.Map{"rsvp": rsvpJSON(rv)})
	}
	if !rv.Status.CanTransition(model.RSVPCancelled) {
		return failMsg(c, repository.ErrInvalidTransition, "rsvp is "+string(rv.Status))
	}
	if err := h.RSVPs.UpdateStatusTx(ctx, tx, id, model.RSVPCancelled); err != nil {
		return fail(c, err)
	}
	if rv.FoodItemID != nil {
		if err := h.Foods.ReleaseTx(ctx, tx, *rv.FoodItemID); err != nil {
			return fail(c, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	rv.Status = model.RSVPCancelled
	return c.JSON(http.StatusOK, echo.Map{"rsvp": rsvpJSON(rv)})
}

type decideRSVPReq struct {
	Status string `json:"status"`
}

// Decide handles POST /v1/rsvps/:id/status.  Host-only: confirm a
// pending RSVP or decline a pending/confirmed one.  Attendance
// outcomes are rejected here; they only happen through event
// completion.
func (h *RSVPHandler) Decide(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rsvp id"})
	}
	var req decideRSVPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := model.RSVPStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if target != model.RSVPConfirmed && target != model.RSVPDeclined {
		return failMsg(c, repository.ErrInvalidTransition, "status must be confirmed or declined")
	}

	ctx := c.Request().Context()
	tx, err := h.RSVPs.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rv, err := h.RSVPs.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	e, err := h.Events.GetByID(ctx, rv.EventID)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may decide rsvps")
	}
	// A completed or cancelled event's guest list is settled; confirming
	// a leftover pending RSVP now would mutate counts that already fed
	// attendance outcomes.
	if e.Status != model.EventOpen && e.Status != model.EventConfirmed {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}
	if !rv.Status.CanTransition(target) {
		return failMsg(c, repository.ErrInvalidTransition, "cannot move rsvp from "+string(rv.Status)+" to "+string(target))
	}
	if err := h.RSVPs.UpdateStatusTx(ctx, tx, id, target); err != nil {
		return fail(c, err)
	}
	// Declining frees the guest's food claim for someone else.
	if target == model.RSVPDeclined && rv.FoodItemID != nil {
		if err := h.Foods.ReleaseTx(ctx, tx, *rv.FoodItemID); err != nil {
			return fail(c, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	rv.Status = target
	return c.JSON(http.StatusOK, echo.Map{"rsvp": rsvpJSON(rv)})
}
