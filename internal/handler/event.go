package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/model"
	"github.com/iliyamo/dinner-party-reservation/internal/queue"
	"github.com/iliyamo/dinner-party-reservation/internal/repository"
	"github.com/iliyamo/dinner-party-reservation/internal/reputation"
	queue_publisher "github.com/iliyamo/dinner-party-reservation/internal/service"
)

// EventHandler owns the event lifecycle: creation, listing, lifecycle
// transitions and the cascades they imply.  Every transition runs in a
// transaction that starts by locking the event row, so two hosts'
// clicks or a confirm racing a cancel resolve in a strict order.
type EventHandler struct {
	Cfg     config.Config
	Events  *repository.EventRepo
	Foods   *repository.FoodItemRepo
	RSVPs   *repository.RSVPRepo
	Invites *repository.InviteRepo
	Users   *repository.UserRepo
}

func NewEventHandler(cfg config.Config, e *repository.EventRepo, f *repository.FoodItemRepo, r *repository.RSVPRepo, i *repository.InviteRepo, u *repository.UserRepo) *EventHandler {
	if e == nil || f == nil || r == nil || i == nil || u == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Cfg: cfg, Events: e, Foods: f, RSVPs: r, Invites: i, Users: u}
}

type foodItemReq struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	QuantityNeeded int     `json:"quantity_needed"`
}

type createEventReq struct {
	Title                string        `json:"title"`
	Description          *string       `json:"description"`
	EventDate            time.Time     `json:"event_date"`
	LocationName         string        `json:"location_name"`
	LocationAddress      *string       `json:"location_address"`
	LocationNotes        *string       `json:"location_notes"`
	MaxGuests            int           `json:"max_guests"`
	ReservedSpots        int           `json:"reserved_spots"`
	MinGuests            int           `json:"min_guests"`
	RSVPDeadline         time.Time     `json:"rsvp_deadline"`
	ConfirmationDeadline *time.Time    `json:"confirmation_deadline"`
	IsPublic             *bool         `json:"is_public"`
	FoodItems            []foodItemReq `json:"food_items"`
}

func validateEventFields(e *model.Event) string {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return "title required"
	case strings.TrimSpace(e.LocationName) == "":
		return "location_name required"
	case e.MaxGuests < 1:
		return "max_guests must be at least 1"
	case e.MinGuests < 0 || e.MinGuests > e.MaxGuests:
		return "min_guests must not exceed max_guests"
	case e.ReservedSpots < 0 || e.ReservedSpots > e.MaxGuests:
		return "reserved_spots must not exceed max_guests"
	case !e.EventDate.After(time.Now().UTC()):
		return "event_date must be in the future"
	case !e.RSVPDeadline.Before(e.EventDate):
		return "rsvp_deadline must be before event_date"
	}
	return ""
}

// Create handles POST /v1/events.  Hosting is gated on the caller's
// derived trust score.
func (h *EventHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	hist, err := h.Users.History(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	if !reputation.CanHost(trustParams(h.Cfg), hist) {
		return failMsg(c, repository.ErrPermission, "trust score too low to host events")
	}

	e := model.Event{
		HostID:          userID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		EventDate:       req.EventDate.UTC(),
		LocationName:    strings.TrimSpace(req.LocationName),
		LocationAddress: req.LocationAddress,
		LocationNotes:   req.LocationNotes,
		MaxGuests:       req.MaxGuests,
		ReservedSpots:   req.ReservedSpots,
		MinGuests:       req.MinGuests,
		RSVPDeadline:    req.RSVPDeadline.UTC(),
		Status:          model.EventOpen,
		IsPublic:        true,
	}
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}
	if req.ConfirmationDeadline != nil {
		e.ConfirmationDeadline = req.ConfirmationDeadline.UTC()
	} else {
		e.ConfirmationDeadline = e.EventDate.AddDate(0, 0, -h.Cfg.ConfirmLeadDays)
	}
	if msg := validateEventFields(&e); msg != "" {
		return failMsg(c, repository.ErrValidation, msg)
	}
	for _, fi := range req.FoodItems {
		if strings.TrimSpace(fi.Name) == "" {
			return failMsg(c, repository.ErrValidation, "food item name required")
		}
		if fi.QuantityNeeded < 1 {
			return failMsg(c, repository.ErrValidation, "food item quantity_needed must be at least 1")
		}
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
	if err := h.Events.CreateTx(ctx, tx, &e); err != nil {
		return fail(c, err)
	}
	items := make([]model.FoodItem, 0, len(req.FoodItems))
	for _, fi := range req.FoodItems {
		items = append(items, model.FoodItem{
			Name:           strings.TrimSpace(fi.Name),
			Description:    fi.Description,
			QuantityNeeded: fi.QuantityNeeded,
		})
	}
	if err := h.Foods.CreateBulkTx(ctx, tx, e.ID, items); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"event": h.eventJSON(e, repository.Aggregates{}, "", reputation.History{})})
}

// eventJSON renders an event with its derived guest aggregates and, when
// known, the host's public identity and trust score.
func (h *EventHandler) eventJSON(e model.Event, agg repository.Aggregates, hostUsername string, hostHist reputation.History) echo.Map {
	out := echo.Map{
		"id":                    e.ID,
		"host_id":               e.HostID,
		"title":                 e.Title,
		"description":           e.Description,
		"event_date":            e.EventDate,
		"location_name":         e.LocationName,
		"location_address":      e.LocationAddress,
		"location_notes":        e.LocationNotes,
		"max_guests":            e.MaxGuests,
		"reserved_spots":        e.ReservedSpots,
		"min_guests":            e.MinGuests,
		"rsvp_deadline":         e.RSVPDeadline,
		"confirmation_deadline": e.ConfirmationDeadline,
		"status":                e.Status,
		"is_public":             e.IsPublic,
		"created_at":            e.CreatedAt,
		"confirmed_guest_count": agg.ConfirmedGuests,
		"available_spots":       model.AvailableSpots(e.MaxGuests, e.ReservedSpots, agg.ActiveGuests),
		"can_be_confirmed":      e.Status == model.EventOpen && agg.ConfirmedGuests >= e.MinGuests,
	}
	if hostUsername != "" {
		out["host_username"] = hostUsername
		out["host_trust_score"] = reputation.Score(trustParams(h.Cfg), hostHist)
	}
	return out
}

func (h *EventHandler) listRowJSON(lr repository.ListRow) echo.Map {
	agg := repository.Aggregates{ActiveGuests: lr.ActiveGuests, ConfirmedGuests: lr.ConfirmedGuests}
	hist := reputation.History{Hosted: lr.HostHosted, Attended: lr.HostAttended, NoShows: lr.HostNoShows}
	return h.eventJSON(lr.Event, agg, lr.HostUsername, hist)
}

// List handles GET /v1/events: public events with optional status and
// upcoming_only filters.  Sits behind the Redis response cache.
func (h *EventHandler) List(c echo.Context) error {
	var statuses []model.EventStatus
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(strings.ToLower(s))
			switch model.EventStatus(s) {
			case model.EventOpen, model.EventConfirmed, model.EventCompleted, model.EventCancelled:
				statuses = append(statuses, model.EventStatus(s))
			default:
				return failMsg(c, repository.ErrValidation, "unknown status filter: "+s)
			}
		}
	}
	upcoming := strings.EqualFold(c.QueryParam("upcoming_only"), "true")

	rows, err := h.Events.ListPublic(c.Request().Context(), statuses, upcoming)
	if err != nil {
		return fail(c, err)
	}
	items := make([]echo.Map, 0, len(rows))
	for _, lr := range rows {
		items = append(items, h.listRowJSON(lr))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MyEvents handles GET /v1/my-events.
func (h *EventHandler) MyEvents(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Events.ListByHost(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	items := make([]echo.Map, 0, len(rows))
	for _, lr := range rows {
		items = append(items, h.listRowJSON(lr))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/events/:id: full detail including food items.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	lr, err := h.Events.GetDetail(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	foods, err := h.Foods.ListByEvent(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	out := h.listRowJSON(lr)
	items := make([]echo.Map, 0, len(foods))
	for _, f := range foods {
		items = append(items, echo.Map{
			"id":               f.ID,
			"name":             f.Name,
			"description":      f.Description,
			"quantity_needed":  f.QuantityNeeded,
			"quantity_claimed": f.QuantityClaimed,
			"is_fully_claimed": f.IsFullyClaimed(),
			"remaining_needed": f.RemainingNeeded(),
		})
	}
	out["food_items"] = items
	return c.JSON(http.StatusOK, echo.Map{"event": out})
}

type updateEventReq struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	EventDate            *time.Time `json:"event_date"`
	LocationName         *string    `json:"location_name"`
	LocationAddress      *string    `json:"location_address"`
	LocationNotes        *string    `json:"location_notes"`
	MaxGuests            *int       `json:"max_guests"`
	ReservedSpots        *int       `json:"reserved_spots"`
	MinGuests            *int       `json:"min_guests"`
	RSVPDeadline         *time.Time `json:"rsvp_deadline"`
	ConfirmationDeadline *time.Time `json:"confirmation_deadline"`
	IsPublic             *bool      `json:"is_public"`
}

// Update handles PATCH /v1/events/:id.  Host-only, and only while the
// event has not reached a terminal status.
func (h *EventHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
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

	e, err := h.Events.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may edit the event")
	}
	if e.Status.Terminal() {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}

	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.EventDate != nil {
		d := req.EventDate.UTC()
		e.EventDate = d
	}
	if req.LocationName != nil {
		e.LocationName = strings.TrimSpace(*req.LocationName)
	}
	if req.LocationAddress != nil {
		e.LocationAddress = req.LocationAddress
	}
	if req.LocationNotes != nil {
		e.LocationNotes = req.LocationNotes
	}
	if req.MaxGuests != nil {
		e.MaxGuests = *req.MaxGuests
	}
	if req.ReservedSpots != nil {
		e.ReservedSpots = *req.ReservedSpots
	}
	if req.MinGuests != nil {
		e.MinGuests = *req.MinGuests
	}
	if req.RSVPDeadline != nil {
		e.RSVPDeadline = req.RSVPDeadline.UTC()
	}
	if req.ConfirmationDeadline != nil {
		e.ConfirmationDeadline = req.ConfirmationDeadline.UTC()
	}
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}
	if msg := validateEventFields(&e); msg != "" {
		return failMsg(c, repository.ErrValidation, msg)
	}
	// Shrinking either pool below the guests and invites already
	// committed against it would retroactively oversell the event.
	agg, err := h.Events.AggregatesForTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	consuming, err := h.Invites.CountConsumingTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if !e.FitsCommitments(agg.ActiveGuests, consuming) {
		return failMsg(c, repository.ErrValidation, "capacity below current guest and invite commitments")
	}

	if err := h.Events.UpdateFieldsTx(ctx, tx, &e); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"event": h.eventJSON(e, agg, "", reputation.History{})})
}

// Confirm handles POST /v1/events/:id/confirm.  Requires open status
// and enough confirmed guests; pending RSVPs are left pending.
func (h *EventHandler) Confirm(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
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

	e, err := h.Events.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may confirm the event")
	}
	if !e.Status.CanTransition(model.EventConfirmed) {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}
	agg, err := h.Events.AggregatesForTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if agg.ConfirmedGuests < e.MinGuests {
		return failMsg(c, repository.ErrInvalidState, "not enough confirmed guests to confirm")
	}
	confirmed, err := h.RSVPs.ListConfirmedTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Events.UpdateStatusTx(ctx, tx, id, model.EventConfirmed); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	guestIDs := make([]uint64, 0, len(confirmed))
	for _, rv := range confirmed {
		guestIDs = append(guestIDs, rv.UserID)
	}
	msg := queue.EventConfirmedMessage{
		EventID:         e.ID,
		HostID:          e.HostID,
		Title:           e.Title,
		EventDate:       e.EventDate,
		LocationName:    e.LocationName,
		ConfirmedGuests: agg.ConfirmedGuests,
		GuestUserIDs:    guestIDs,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		if err := queue_publisher.PublishEventConfirmed(context.Background(), msg); err != nil {
			slog.Warn("publish event.confirmed failed", "event_id", e.ID, "err", err)
		}
	}()

	e.Status = model.EventConfirmed
	return c.JSON(http.StatusOK, echo.Map{"event": h.eventJSON(e, agg, "", reputation.History{})})
}

// Cancel handles POST /v1/events/:id/cancel.  One transaction moves
// the event to cancelled, cancels active RSVPs, declines pending
// invites and releases food claims.  Guests carry no reputation
// penalty from a host cancellation.
func (h *EventHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
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

	e, err := h.Events.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may cancel the event")
	}
	if !e.Status.CanTransition(model.EventCancelled) {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}
	if err := h.Events.UpdateStatusTx(ctx, tx, id, model.EventCancelled); err != nil {
		return fail(c, err)
	}
	if err := h.Events.CancelCascadeTx(ctx, tx, id); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"status": model.EventCancelled})
}

type completeEventReq struct {
	// Outcomes maps rsvp_id to "attended" or "no_show".  Every RSVP
	// still confirmed at completion time must appear.
	Outcomes map[uint64]model.RSVPStatus `json:"outcomes"`
}

// Complete handles POST /v1/events/:id/complete.  Applies attendance
// outcomes to every confirmed RSVP and moves the event to completed in
// one transaction.  Trust scores need no separate write: they are
// derived from the rows this commit creates.
func (h *EventHandler) Complete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req completeEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for rid, outcome := range req.Outcomes {
		if !outcome.Outcome() {
			return failMsg(c, repository.ErrValidation, "outcome for rsvp must be attended or no_show")
		}
		if rid == 0 {
			return failMsg(c, repository.ErrValidation, "invalid rsvp id in outcomes")
		}
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

	e, err := h.Events.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may complete the event")
	}
	if !e.Status.CanTransition(model.EventCompleted) {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}

	confirmed, err := h.RSVPs.ListConfirmedTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	known := make(map[uint64]bool, len(confirmed))
	var attended, noShows []uint64
	for _, rv := range confirmed {
		known[rv.ID] = true
		outcome, ok := req.Outcomes[rv.ID]
		if !ok {
			return failMsg(c, repository.ErrIncompleteOutcomes, "missing outcome for a confirmed rsvp")
		}
		if err := h.RSVPs.UpdateStatusTx(ctx, tx, rv.ID, outcome); err != nil {
			return fail(c, err)
		}
		if outcome == model.RSVPAttended {
			attended = append(attended, rv.UserID)
		} else {
			noShows = append(noShows, rv.UserID)
		}
	}
	for rid := range req.Outcomes {
		if !known[rid] {
			return failMsg(c, repository.ErrValidation, "outcome references an rsvp that is not confirmed for this event")
		}
	}
	if err := h.Events.UpdateStatusTx(ctx, tx, id, model.EventCompleted); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	msg := queue.EventCompletedMessage{
		EventID:     e.ID,
		HostID:      e.HostID,
		Title:       e.Title,
		AttendedIDs: attended,
		NoShowIDs:   noShows,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		if err := queue_publisher.PublishEventCompleted(context.Background(), msg); err != nil {
			slog.Warn("publish event.completed failed", "event_id", e.ID, "err", err)
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"status":   model.EventCompleted,
		"attended": len(attended),
		"no_shows": len(noShows),
	})
}

// AddFoodItem handles POST /v1/events/:id/food-items.
func (h *EventHandler) AddFoodItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req foodItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return failMsg(c, repository.ErrValidation, "name required")
	}
	if req.QuantityNeeded < 1 {
		return failMsg(c, repository.ErrValidation, "quantity_needed must be at least 1")
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

	e, err := h.Events.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	if e.HostID != userID {
		return failMsg(c, repository.ErrPermission, "only the host may add food items")
	}
	if e.Status.Terminal() {
		return failMsg(c, repository.ErrInvalidState, "event is "+string(e.Status))
	}
	f := model.FoodItem{
		EventID:        id,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		QuantityNeeded: req.QuantityNeeded,
	}
	if err := h.Foods.CreateTx(ctx, tx, &f); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"id":               f.ID,
		"name":             f.Name,
		"description":      f.Description,
		"quantity_needed":  f.QuantityNeeded,
		"quantity_claimed": 0,
	})
}
