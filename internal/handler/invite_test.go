package handler

import (
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/repository"
)

var inviteCols = []string{"id", "event_id", "user_id", "status", "created_at", "responded_at"}

var eventCols = []string{
	"id", "host_id", "title", "description", "event_date", "location_name",
	"location_address", "location_notes", "max_guests", "reserved_spots", "min_guests",
	"rsvp_deadline", "confirmation_deadline", "status", "is_public", "created_at", "updated_at",
}

func eventRow(id, hostID int64, status string) []driver.Value {
	now := time.Now().UTC()
	future := now.Add(72 * time.Hour)
	deadline := now.Add(48 * time.Hour)
	return []driver.Value{
		id, hostID, "dinner", nil, future, "home",
		nil, nil, int64(10), int64(2), int64(2),
		deadline, deadline, status, true, now, now,
	}
}

// A guest who RSVPed after being invited must not end up with two active
// RSVPs by accepting the invite on top of it.
func TestAcceptInviteRejectsExistingActiveRSVP(t *testing.T) {
	now := time.Now().UTC()
	db, script := openScripted(t, []dbStep{
		{contains: "FROM invites", cols: inviteCols,
			rows: [][]driver.Value{{int64(9), int64(5), int64(7), "pending", now, nil}}},
		{contains: "FROM events", cols: eventCols,
			rows: [][]driver.Value{eventRow(5, 1, "open")}},
		{contains: "FROM rsvps", cols: []string{"count"},
			rows: [][]driver.Value{{int64(1)}}},
	})

	h := NewInviteHandler(config.Config{},
		repository.NewEventRepo(db), repository.NewInviteRepo(db),
		repository.NewRSVPRepo(db), repository.NewFoodItemRepo(db),
		repository.NewUserRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/invites/9/accept", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := h.Accept(c); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "duplicate_rsvp") {
		t.Errorf("body = %s, want duplicate_rsvp", rec.Body.String())
	}
	if script.ran("INSERT INTO rsvps") {
		t.Error("a second RSVP was inserted despite the active one")
	}
	if script.ran("UPDATE invites") {
		t.Error("invite status changed despite the rejected acceptance")
	}
}
