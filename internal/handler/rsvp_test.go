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

var rsvpCols = []string{
	"id", "user_id", "event_id", "food_item_id", "status", "guest_count", "message",
	"bringing_food_item", "food_notes", "is_reserved", "invited_at", "created_at", "updated_at",
	"confirmed_at", "attended_at",
}

func pendingRSVPRow(id, userID, eventID int64) []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{
		id, userID, eventID, nil, "pending", int64(1), nil,
		nil, nil, false, nil, now, now,
		nil, nil,
	}
}

// A pending RSVP left behind on a completed event is settled history:
// the host cannot confirm it after the fact.
func TestDecideRejectsSettledEvent(t *testing.T) {
	db, script := openScripted(t, []dbStep{
		{contains: "FROM rsvps", cols: rsvpCols,
			rows: [][]driver.Value{pendingRSVPRow(3, 9, 5)}},
		{contains: "FROM events", cols: eventCols,
			rows: [][]driver.Value{eventRow(5, 7, "completed")}},
	})

	h := NewRSVPHandler(config.Config{},
		repository.NewEventRepo(db), repository.NewRSVPRepo(db),
		repository.NewFoodItemRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/rsvps/3/status",
		strings.NewReader(`{"status":"confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.Decide(c); err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invalid_state") {
		t.Errorf("body = %s, want invalid_state", rec.Body.String())
	}
	if script.ran("UPDATE rsvps") {
		t.Error("RSVP status changed on a settled event")
	}
}
