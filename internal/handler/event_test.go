package handler

import (
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/config"
	"github.com/iliyamo/dinner-party-reservation/internal/repository"
)

// Shrinking reserved_spots below the outstanding invites would let their
// acceptances push total guests past max_guests, because invite
// acceptance bypasses the free-pool check.
func TestUpdateRejectsShrinkingReservedUnderLiveInvites(t *testing.T) {
	db, script := openScripted(t, []dbStep{
		{contains: "FROM events", cols: eventCols,
			rows: [][]driver.Value{eventRow(5, 7, "open")}},
		{contains: "FROM rsvps", cols: []string{"active", "confirmed"},
			rows: [][]driver.Value{{int64(0), int64(0)}}},
		{contains: "FROM invites", cols: []string{"count"},
			rows: [][]driver.Value{{int64(2)}}},
	})

	h := NewEventHandler(config.Config{},
		repository.NewEventRepo(db), repository.NewFoodItemRepo(db),
		repository.NewRSVPRepo(db), repository.NewInviteRepo(db),
		repository.NewUserRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/events/5",
		strings.NewReader(`{"reserved_spots":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "validation_failed") {
		t.Errorf("body = %s, want validation_failed", rec.Body.String())
	}
	if script.ran("UPDATE events") {
		t.Error("event was updated despite invites exceeding the shrunk reserved pool")
	}
}
