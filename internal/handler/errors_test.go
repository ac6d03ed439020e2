package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/iliyamo/dinner-party-reservation/internal/repository"
)

func TestErrorKindMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{repository.ErrPermission, http.StatusForbidden, "permission_denied"},
		{repository.ErrValidation, http.StatusBadRequest, "validation_failed"},
		{repository.ErrDeadlinePassed, http.StatusBadRequest, "deadline_passed"},
		{repository.ErrInvalidState, http.StatusConflict, "invalid_state"},
		{repository.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{repository.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
		{repository.ErrFullyClaimed, http.StatusConflict, "fully_claimed"},
		{repository.ErrReservedSpotsExhausted, http.StatusConflict, "reserved_spots_exhausted"},
		{repository.ErrDuplicateRSVP, http.StatusConflict, "duplicate_rsvp"},
		{repository.ErrDuplicateInvite, http.StatusConflict, "duplicate_invite"},
		{repository.ErrIncompleteOutcomes, http.StatusConflict, "incomplete_outcomes"},
		{repository.ErrEmailExists, http.StatusConflict, "email_exists"},
		{repository.ErrUsernameExists, http.StatusConflict, "username_exists"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			status, kind := errorKind(tc.err)
			if status != tc.status || kind != tc.kind {
				t.Errorf("errorKind(%v) = (%d, %q), want (%d, %q)", tc.err, status, kind, tc.status, tc.kind)
			}
		})
	}
}

func TestErrorKindWrapped(t *testing.T) {
	// Mapping must survive wrapping, which handlers do when adding
	// context to a sentinel.
	wrapped := fmt.Errorf("claim dessert: %w", repository.ErrFullyClaimed)
	status, kind := errorKind(wrapped)
	if status != http.StatusConflict || kind != "fully_claimed" {
		t.Errorf("errorKind(wrapped) = (%d, %q), want (409, fully_claimed)", status, kind)
	}
}
