package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-party-reservation/internal/repository"
)

// errorKind maps a repository sentinel to its HTTP status and the
// stable machine-readable kind clients switch on.  The kind strings are
// part of the API contract and never change with message wording.
func errorKind(err error) (status int, kind string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrPermission):
		return http.StatusForbidden, "permission_denied"
	case errors.Is(err, repository.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, repository.ErrDeadlinePassed):
		return http.StatusBadRequest, "deadline_passed"
	case errors.Is(err, repository.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, repository.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, repository.ErrCapacityExceeded):
		return http.StatusConflict, "capacity_exceeded"
	case errors.Is(err, repository.ErrFullyClaimed):
		return http.StatusConflict, "fully_claimed"
	case errors.Is(err, repository.ErrReservedSpotsExhausted):
		return http.StatusConflict, "reserved_spots_exhausted"
	case errors.Is(err, repository.ErrDuplicateRSVP):
		return http.StatusConflict, "duplicate_rsvp"
	case errors.Is(err, repository.ErrDuplicateInvite):
		return http.StatusConflict, "duplicate_invite"
	case errors.Is(err, repository.ErrIncompleteOutcomes):
		return http.StatusConflict, "incomplete_outcomes"
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict, "email_exists"
	case errors.Is(err, repository.ErrUsernameExists):
		return http.StatusConflict, "username_exists"
	}
	return http.StatusInternalServerError, "internal"
}

// fail renders an error response: {"error": kind, "message": detail}.
// Unknown errors collapse to a generic 500 so internals do not leak.
func fail(c echo.Context, err error) error {
	status, kind := errorKind(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(status, echo.Map{"error": kind, "message": msg})
}

// failMsg is fail with an explicit message overriding err.Error().
func failMsg(c echo.Context, err error, msg string) error {
	status, kind := errorKind(err)
	return c.JSON(status, echo.Map{"error": kind, "message": msg})
}
