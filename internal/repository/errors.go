// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// each one to a stable machine-readable error kind and HTTP status.
// Concurrency races resolve to exactly one winner; every loser receives
// one of these typed failures, never a silent partial commit.
package repository

import "errors"

// ErrNotFound is returned when the requested entity does not exist.
// Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrPermission is returned when the caller attempts an operation on a
// resource they do not own, or lacks the standing for (e.g. hosting
// with a trust score below the threshold). 403.
var ErrPermission = errors.New("permission denied")

// ErrValidation is returned for malformed or out-of-range input, such as
// min_guests exceeding max_guests. Recoverable by caller correction. 400.
var ErrValidation = errors.New("validation failed")

// ErrInvalidState is returned when the operation is not valid for the
// entity's current status, e.g. confirming a cancelled event. 409.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidTransition is returned for a disallowed status edge, e.g.
// declined back to confirmed. 409.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrCapacityExceeded is returned when an RSVP would push the event's
// committed guest total past the open pool. Retryable only if capacity
// frees up. 409.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrFullyClaimed is returned when a food item has no unclaimed units
// left at commit time. Exactly one contender wins the last unit. 409.
var ErrFullyClaimed = errors.New("food item fully claimed")

// ErrReservedSpotsExhausted is returned when issuing another invite
// would exceed the event's reserved_spots pool. 409.
var ErrReservedSpotsExhausted = errors.New("reserved spots exhausted")

// ErrDeadlinePassed is returned when the RSVP deadline is over. Not
// retryable. 400.
var ErrDeadlinePassed = errors.New("deadline passed")

// ErrDuplicateRSVP is returned when an active RSVP already exists for
// the (user, event) pair. 409.
var ErrDuplicateRSVP = errors.New("duplicate rsvp")

// ErrDuplicateInvite is returned when a pending or accepted invite (or
// an active RSVP) already exists for the (user, event) pair. 409.
var ErrDuplicateInvite = errors.New("duplicate invite")

// ErrIncompleteOutcomes is returned when an event cannot be completed
// because some confirmed RSVP lacks an attended/no_show decision. 409.
var ErrIncompleteOutcomes = errors.New("incomplete outcomes")

// ErrEmailExists is returned when registration hits a taken email. 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registration hits a taken
// username. 409.
var ErrUsernameExists = errors.New("username already exists")
