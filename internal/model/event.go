package model

import "time"

// EventStatus enumerates the lifecycle states of a dinner event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"     // created but not yet visible (never exposed by the API)
	EventOpen      EventStatus = "open"      // accepting RSVPs
	EventConfirmed EventStatus = "confirmed" // host confirmed, the dinner is happening
	EventCancelled EventStatus = "cancelled" // called off by the host
	EventCompleted EventStatus = "completed" // took place, outcomes recorded
)

// CanTransition reports whether an event may move from its current status
// to the target status.  Transitions are monotonic: cancelled and
// completed are terminal.
func (s EventStatus) CanTransition(to EventStatus) bool {
	switch s {
	case EventDraft:
		return to == EventOpen || to == EventCancelled
	case EventOpen:
		return to == EventConfirmed || to == EventCancelled
	case EventConfirmed:
		return to == EventCompleted || to == EventCancelled
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s EventStatus) Terminal() bool {
	return s == EventCancelled || s == EventCompleted
}

// Event represents a hosted dinner as stored in the `events` table.
// Guest-count aggregates (confirmed_guest_count, available_spots,
// can_be_confirmed) are not columns; they are derived from the live
// RSVP set on every read.
//
// Fields:
//
//	ID                   – primary key identifier.
//	HostID               – user hosting the dinner; sole owner.
//	Title                – short event title.
//	Description          – optional longer description.
//	EventDate            – when the dinner takes place.
//	LocationName         – venue name shown to guests.
//	LocationAddress      – optional street address.
//	LocationNotes        – optional access notes ("buzz #123").
//	MaxGuests            – hard capacity across both pools.
//	ReservedSpots        – capacity set aside for host invites.
//	MinGuests            – confirmed guests needed before the host may confirm.
//	RSVPDeadline         – last moment a guest may RSVP.
//	ConfirmationDeadline – when the host must confirm by.
//	Status               – lifecycle state, see EventStatus.
//	IsPublic             – whether the event appears in public listings.
//	CreatedAt            – creation timestamp.
//	UpdatedAt            – last update timestamp.
type Event struct {
	ID                   uint64      // events.id
	HostID               uint64      // events.host_id
	Title                string      // events.title
	Description          *string     // events.description (nullable)
	EventDate            time.Time   // events.event_date
	LocationName         string      // events.location_name
	LocationAddress      *string     // events.location_address (nullable)
	LocationNotes        *string     // events.location_notes (nullable)
	MaxGuests            int         // events.max_guests
	ReservedSpots        int         // events.reserved_spots
	MinGuests            int         // events.min_guests
	RSVPDeadline         time.Time   // events.rsvp_deadline
	ConfirmationDeadline time.Time   // events.confirmation_deadline
	Status               EventStatus // events.status
	IsPublic             bool        // events.is_public
	CreatedAt            time.Time   // events.created_at
	UpdatedAt            time.Time   // events.updated_at
}

// FreePool returns the size of the open-RSVP pool: total capacity minus
// the spots held back for invites.
func (e *Event) FreePool() int {
	n := e.MaxGuests - e.ReservedSpots
	if n < 0 {
		return 0
	}
	return n
}

// FitsCommitments reports whether the event's capacity plan can still
// hold the guests already committed against each pool: activeGuests
// charged to the free pool and consumingInvites (pending or accepted)
// charged to the reserved pool.  Shrinking reserved_spots below the
// outstanding invites would let their acceptances push the total past
// max_guests, because invite acceptance bypasses the free-pool check.
func (e *Event) FitsCommitments(activeGuests, consumingInvites int) bool {
	return consumingInvites <= e.ReservedSpots && activeGuests <= e.FreePool()
}

// AvailableSpots derives the spots still open to general RSVPs given the
// number of guests currently counted against the free pool (pending and
// confirmed, reserved excluded).  Floored at zero.
func AvailableSpots(maxGuests, reservedSpots, activeGuests int) int {
	n := maxGuests - reservedSpots - activeGuests
	if n < 0 {
		return 0
	}
	return n
}

// FitsFreePool reports whether adding guestCount more guests to the free
// pool would still respect max_guests − reserved_spots.  Pending RSVPs
// count toward the pool so the event cannot be oversold while awaiting
// host confirmation.
func FitsFreePool(maxGuests, reservedSpots, activeGuests, guestCount int) bool {
	return activeGuests+guestCount <= maxGuests-reservedSpots
}
