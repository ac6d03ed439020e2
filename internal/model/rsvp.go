package model

import "time"

// RSVPStatus enumerates the states of a guest's attendance record.
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"   // submitted, waiting for host approval
	RSVPConfirmed RSVPStatus = "confirmed" // host approved the RSVP
	RSVPDeclined  RSVPStatus = "declined"  // host declined the RSVP
	RSVPCancelled RSVPStatus = "cancelled" // guest cancelled their RSVP
	RSVPAttended  RSVPStatus = "attended"  // guest actually showed up
	RSVPNoShow    RSVPStatus = "no_show"   // guest flaked
)

// CanTransition reports whether an RSVP may move from its current status
// to the target status.  declined, cancelled, attended and no_show are
// terminal.
func (s RSVPStatus) CanTransition(to RSVPStatus) bool {
	switch s {
	case RSVPPending:
		return to == RSVPConfirmed || to == RSVPDeclined || to == RSVPCancelled
	case RSVPConfirmed:
		return to == RSVPCancelled || to == RSVPAttended || to == RSVPNoShow
	}
	return false
}

// Active reports whether the RSVP still occupies its (user, event) slot.
// Cancelled and declined rows are inert; everything else blocks a second
// RSVP for the same pair.
func (s RSVPStatus) Active() bool {
	return s != RSVPCancelled && s != RSVPDeclined
}

// CountsTowardCapacity reports whether the RSVP's guest_count is charged
// against the event's guest pool.
func (s RSVPStatus) CountsTowardCapacity() bool {
	return s == RSVPPending || s == RSVPConfirmed
}

// Terminal reports whether the status permits no further transitions.
func (s RSVPStatus) Terminal() bool {
	switch s {
	case RSVPDeclined, RSVPCancelled, RSVPAttended, RSVPNoShow:
		return true
	}
	return false
}

// Outcome reports whether the status is a post-event attendance outcome.
func (s RSVPStatus) Outcome() bool {
	return s == RSVPAttended || s == RSVPNoShow
}

// RSVP is one user's attendance record for one event, stored in the
// `rsvps` table.  At most one active row exists per (user, event).
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – the guest.
//	EventID          – the event.
//	FoodItemID       – claimed food item, nil when none (at most one per RSVP).
//	Status           – see RSVPStatus.
//	GuestCount       – party size including the user; counts toward capacity
//	                   while the RSVP is pending or confirmed.
//	Message          – optional note to the host.
//	BringingFoodItem – free-text dish when not claiming a listed item.
//	FoodNotes        – optional notes about the contribution.
//	IsReserved       – true when created from the reserved-spots pool (invite).
//	InvitedAt        – when the underlying invite was issued, nil otherwise.
//	CreatedAt        – creation timestamp.
//	UpdatedAt        – last update timestamp.
//	ConfirmedAt      – when the host confirmed, nil otherwise.
//	AttendedAt       – when the attended outcome was recorded, nil otherwise.
type RSVP struct {
	ID               uint64     // rsvps.id
	UserID           uint64     // rsvps.user_id
	EventID          uint64     // rsvps.event_id
	FoodItemID       *uint64    // rsvps.food_item_id (nullable)
	Status           RSVPStatus // rsvps.status
	GuestCount       int        // rsvps.guest_count
	Message          *string    // rsvps.message (nullable)
	BringingFoodItem *string    // rsvps.bringing_food_item (nullable)
	FoodNotes        *string    // rsvps.food_notes (nullable)
	IsReserved       bool       // rsvps.is_reserved
	InvitedAt        *time.Time // rsvps.invited_at (nullable)
	CreatedAt        time.Time  // rsvps.created_at
	UpdatedAt        time.Time  // rsvps.updated_at
	ConfirmedAt      *time.Time // rsvps.confirmed_at (nullable)
	AttendedAt       *time.Time // rsvps.attended_at (nullable)
}
