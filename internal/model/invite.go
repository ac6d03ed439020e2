package model

import "time"

// InviteStatus enumerates the states of a host-issued invitation.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"  // issued, awaiting the guest's response
	InviteAccepted InviteStatus = "accepted" // guest accepted; an RSVP was created
	InviteDeclined InviteStatus = "declined" // guest declined; the reserved spot is freed
)

// CanTransition reports whether an invite may move to the target status.
// accepted and declined are terminal.
func (s InviteStatus) CanTransition(to InviteStatus) bool {
	return s == InvitePending && (to == InviteAccepted || to == InviteDeclined)
}

// ConsumesReservedSpot reports whether the invite holds one unit of the
// event's reserved_spots pool.
func (s InviteStatus) ConsumesReservedSpot() bool {
	return s == InvitePending || s == InviteAccepted
}

// Invite is a host-issued reservation for a named user against an event,
// stored in the `invites` table.  Pending and accepted invites each
// consume one reserved spot; accepting one creates an RSVP with
// is_reserved = true.
//
// Fields:
//
//	ID          – primary key identifier.
//	EventID     – the event the guest is invited to.
//	UserID      – the invited user.
//	Status      – see InviteStatus.
//	CreatedAt   – when the host issued the invite.
//	RespondedAt – when the guest accepted or declined, nil while pending.
type Invite struct {
	ID          uint64       // invites.id
	EventID     uint64       // invites.event_id
	UserID      uint64       // invites.user_id
	Status      InviteStatus // invites.status
	CreatedAt   time.Time    // invites.created_at
	RespondedAt *time.Time   // invites.responded_at (nullable)
}
