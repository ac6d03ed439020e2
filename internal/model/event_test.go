package model

import "testing"

func TestEventTransitions(t *testing.T) {
	all := []EventStatus{EventDraft, EventOpen, EventConfirmed, EventCancelled, EventCompleted}

	allowed := map[[2]EventStatus]bool{
		{EventDraft, EventOpen}:          true,
		{EventDraft, EventCancelled}:     true,
		{EventOpen, EventConfirmed}:      true,
		{EventOpen, EventCancelled}:      true,
		{EventConfirmed, EventCompleted}: true,
		{EventConfirmed, EventCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]EventStatus{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestEventTerminal(t *testing.T) {
	for s, want := range map[EventStatus]bool{
		EventDraft:     false,
		EventOpen:      false,
		EventConfirmed: false,
		EventCancelled: true,
		EventCompleted: true,
	} {
		if got := s.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, got, want)
		}
	}
}

// Three parties race for an event with max_guests=4, reserved_spots=1:
// two single guests fit, a third party of two no longer does.
func TestFreePoolScenario(t *testing.T) {
	const maxGuests, reserved = 4, 1

	active := 0
	if got := AvailableSpots(maxGuests, reserved, active); got != 3 {
		t.Fatalf("available before any RSVP = %d, want 3", got)
	}

	for i, wantAvail := range []int{2, 1} {
		if !FitsFreePool(maxGuests, reserved, active, 1) {
			t.Fatalf("guest %d should fit", i+1)
		}
		active++
		if got := AvailableSpots(maxGuests, reserved, active); got != wantAvail {
			t.Fatalf("available after guest %d = %d, want %d", i+1, got, wantAvail)
		}
	}

	if FitsFreePool(maxGuests, reserved, active, 2) {
		t.Error("a party of two must not fit with one free spot left")
	}
	if !FitsFreePool(maxGuests, reserved, active, 1) {
		t.Error("a single guest should still fit the last spot")
	}
}

func TestAvailableSpotsFloor(t *testing.T) {
	if got := AvailableSpots(4, 1, 10); got != 0 {
		t.Errorf("oversubscribed event reported %d available spots", got)
	}
	if got := AvailableSpots(2, 4, 0); got != 0 {
		t.Errorf("reserved > max reported %d available spots", got)
	}
}

func TestFitsCommitments(t *testing.T) {
	cases := []struct {
		name             string
		maxGuests        int
		reservedSpots    int
		activeGuests     int
		consumingInvites int
		want             bool
	}{
		{"empty event", 10, 3, 0, 0, true},
		{"both pools full", 10, 3, 7, 3, true},
		{"free pool oversubscribed", 10, 3, 8, 0, false},
		{"reserved shrunk under live invites", 10, 0, 0, 3, false},
		{"reserved shrunk to outstanding invites", 10, 3, 5, 3, true},
		{"grow absorbs commitments", 20, 5, 7, 3, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Event{MaxGuests: tc.maxGuests, ReservedSpots: tc.reservedSpots}
			if got := e.FitsCommitments(tc.activeGuests, tc.consumingInvites); got != tc.want {
				t.Errorf("max=%d reserved=%d active=%d invites=%d: got %v, want %v",
					tc.maxGuests, tc.reservedSpots, tc.activeGuests, tc.consumingInvites, got, tc.want)
			}
		})
	}
}

func TestFoodItemDerived(t *testing.T) {
	fi := FoodItem{QuantityNeeded: 2}

	if fi.IsFullyClaimed() {
		t.Error("unclaimed item reported fully claimed")
	}
	if got := fi.RemainingNeeded(); got != 2 {
		t.Errorf("RemainingNeeded = %d, want 2", got)
	}

	fi.QuantityClaimed = 2
	if !fi.IsFullyClaimed() {
		t.Error("fully claimed item not reported as such")
	}
	if got := fi.RemainingNeeded(); got != 0 {
		t.Errorf("RemainingNeeded = %d, want 0", got)
	}

	fi.QuantityClaimed = 3
	if got := fi.RemainingNeeded(); got != 0 {
		t.Errorf("RemainingNeeded floored = %d, want 0", got)
	}
}

func TestInviteTransitions(t *testing.T) {
	if !InvitePending.CanTransition(InviteAccepted) || !InvitePending.CanTransition(InviteDeclined) {
		t.Error("pending invites must accept and decline")
	}
	for _, s := range []InviteStatus{InviteAccepted, InviteDeclined} {
		for _, to := range []InviteStatus{InvitePending, InviteAccepted, InviteDeclined} {
			if s.CanTransition(to) {
				t.Errorf("%s -> %s should be rejected", s, to)
			}
		}
	}
	if !InvitePending.ConsumesReservedSpot() || !InviteAccepted.ConsumesReservedSpot() {
		t.Error("pending and accepted invites hold a reserved spot")
	}
	if InviteDeclined.ConsumesReservedSpot() {
		t.Error("declined invites must release their reserved spot")
	}
}
