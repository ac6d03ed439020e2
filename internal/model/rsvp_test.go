package model

import "testing"

func TestRSVPTransitions(t *testing.T) {
	all := []RSVPStatus{RSVPPending, RSVPConfirmed, RSVPDeclined, RSVPCancelled, RSVPAttended, RSVPNoShow}

	allowed := map[[2]RSVPStatus]bool{
		{RSVPPending, RSVPConfirmed}:   true,
		{RSVPPending, RSVPDeclined}:    true,
		{RSVPPending, RSVPCancelled}:   true,
		{RSVPConfirmed, RSVPCancelled}: true,
		{RSVPConfirmed, RSVPAttended}:  true,
		{RSVPConfirmed, RSVPNoShow}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]RSVPStatus{from, to}]
			if got := from.CanTransition(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestRSVPTerminalStates(t *testing.T) {
	terminal := map[RSVPStatus]bool{
		RSVPPending:   false,
		RSVPConfirmed: false,
		RSVPDeclined:  true,
		RSVPCancelled: true,
		RSVPAttended:  true,
		RSVPNoShow:    true,
	}
	for s, want := range terminal {
		if got := s.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", s, got, want)
		}
	}
}

func TestRSVPActive(t *testing.T) {
	// declined and cancelled rows free their (user, event) slot; all
	// other states block a second RSVP.
	inactive := map[RSVPStatus]bool{RSVPDeclined: true, RSVPCancelled: true}
	for _, s := range []RSVPStatus{RSVPPending, RSVPConfirmed, RSVPDeclined, RSVPCancelled, RSVPAttended, RSVPNoShow} {
		if got := s.Active(); got == inactive[s] {
			t.Errorf("%s.Active() = %v", s, got)
		}
	}
}

func TestRSVPCountsTowardCapacity(t *testing.T) {
	counts := map[RSVPStatus]bool{
		RSVPPending:   true,
		RSVPConfirmed: true,
		RSVPDeclined:  false,
		RSVPCancelled: false,
		RSVPAttended:  false,
		RSVPNoShow:    false,
	}
	for s, want := range counts {
		if got := s.CountsTowardCapacity(); got != want {
			t.Errorf("%s.CountsTowardCapacity() = %v, want %v", s, got, want)
		}
	}
}

func TestRSVPOutcome(t *testing.T) {
	for _, s := range []RSVPStatus{RSVPAttended, RSVPNoShow} {
		if !s.Outcome() {
			t.Errorf("%s should be an outcome", s)
		}
	}
	for _, s := range []RSVPStatus{RSVPPending, RSVPConfirmed, RSVPDeclined, RSVPCancelled} {
		if s.Outcome() {
			t.Errorf("%s should not be an outcome", s)
		}
	}
}
