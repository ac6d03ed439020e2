// Package reputation derives a user's trust score, reliability and
// hosting eligibility from their hosting and attendance history.  The
// values are pure functions of the history counts: nothing here is
// stored, so the score can never drift from the RSVP rows it summarizes.
package reputation

// Params are the tunable scoring coefficients.  The [0,100] clamp and
// the hosting threshold semantics are fixed; the magnitudes come from
// configuration.
type Params struct {
	Baseline      int // score for a user with no history
	HostedBonus   int // points per completed hosted event
	AttendedBonus int // points per attended outcome
	NoShowPenalty int // points lost per no_show outcome
	MinToHost     int // minimum score required to host
}

// History summarizes a user's track record, counted from completed
// events and terminal RSVP outcomes.
type History struct {
	Hosted   int // events hosted that reached completed
	Attended int // RSVPs with an attended outcome
	NoShows  int // RSVPs with a no_show outcome
}

// Score computes the trust score, clamped to [0, 100].  More attendance
// never lowers the score and more no-shows never raise it.
func Score(p Params, h History) int {
	s := p.Baseline + p.HostedBonus*h.Hosted + p.AttendedBonus*h.Attended - p.NoShowPenalty*h.NoShows
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Reliability returns the share of attended outcomes among all terminal
// outcomes, rounded to the nearest whole percent.  A user with no
// history has no attendances to their name, so the value is 0.
func Reliability(attended, noShows int) int {
	total := attended + noShows
	if total < 1 {
		total = 1
	}
	return (100*attended + total/2) / total
}

// CanHost reports whether the history earns a score at or above the
// hosting threshold.
func CanHost(p Params, h History) bool {
	return Score(p, h) >= p.MinToHost
}
