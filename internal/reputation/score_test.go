package reputation

import "testing"

var testParams = Params{
	Baseline:      50,
	HostedBonus:   10,
	AttendedBonus: 10,
	NoShowPenalty: 25,
	MinToHost:     50,
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		h    History
		want int
	}{
		{"new user sits at baseline", History{}, 50},
		{"one attendance", History{Attended: 1}, 60},
		{"one hosted dinner", History{Hosted: 1}, 60},
		{"one no-show", History{NoShows: 1}, 25},
		{"two no-shows floor at zero", History{NoShows: 3}, 0},
		{"mixed history", History{Hosted: 1, Attended: 2, NoShows: 1}, 55},
		{"heavy attendance caps at 100", History{Attended: 20}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(testParams, tt.h); got != tt.want {
				t.Errorf("Score(%+v) = %d, want %d", tt.h, got, tt.want)
			}
		})
	}
}

// Adding no-shows must never raise the score; adding attendances must
// never lower it.  Checked across a grid of histories.
func TestScoreMonotonicity(t *testing.T) {
	for hosted := 0; hosted <= 3; hosted++ {
		for attended := 0; attended <= 10; attended++ {
			for noShows := 0; noShows <= 10; noShows++ {
				h := History{Hosted: hosted, Attended: attended, NoShows: noShows}
				base := Score(testParams, h)

				moreFlakes := h
				moreFlakes.NoShows++
				if got := Score(testParams, moreFlakes); got > base {
					t.Fatalf("extra no_show raised score: %+v %d -> %d", h, base, got)
				}

				moreAttended := h
				moreAttended.Attended++
				if got := Score(testParams, moreAttended); got < base {
					t.Fatalf("extra attendance lowered score: %+v %d -> %d", h, base, got)
				}
			}
		}
	}
}

func TestScoreBounds(t *testing.T) {
	extremes := []History{
		{},
		{NoShows: 1000},
		{Attended: 1000, Hosted: 1000},
		{Attended: 4, NoShows: 4},
	}
	for _, h := range extremes {
		got := Score(testParams, h)
		if got < 0 || got > 100 {
			t.Errorf("Score(%+v) = %d, outside [0,100]", h, got)
		}
	}
}

func TestReliability(t *testing.T) {
	tests := []struct {
		attended, noShows int
		want              int
	}{
		{0, 0, 0},
		{1, 0, 100},
		{0, 1, 0},
		{1, 1, 50},
		{2, 1, 67},
		{1, 2, 33},
		{9, 1, 90},
	}
	for _, tt := range tests {
		if got := Reliability(tt.attended, tt.noShows); got != tt.want {
			t.Errorf("Reliability(%d, %d) = %d, want %d", tt.attended, tt.noShows, got, tt.want)
		}
	}
}

func TestCanHost(t *testing.T) {
	if !CanHost(testParams, History{}) {
		t.Error("a fresh user at baseline 50 should be allowed to host")
	}
	if CanHost(testParams, History{NoShows: 1}) {
		t.Error("score 25 must not be allowed to host")
	}
	if !CanHost(testParams, History{NoShows: 1, Attended: 3}) {
		t.Error("score 55 should be allowed to host")
	}
}
