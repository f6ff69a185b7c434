package models

import "fmt"

// Side identifies home or away.
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// OutcomeCall is the classifier's verdict for one matchup.
type OutcomeCall struct {
	Probability float64 `json:"probability"`
	Winner      Side    `json:"winner"`
}

// ScoreLine holds Q1..Q4 followed by the final score.
type ScoreLine [5]int

func (s ScoreLine) Final() int {
	return s[4]
}

func (s ScoreLine) QuarterSum() int {
	return s[0] + s[1] + s[2] + s[3]
}

// Consistent reports whether the quarters add up to the final.
func (s ScoreLine) Consistent() bool {
	return s.QuarterSum() == s.Final()
}

// BoxScore pairs the home and away score lines of one game.
type BoxScore struct {
	Home   ScoreLine `json:"home"`
	Away   ScoreLine `json:"away"`
	Result string    `json:"result"` // "Winner" or "Loser", from the home side's view
}

// Validate checks both sum invariants and that the declared winner outscored the loser.
func (b BoxScore) Validate(winner Side) error {
	if !b.Home.Consistent() {
		return fmt.Errorf("home quarters sum to %d, final is %d", b.Home.QuarterSum(), b.Home.Final())
	}
	if !b.Away.Consistent() {
		return fmt.Errorf("away quarters sum to %d, final is %d", b.Away.QuarterSum(), b.Away.Final())
	}
	switch winner {
	case SideHome:
		if b.Home.Final() <= b.Away.Final() {
			return fmt.Errorf("home declared winner but scored %d to %d", b.Home.Final(), b.Away.Final())
		}
	case SideAway:
		if b.Away.Final() <= b.Home.Final() {
			return fmt.Errorf("away declared winner but scored %d to %d", b.Away.Final(), b.Home.Final())
		}
	default:
		return fmt.Errorf("unknown side %q", winner)
	}
	return nil
}
