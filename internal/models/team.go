package models

import (
	"errors"
	"fmt"
)

// TeamSize is the number of players on a roster.
const TeamSize = 5

var (
	ErrTeamSize        = errors.New("team must have exactly 5 players")
	ErrDuplicatePlayer = errors.New("team contains a duplicate player")
)

// Team is an ordered roster of distinct players.
type Team struct {
	Players []PlayerRecord `json:"players"`
}

func NewTeam(players ...PlayerRecord) Team {
	return Team{Players: players}
}

// Validate enforces the roster size and identity uniqueness.
func (t Team) Validate() error {
	if len(t.Players) != TeamSize {
		return fmt.Errorf("%w: got %d", ErrTeamSize, len(t.Players))
	}
	seen := make(map[string]bool, len(t.Players))
	for _, p := range t.Players {
		if seen[p.FullName] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.FullName)
		}
		seen[p.FullName] = true
	}
	return nil
}

func (t Team) Names() []string {
	names := make([]string, len(t.Players))
	for i, p := range t.Players {
		names[i] = p.FullName
	}
	return names
}

// Clone copies the roster so edits to the copy leave t untouched.
func (t Team) Clone() Team {
	return Team{Players: append([]PlayerRecord(nil), t.Players...)}
}

func (t Team) Contains(fullName string) bool {
	for _, p := range t.Players {
		if p.FullName == fullName {
			return true
		}
	}
	return false
}
