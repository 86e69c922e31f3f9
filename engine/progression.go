package engine

import (
	"fmt"

	"github.com/brackethq/tournament-engine/models"
)

// ApplyProgression propagates a completed match's winner into the downstream
// match slot named by its progression metadata, and for double elimination
// routes the loser into its losers-bracket match. The tournament is mutated
// in place; callers work on a Clone of the persisted snapshot.
func ApplyProgression(t *models.Tournament, matchID string) error {
	match := t.MatchByID(matchID)
	if match == nil {
		return fmt.Errorf("%w: match %s", ErrMatchNotFound, matchID)
	}
	if match.Status != models.MatchStatusCompleted || match.WinnerID == nil {
		return fmt.Errorf("match %s is not completed with a winner", matchID)
	}

	if match.Progression.NextMatchID != nil {
		next := t.MatchByID(*match.Progression.NextMatchID)
		if next == nil {
			return fmt.Errorf("%w: next match %s", ErrMatchNotFound, *match.Progression.NextMatchID)
		}
		if match.LosersBracket && match.Progression.NextMatchPosition == 0 {
			// Losers-bracket slots fill in arrival order.
			fillFirstOpenSlot(next, *match.WinnerID)
		} else {
			setSlot(next, match.WinnerSlot(), *match.WinnerID)
		}
	}

	if match.Progression.LoserNextMatchID != nil && match.LoserID != nil {
		loserMatch := t.MatchByID(*match.Progression.LoserNextMatchID)
		if loserMatch == nil {
			return fmt.Errorf("%w: loser match %s", ErrMatchNotFound, *match.Progression.LoserNextMatchID)
		}
		fillFirstOpenSlot(loserMatch, *match.LoserID)
	}
	return nil
}

func setSlot(m *models.Match, slot int, teamID string) {
	if slot == 1 {
		m.Team1ID = &teamID
	} else {
		m.Team2ID = &teamID
	}
}

// fillFirstOpenSlot drops a team into the first empty side of a match. Used
// for losers-bracket routing where slot order is arrival order.
func fillFirstOpenSlot(m *models.Match, teamID string) {
	if m.Team1ID == nil {
		m.Team1ID = &teamID
		return
	}
	if m.Team2ID == nil {
		m.Team2ID = &teamID
	}
}
