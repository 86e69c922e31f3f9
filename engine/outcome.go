package engine

import (
	"errors"
	"fmt"

	"github.com/brackethq/tournament-engine/models"
)

var (
	ErrNoScores     = errors.New("match has no recorded scores")
	ErrNoWinner     = errors.New("scores do not produce a winner")
	ErrMissingTeams = errors.New("match is missing one or both teams")
)

// Outcome is the result of resolving a completed match's scores.
type Outcome struct {
	WinnerID     string
	LoserID      string
	Team1SetWins int
	Team2SetWins int
}

// ResolveOutcome determines winner and loser from per-set scores. A side wins
// a set by scoring more points in it; the match winner is the side with more
// set wins. Score legality (win-by-two, point caps) is ValidateScore's job and
// is assumed to have been applied before scores were accepted.
func ResolveOutcome(match *models.Match, settings models.ScoringSettings) (*Outcome, error) {
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, ErrMissingTeams
	}
	if len(match.Scores) == 0 {
		return nil, ErrNoScores
	}

	var team1Sets, team2Sets int
	for _, set := range match.Scores {
		switch {
		case set.Team1Score > set.Team2Score:
			team1Sets++
		case set.Team2Score > set.Team1Score:
			team2Sets++
		}
	}

	out := &Outcome{Team1SetWins: team1Sets, Team2SetWins: team2Sets}
	switch {
	case team1Sets > team2Sets:
		out.WinnerID = *match.Team1ID
		out.LoserID = *match.Team2ID
	case team2Sets > team1Sets:
		out.WinnerID = *match.Team2ID
		out.LoserID = *match.Team1ID
	default:
		return nil, fmt.Errorf("%w: %d sets each", ErrNoWinner, team1Sets)
	}
	return out, nil
}

// ValidateScore checks every set against the scoring settings: a finished set
// must reach PointsToWinSet, respect the win-by-two margin unless the cap was
// hit, and never exceed MaxPointsPerSet. The last set may still be in
// progress; all earlier sets must be finished.
func ValidateScore(scores []models.SetScore, settings models.ScoringSettings) error {
	if len(scores) == 0 {
		return ErrNoScores
	}
	if settings.MaxSets > 0 && len(scores) > settings.MaxSets {
		return fmt.Errorf("match has %d sets, maximum is %d", len(scores), settings.MaxSets)
	}

	for i, set := range scores {
		if set.Team1Score < 0 || set.Team2Score < 0 {
			return fmt.Errorf("set %d: negative score", i+1)
		}
		if set.Team1Score > settings.MaxPointsPerSet || set.Team2Score > settings.MaxPointsPerSet {
			return fmt.Errorf("set %d: score exceeds max points per set (%d)", i+1, settings.MaxPointsPerSet)
		}
		if setFinished(set, settings) {
			continue
		}
		// Only the final recorded set may be unfinished.
		if i != len(scores)-1 {
			return fmt.Errorf("set %d: set is not finished", i+1)
		}
	}
	return nil
}

func setFinished(set models.SetScore, settings models.ScoringSettings) bool {
	hi, lo := set.Team1Score, set.Team2Score
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi < settings.PointsToWinSet {
		return false
	}
	if settings.MustWinByTwo && hi-lo < 2 {
		// The cap ends the set regardless of margin.
		return hi >= settings.MaxPointsPerSet
	}
	return true
}
