package engine

import (
	"fmt"
	"sort"

	"github.com/brackethq/tournament-engine/models"
)

// AssignCourt puts a scheduled or in-progress match onto a court. The court
// must be available. If the match already held a different court that court
// is freed first, so re-assignment is idempotent. Mutates t in place.
func AssignCourt(t *models.Tournament, matchID, courtID string) error {
	match := t.MatchByID(matchID)
	if match == nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	court := t.CourtByID(courtID)
	if court == nil {
		return fmt.Errorf("%w: %s", ErrCourtNotFound, courtID)
	}
	if court.Status != models.CourtAvailable {
		return fmt.Errorf("%w: court %d is %s", ErrCourtNotAvailable, court.Number, court.Status)
	}

	if match.CourtNumber != nil && *match.CourtNumber != court.Number {
		FreeCourt(t, *match.CourtNumber)
	}

	number := court.Number
	match.CourtNumber = &number
	court.Status = models.CourtInUse
	id := match.ID
	court.CurrentMatchID = &id
	return nil
}

// FreeCourt returns the court with the given number to available and clears
// its match back-reference. Freeing an already-available or unknown court is
// a no-op, which makes the call idempotent.
func FreeCourt(t *models.Tournament, courtNumber int) {
	court := t.CourtByNumber(courtNumber)
	if court == nil {
		return
	}
	if court.Status == models.CourtInUse {
		court.Status = models.CourtAvailable
	}
	court.CurrentMatchID = nil
}

// AutoAssignCourts pairs available courts with scheduled matches that lack
// one, earliest scheduled time first (unscheduled matches sort last, ties
// break on match ID so re-running the same snapshot assigns identically).
// Returns the number of assignments made.
func AutoAssignCourts(t *models.Tournament) int {
	courts := make([]*models.Court, 0, len(t.Courts))
	for i := range t.Courts {
		if t.Courts[i].Status == models.CourtAvailable {
			courts = append(courts, &t.Courts[i])
		}
	}
	if len(courts) == 0 {
		return 0
	}
	sort.Slice(courts, func(i, j int) bool { return courts[i].Number < courts[j].Number })

	candidates := make([]*models.Match, 0, len(t.Matches))
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.Status == models.MatchStatusScheduled && m.CourtNumber == nil && !m.IsBye &&
			m.Team1ID != nil && m.Team2ID != nil {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.ScheduledTime == nil && b.ScheduledTime == nil:
			return a.ID < b.ID
		case a.ScheduledTime == nil:
			return false
		case b.ScheduledTime == nil:
			return true
		case a.ScheduledTime.Equal(*b.ScheduledTime):
			return a.ID < b.ID
		default:
			return a.ScheduledTime.Before(*b.ScheduledTime)
		}
	})

	assigned := 0
	for i := 0; i < len(courts) && i < len(candidates); i++ {
		court := courts[i]
		match := candidates[i]
		number := court.Number
		match.CourtNumber = &number
		court.Status = models.CourtInUse
		id := match.ID
		court.CurrentMatchID = &id
		assigned++
	}
	return assigned
}

// ReleaseMatchCourt frees the court a match holds, if any, and when the
// tournament runs with auto-assignment immediately hands the court to the
// next waiting match. Part of the same snapshot update as match completion,
// so a completed match is never left attached to an in-use court.
func ReleaseMatchCourt(t *models.Tournament, match *models.Match) {
	if match.CourtNumber == nil {
		return
	}
	FreeCourt(t, *match.CourtNumber)
	match.CourtNumber = nil
	if t.AutoAssignCourts {
		AutoAssignCourts(t)
	}
}
