package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// SetScore is one completed or in-progress set of a match.
type SetScore struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

// Progression links a match to the downstream matches that receive its
// winner and, for double elimination, its loser. NextMatchPosition (1 or 2)
// is authoritative; when it is zero the slot is derived from BracketPosition
// parity (odd -> slot 1, even -> slot 2).
type Progression struct {
	NextMatchID       *string `json:"next_match_id,omitempty"`
	NextMatchPosition int     `json:"next_match_position,omitempty"`
	LoserNextMatchID  *string `json:"loser_next_match_id,omitempty"`
	Round             int     `json:"round"`
	BracketPosition   int     `json:"bracket_position"`
}

// Match is a single pairing. Team1ID/Team2ID are nil for slots still waiting
// on an upstream result (TBD) and for the empty side of a bye.
type Match struct {
	ID            string          `json:"id"`
	TournamentID  string          `json:"tournament_id"`
	Team1ID       *string         `json:"team1_id,omitempty"`
	Team2ID       *string         `json:"team2_id,omitempty"`
	Scores        []SetScore      `json:"scores,omitempty"`
	Division      string          `json:"division,omitempty"`
	Group         string          `json:"group,omitempty"`
	Category      string          `json:"category,omitempty"`
	Stage         TournamentStage `json:"stage"`
	Status        MatchStatus     `json:"status"`
	CourtNumber   *int            `json:"court_number,omitempty"`
	WinnerID      *string         `json:"winner_id,omitempty"`
	LoserID       *string         `json:"loser_id,omitempty"`
	IsBye         bool            `json:"is_bye,omitempty"`
	ScheduledTime *time.Time      `json:"scheduled_time,omitempty"`
	Progression   Progression     `json:"progression"`
	LosersBracket bool            `json:"losers_bracket,omitempty"`
	ThirdPlace    bool            `json:"third_place,omitempty"`
}

func (m *Match) Clone() *Match {
	out := *m
	out.Scores = append([]SetScore(nil), m.Scores...)
	out.Team1ID = cloneStr(m.Team1ID)
	out.Team2ID = cloneStr(m.Team2ID)
	out.WinnerID = cloneStr(m.WinnerID)
	out.LoserID = cloneStr(m.LoserID)
	out.Progression.NextMatchID = cloneStr(m.Progression.NextMatchID)
	out.Progression.LoserNextMatchID = cloneStr(m.Progression.LoserNextMatchID)
	if m.CourtNumber != nil {
		n := *m.CourtNumber
		out.CourtNumber = &n
	}
	if m.ScheduledTime != nil {
		ts := *m.ScheduledTime
		out.ScheduledTime = &ts
	}
	return &out
}

// WinnerSlot reports which slot of the downstream match receives this
// match's winner, defaulting to bracket-position parity when the explicit
// field was never set.
func (m *Match) WinnerSlot() int {
	if m.Progression.NextMatchPosition == 1 || m.Progression.NextMatchPosition == 2 {
		return m.Progression.NextMatchPosition
	}
	if m.Progression.BracketPosition%2 == 1 {
		return 1
	}
	return 2
}

// HasTeam reports whether the given team plays in this match.
func (m *Match) HasTeam(teamID string) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) ||
		(m.Team2ID != nil && *m.Team2ID == teamID)
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
