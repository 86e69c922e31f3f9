package models

import "time"

// TournamentFormat identifies the pairing system a tournament runs under.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatSwiss             TournamentFormat = "swiss"
	FormatGroupKnockout     TournamentFormat = "group_knockout"
	FormatMultiStage        TournamentFormat = "multi_stage"
)

// TournamentStatus mirrors the lifecycle states stored in the DB.
type TournamentStatus string

const (
	StatusDraft        TournamentStatus = "draft"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// TournamentStage is a named phase of the overall tournament.
type TournamentStage string

const (
	StageRegistration     TournamentStage = "registration"
	StageSeeding          TournamentStage = "seeding"
	StageGroupStage       TournamentStage = "group_stage"
	StageEliminationRound TournamentStage = "elimination_round"
	StageFinals           TournamentStage = "finals"
	StageCompleted        TournamentStage = "completed"
)

// Tournament is the root aggregate. Every mutating operation in the engine
// takes a snapshot and returns a new one; the caller persists it.
type Tournament struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Format           TournamentFormat `json:"format"`
	Status           TournamentStatus `json:"status"`
	CurrentStage     TournamentStage  `json:"current_stage"`
	Teams            []Team           `json:"teams"`
	Matches          []Match          `json:"matches"`
	Courts           []Court          `json:"courts"`
	Categories       []Category       `json:"categories,omitempty"`
	ScoringSettings  ScoringSettings  `json:"scoring_settings"`
	AutoAssignCourts bool             `json:"auto_assign_courts"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Clone deep-copies the aggregate so mutations never leak into a snapshot
// another caller still holds.
func (t *Tournament) Clone() *Tournament {
	out := *t
	out.Teams = make([]Team, len(t.Teams))
	for i := range t.Teams {
		out.Teams[i] = t.Teams[i]
		out.Teams[i].Players = append([]Player(nil), t.Teams[i].Players...)
	}
	out.Matches = make([]Match, len(t.Matches))
	for i := range t.Matches {
		out.Matches[i] = *t.Matches[i].Clone()
	}
	out.Courts = make([]Court, len(t.Courts))
	for i := range t.Courts {
		out.Courts[i] = t.Courts[i]
		if t.Courts[i].CurrentMatchID != nil {
			id := *t.Courts[i].CurrentMatchID
			out.Courts[i].CurrentMatchID = &id
		}
	}
	out.Categories = append([]Category(nil), t.Categories...)
	return &out
}

// MatchByID returns a pointer into t.Matches, or nil.
func (t *Tournament) MatchByID(id string) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return &t.Matches[i]
		}
	}
	return nil
}

// TeamByID returns a pointer into t.Teams, or nil.
func (t *Tournament) TeamByID(id string) *Team {
	for i := range t.Teams {
		if t.Teams[i].ID == id {
			return &t.Teams[i]
		}
	}
	return nil
}

// CourtByID returns a pointer into t.Courts, or nil.
func (t *Tournament) CourtByID(id string) *Court {
	for i := range t.Courts {
		if t.Courts[i].ID == id {
			return &t.Courts[i]
		}
	}
	return nil
}

// CourtByNumber returns a pointer into t.Courts, or nil.
func (t *Tournament) CourtByNumber(number int) *Court {
	for i := range t.Courts {
		if t.Courts[i].Number == number {
			return &t.Courts[i]
		}
	}
	return nil
}

// MatchesInStage returns the matches belonging to a tournament stage.
func (t *Tournament) MatchesInStage(stage TournamentStage) []Match {
	out := make([]Match, 0)
	for _, m := range t.Matches {
		if m.Stage == stage {
			out = append(out, m)
		}
	}
	return out
}
