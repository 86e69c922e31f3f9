package models

// Standing is one row of a computed ranking table. Points follow the usual
// league convention (win = 2, loss = 0) unless a format says otherwise.
type Standing struct {
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	Group         string `json:"group,omitempty"`
	Division      string `json:"division,omitempty"`
	Points        int    `json:"points"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	SetsWon       int    `json:"sets_won"`
	SetsLost      int    `json:"sets_lost"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Rank          int    `json:"rank"`
}

func (s Standing) SetDifference() int   { return s.SetsWon - s.SetsLost }
func (s Standing) PointDifference() int { return s.PointsFor - s.PointsAgainst }
