package brackets

import (
	"sort"

	"github.com/brackethq/tournament-engine/models"
)

const (
	pointsPerWin  = 2
	pointsPerLoss = 0
)

// accumulateTable folds completed matches into per-team standing rows.
// Only matches accepted by the filter count; byes count as a win without
// set or point statistics.
func accumulateTable(t *models.Tournament, teams []models.Team, filter func(models.Match) bool) []models.Standing {
	rows := make(map[string]*models.Standing, len(teams))
	for _, team := range teams {
		rows[team.ID] = &models.Standing{
			TeamID:   team.ID,
			TeamName: team.Name,
			Group:    team.Group,
			Division: team.Division,
		}
	}

	for _, m := range t.Matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if filter != nil && !filter(m) {
			continue
		}
		winner := rows[*m.WinnerID]
		if winner == nil {
			continue
		}
		winner.MatchesPlayed++
		winner.Wins++
		winner.Points += pointsPerWin

		if m.IsBye || m.LoserID == nil {
			continue
		}
		loser := rows[*m.LoserID]
		if loser == nil {
			continue
		}
		loser.MatchesPlayed++
		loser.Losses++
		loser.Points += pointsPerLoss

		winnerIsTeam1 := m.Team1ID != nil && *m.Team1ID == *m.WinnerID
		for _, set := range m.Scores {
			w, l := set.Team1Score, set.Team2Score
			if !winnerIsTeam1 {
				w, l = l, w
			}
			winner.PointsFor += w
			winner.PointsAgainst += l
			loser.PointsFor += l
			loser.PointsAgainst += w
			switch {
			case w > l:
				winner.SetsWon++
				loser.SetsLost++
			case l > w:
				winner.SetsLost++
				loser.SetsWon++
			}
		}
	}

	out := make([]models.Standing, 0, len(teams))
	for _, team := range teams {
		out = append(out, *rows[team.ID])
	}
	return out
}

// eliminationStandings ranks teams by the deepest bracket round they
// reached (winning a match counts as reaching the next round), then by wins,
// then by point differential.
func eliminationStandings(t *models.Tournament, teams []models.Team) []models.Standing {
	rows := accumulateTable(t, teams, nil)
	reached := make(map[string]int, len(teams))
	for _, m := range t.Matches {
		if m.Team1ID != nil {
			reached[*m.Team1ID] = max(reached[*m.Team1ID], m.Progression.Round)
		}
		if m.Team2ID != nil {
			reached[*m.Team2ID] = max(reached[*m.Team2ID], m.Progression.Round)
		}
		if m.Status == models.MatchStatusCompleted && m.WinnerID != nil {
			reached[*m.WinnerID] = max(reached[*m.WinnerID], m.Progression.Round+1)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if reached[a.TeamID] != reached[b.TeamID] {
			return reached[a.TeamID] > reached[b.TeamID]
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.PointDifference() > b.PointDifference()
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// headToHead returns >0 when a beat b in a completed direct meeting, <0 when
// b beat a, 0 otherwise.
func headToHead(t *models.Tournament, aID, bID string) int {
	for _, m := range t.Matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if m.HasTeam(aID) && m.HasTeam(bID) {
			if *m.WinnerID == aID {
				return 1
			}
			return -1
		}
	}
	return 0
}

// sortLeagueStandings orders rows by points, then head-to-head, then set
// differential, then point differential, and stamps ranks.
func sortLeagueStandings(t *models.Tournament, rows []models.Standing) []models.Standing {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if h := headToHead(t, a.TeamID, b.TeamID); h != 0 {
			return h > 0
		}
		if a.SetDifference() != b.SetDifference() {
			return a.SetDifference() > b.SetDifference()
		}
		return a.PointDifference() > b.PointDifference()
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// sortGroupStandings orders rows inside a group the way the group stage
// advances teams: points, wins, set differential, point differential.
func sortGroupStandings(rows []models.Standing) []models.Standing {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.SetDifference() != b.SetDifference() {
			return a.SetDifference() > b.SetDifference()
		}
		return a.PointDifference() > b.PointDifference()
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
