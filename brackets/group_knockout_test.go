package brackets

import (
	"testing"

	"github.com/brackethq/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitGroupsSnakeSeeding(t *testing.T) {
	groups := SplitGroups(seededTeams(8), 2, true)
	require.Len(t, groups, 2)

	ids := func(teams []models.Team) []string {
		out := make([]string, len(teams))
		for i, team := range teams {
			out[i] = team.ID
		}
		return out
	}
	// Snake deal A B B A A B B A keeps group strength balanced.
	assert.Equal(t, []string{"team-1", "team-4", "team-5", "team-8"}, ids(groups["A"]))
	assert.Equal(t, []string{"team-2", "team-3", "team-6", "team-7"}, ids(groups["B"]))

	for _, team := range groups["A"] {
		assert.Equal(t, "A", team.Group)
	}
}

func TestSplitGroupsRespectsPreassignedGroups(t *testing.T) {
	teams := seededTeams(4)
	teams[0].Group = "X"
	teams[1].Group = "Y"
	teams[2].Group = "X"
	teams[3].Group = "Y"

	groups := SplitGroups(teams, 2, true)
	require.Len(t, groups, 2)
	assert.Len(t, groups["X"], 2)
	assert.Len(t, groups["Y"], 2)
}

func TestGroupKnockoutGenerateMatches(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	cfg := testConfig()
	cfg.GroupCount = 2
	matches, err := GroupKnockout{}.GenerateMatches(tr, seededTeams(8), cfg)
	require.NoError(t, err)

	// Two round robins of four.
	require.Len(t, matches, 12)
	perGroup := make(map[string]int)
	for _, m := range matches {
		require.NotEmpty(t, m.Group)
		assert.Equal(t, models.StageGroupStage, m.Stage)
		perGroup[m.Group]++
	}
	assert.Equal(t, map[string]int{"A": 6, "B": 6}, perGroup)
}

// groupFixture is a finished two-group stage of three teams each, with a
// clean ranking inside each group: a1 > a2 > a3 and b1 > b2 > b3.
func groupFixture() *models.Tournament {
	tr := &models.Tournament{ID: "t1"}
	for _, g := range []string{"a", "b"} {
		group := map[string]string{"a": "A", "b": "B"}[g]
		for i := 1; i <= 3; i++ {
			tr.Teams = append(tr.Teams, models.Team{
				ID:    g + string(rune('0'+i)),
				Name:  g + string(rune('0'+i)),
				Group: group,
			})
		}
		beats := func(id string, winner, loser string) models.Match {
			w, l := winner, loser
			return models.Match{
				ID: id, TournamentID: "t1",
				Team1ID: &w, Team2ID: &l,
				Group: group, Stage: models.StageGroupStage,
				Status: models.MatchStatusCompleted,
				WinnerID: &w, LoserID: &l,
				Scores: []models.SetScore{{Team1Score: 21, Team2Score: 15}, {Team1Score: 21, Team2Score: 15}},
			}
		}
		tr.Matches = append(tr.Matches,
			beats(g+"-m1", g+"1", g+"2"),
			beats(g+"-m2", g+"1", g+"3"),
			beats(g+"-m3", g+"2", g+"3"),
		)
	}
	return tr
}

func TestGroupStandings(t *testing.T) {
	tr := groupFixture()
	rows := GroupKnockout{}.GroupStandings(tr, "A", tr.Teams)
	require.Len(t, rows, 3)
	assert.Equal(t, "a1", rows[0].TeamID)
	assert.Equal(t, "a2", rows[1].TeamID)
	assert.Equal(t, "a3", rows[2].TeamID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 4, rows[0].Points)
	assert.Equal(t, 2, rows[0].Wins)
}

func TestAdvancingTeamsCrossSeedsGroups(t *testing.T) {
	tr := groupFixture()
	advancing := GroupKnockout{}.AdvancingTeams(tr, 2)
	require.Len(t, advancing, 4)

	// Winners first, runners-up after, fresh seeds 1..4.
	assert.Equal(t, "a1", advancing[0].ID)
	assert.Equal(t, "b1", advancing[1].ID)
	assert.Equal(t, "a2", advancing[2].ID)
	assert.Equal(t, "b2", advancing[3].ID)
	for i, team := range advancing {
		require.NotNil(t, team.Seed)
		assert.Equal(t, i+1, *team.Seed)
	}

	// The resulting bracket pairs winners against the other group's
	// runner-up, never two teams from the same group in round 1.
	cfg := testConfig()
	matches, err := GroupKnockout{}.GenerateBracket(tr, advancing, cfg)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	groupOf := func(id string) string {
		team := tr.TeamByID(id)
		require.NotNil(t, team)
		return team.Group
	}
	for _, m := range matches[:2] {
		assert.NotEqual(t, groupOf(*m.Team1ID), groupOf(*m.Team2ID))
	}
}

func TestGroupKnockoutValidateFormat(t *testing.T) {
	tr := groupFixture()
	tr.CurrentStage = models.StageGroupStage
	tr.Teams = append(tr.Teams, models.Team{ID: "stray", Name: "stray"}, seededTeams(1)[0])
	tr.Teams[len(tr.Teams)-1].ID = "stray2"

	res := GroupKnockout{}.ValidateFormat(tr)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)
}
