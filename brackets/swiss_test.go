package brackets

import (
	"testing"

	"github.com/brackethq/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwissRoundOnePairsAdjacentSeeds(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	matches, err := Swiss{}.GenerateMatches(tr, seededTeams(6), testConfig())
	require.NoError(t, err)
	require.Len(t, matches, 3)

	want := [][2]string{{"team-1", "team-2"}, {"team-3", "team-4"}, {"team-5", "team-6"}}
	for i, m := range matches {
		assert.Equal(t, want[i][0], *m.Team1ID)
		assert.Equal(t, want[i][1], *m.Team2ID)
		assert.Equal(t, 1, m.Progression.Round)
	}
}

func TestSwissRoundOneShuffledDrawStillCoversEveryTeam(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	cfg := testConfig()
	cfg.Shuffle = true
	matches, err := Swiss{}.GenerateMatches(tr, seededTeams(6), cfg)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	seen := make(map[string]int)
	for _, m := range matches {
		require.NotNil(t, m.Team1ID)
		require.NotNil(t, m.Team2ID)
		seen[*m.Team1ID]++
		seen[*m.Team2ID]++
		assert.Equal(t, 1, m.Progression.Round)
	}
	require.Len(t, seen, 6)
	for teamID, count := range seen {
		assert.Equalf(t, 1, count, "team %s paired %d times", teamID, count)
	}
}

func TestSwissRoundOneOddFieldGivesBottomSeedABye(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	matches, err := Swiss{}.GenerateMatches(tr, seededTeams(5), testConfig())
	require.NoError(t, err)
	require.Len(t, matches, 3)

	bye := matches[0]
	assert.True(t, bye.IsBye)
	assert.Equal(t, models.MatchStatusCompleted, bye.Status)
	assert.Equal(t, "team-5", *bye.Team1ID)
	assert.Equal(t, "team-5", *bye.WinnerID)
}

// completeSwissMatch marks a match won by the named team with a fixed
// straight-sets line so standings order is driven by the margins we choose.
func completeSwissMatch(m *models.Match, winnerID string, margin int) {
	m.Status = models.MatchStatusCompleted
	winner := winnerID
	m.WinnerID = &winner
	if *m.Team1ID == winnerID {
		loser := *m.Team2ID
		m.LoserID = &loser
		m.Scores = []models.SetScore{
			{Team1Score: 21, Team2Score: 21 - margin},
			{Team1Score: 21, Team2Score: 21 - margin},
		}
		return
	}
	loser := *m.Team1ID
	m.LoserID = &loser
	m.Scores = []models.SetScore{
		{Team1Score: 21 - margin, Team2Score: 21},
		{Team1Score: 21 - margin, Team2Score: 21},
	}
}

func TestSwissNextRoundAvoidsRematches(t *testing.T) {
	tr := &models.Tournament{ID: "t1", Teams: seededTeams(4)}
	matches, err := Swiss{}.GenerateMatches(tr, tr.Teams, testConfig())
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// team-1 wins big, team-3 wins small: standings run 1, 3, then the
	// losers.
	completeSwissMatch(&matches[0], "team-1", 10)
	completeSwissMatch(&matches[1], "team-3", 2)
	tr.Matches = matches

	next, err := Swiss{}.NextRoundMatches(tr, tr.Matches, 1, testConfig())
	require.NoError(t, err)
	require.Len(t, next, 2)

	// Leaders meet leaders, and nobody replays round 1.
	assert.Equal(t, "team-1", *next[0].Team1ID)
	assert.Equal(t, "team-3", *next[0].Team2ID)
	assert.Equal(t, 2, next[0].Progression.Round)
	played := opponentSets(tr.Matches)
	for _, m := range next {
		assert.False(t, played[*m.Team1ID][*m.Team2ID], "rematch %s vs %s", *m.Team1ID, *m.Team2ID)
	}
}

func TestSwissNextRoundRequiresCompletedRound(t *testing.T) {
	tr := &models.Tournament{ID: "t1", Teams: seededTeams(4)}
	matches, err := Swiss{}.GenerateMatches(tr, tr.Teams, testConfig())
	require.NoError(t, err)
	tr.Matches = matches

	_, err = Swiss{}.NextRoundMatches(tr, tr.Matches, 1, testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not completed")
}

func TestSwissNextRoundByeRotates(t *testing.T) {
	tr := &models.Tournament{ID: "t1", Teams: seededTeams(5)}
	matches, err := Swiss{}.GenerateMatches(tr, tr.Teams, testConfig())
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// matches[0] is team-5's bye; complete the two real pairings.
	completeSwissMatch(&matches[1], "team-1", 10)
	completeSwissMatch(&matches[2], "team-3", 2)
	tr.Matches = matches

	next, err := Swiss{}.NextRoundMatches(tr, tr.Matches, 1, testConfig())
	require.NoError(t, err)
	require.Len(t, next, 3)

	bye := next[0]
	require.True(t, bye.IsBye)
	// team-5 already sat out, so the bye moves to another team.
	assert.NotEqual(t, "team-5", *bye.Team1ID)

	played := opponentSets(tr.Matches)
	for _, m := range next[1:] {
		assert.False(t, played[*m.Team1ID][*m.Team2ID], "rematch %s vs %s", *m.Team1ID, *m.Team2ID)
	}
}

func TestPairAvoidingRematchesBacktracks(t *testing.T) {
	// Greedy from the head would pair a-c and leave b-d, but b already
	// played d, so the pairing must backtrack to a-d, b-c.
	played := map[string]map[string]bool{
		"a": {"b": true},
		"b": {"a": true, "d": true},
		"d": {"b": true},
	}
	// a cannot take b; taking c leaves b-d which jams.
	pairing, ok := pairAvoidingRematches([]string{"a", "c", "b", "d"}, played)
	require.True(t, ok)
	require.Len(t, pairing, 4)
	assert.Equal(t, []string{"a", "c", "b", "d"}[0], pairing[0])
	for i := 0; i+1 < len(pairing); i += 2 {
		assert.False(t, played[pairing[i]][pairing[i+1]], "rematch %s vs %s", pairing[i], pairing[i+1])
	}

	// Fully-played pool cannot be paired.
	_, ok = pairAvoidingRematches([]string{"a", "b"}, map[string]map[string]bool{"a": {"b": true}})
	assert.False(t, ok)
}
