package brackets

import (
	"fmt"
	"testing"

	"github.com/brackethq/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinScheduleShape(t *testing.T) {
	for _, n := range []int{4, 5, 7, 8} {
		t.Run(fmt.Sprintf("%d_teams", n), func(t *testing.T) {
			tr := &models.Tournament{ID: "t1"}
			matches, err := RoundRobin{}.GenerateMatches(tr, seededTeams(n), testConfig())
			require.NoError(t, err)

			// Every unordered pair exactly once.
			assert.Len(t, matches, n*(n-1)/2)
			pairs := make(map[string]bool)
			for _, m := range matches {
				require.NotNil(t, m.Team1ID)
				require.NotNil(t, m.Team2ID)
				a, b := *m.Team1ID, *m.Team2ID
				if b < a {
					a, b = b, a
				}
				key := a + "|" + b
				assert.False(t, pairs[key], "pair %s scheduled twice", key)
				pairs[key] = true
			}

			// No team plays twice in the same round.
			byRound := make(map[int]map[string]bool)
			for _, m := range matches {
				r := m.Progression.Round
				if byRound[r] == nil {
					byRound[r] = make(map[string]bool)
				}
				for _, id := range []string{*m.Team1ID, *m.Team2ID} {
					assert.False(t, byRound[r][id], "team %s plays twice in round %d", id, r)
					byRound[r][id] = true
				}
			}

			rounds := n - 1
			if n%2 != 0 {
				rounds = n
			}
			assert.Len(t, byRound, rounds)
		})
	}
}

func TestRoundRobinTooFewTeams(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	_, err := RoundRobin{}.GenerateMatches(tr, seededTeams(2), testConfig())
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}

func TestRoundRobinNextRoundIsNoop(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	next, err := RoundRobin{}.NextRoundMatches(tr, nil, 1, testConfig())
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestRoundRobinValidateFormatFlagsRepeatedPair(t *testing.T) {
	tr := &models.Tournament{ID: "t1", Teams: seededTeams(3)}
	a, b := "team-1", "team-2"
	tr.Matches = []models.Match{
		{ID: "m1", Team1ID: &a, Team2ID: &b},
		{ID: "m2", Team1ID: &b, Team2ID: &a},
	}

	res := RoundRobin{}.ValidateFormat(tr)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "same teams twice")
}
