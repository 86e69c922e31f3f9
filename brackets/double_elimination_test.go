package brackets

import (
	"testing"

	"github.com/brackethq/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleEliminationEightTeamShape(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	matches, err := DoubleElimination{}.GenerateBracket(tr, seededTeams(8), testConfig())
	require.NoError(t, err)

	// 7 winners-bracket matches, 6 losers-bracket matches, 1 grand final.
	require.Len(t, matches, 14)

	var winners, losers []models.Match
	for _, m := range matches[:len(matches)-1] {
		if m.LosersBracket {
			losers = append(losers, m)
		} else {
			winners = append(winners, m)
		}
	}
	assert.Len(t, winners, 7)
	assert.Len(t, losers, 6)

	grandFinal := matches[len(matches)-1]
	assert.False(t, grandFinal.LosersBracket)
	assert.Nil(t, grandFinal.Progression.NextMatchID)

	index := make(map[string]models.Match, len(matches))
	for _, m := range matches {
		index[m.ID] = m
	}

	// Every winners-bracket match drops its loser into the losers bracket,
	// the final included: its loser gets one more match before the grand
	// final.
	var wbFinal models.Match
	for _, m := range winners {
		require.NotNil(t, m.Progression.LoserNextMatchID, "match %s drops its loser nowhere", m.ID)
		dst, ok := index[*m.Progression.LoserNextMatchID]
		require.True(t, ok)
		assert.True(t, dst.LosersBracket, "match %s loser should enter the losers bracket", m.ID)
		if m.Progression.NextMatchID != nil && *m.Progression.NextMatchID == grandFinal.ID {
			wbFinal = m
		}
	}
	require.NotEmpty(t, wbFinal.ID, "no winners-bracket final links to the grand final")
	assert.Equal(t, 1, wbFinal.Progression.NextMatchPosition)

	// The losers bracket converges on a single champion who meets the
	// winners-bracket champion in the grand final.
	intoGF := 0
	for _, m := range losers {
		require.NotNil(t, m.Progression.NextMatchID, "losers match %s advances nowhere", m.ID)
		if *m.Progression.NextMatchID == grandFinal.ID {
			intoGF++
			assert.Equal(t, 2, m.Progression.NextMatchPosition)
		} else {
			assert.True(t, index[*m.Progression.NextMatchID].LosersBracket)
		}
	}
	assert.Equal(t, 1, intoGF)
}

func TestDoubleEliminationNonPowerOfTwoField(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	matches, err := DoubleElimination{}.GenerateBracket(tr, seededTeams(6), testConfig())
	require.NoError(t, err)

	index := make(map[string]models.Match, len(matches))
	for _, m := range matches {
		index[m.ID] = m
	}
	grandFinal := matches[len(matches)-1]

	for _, m := range matches[:len(matches)-1] {
		if m.LosersBracket {
			require.NotNil(t, m.Progression.NextMatchID)
			_, ok := index[*m.Progression.NextMatchID]
			assert.True(t, ok, "losers match %s advances to an unknown match", m.ID)
			continue
		}
		// Byes eliminate nobody, so they drop no loser.
		if m.IsBye {
			assert.Nil(t, m.Progression.LoserNextMatchID)
			continue
		}
		require.NotNil(t, m.Progression.LoserNextMatchID)
		dst, ok := index[*m.Progression.LoserNextMatchID]
		require.True(t, ok)
		assert.True(t, dst.LosersBracket || dst.ID == grandFinal.ID)
	}

	res := DoubleElimination{}.ValidateFormat(&models.Tournament{
		ID:      "t1",
		Teams:   seededTeams(6),
		Matches: matches,
	})
	assert.True(t, res.Valid, "generated bracket should validate: %v", res.Errors)
}

func TestDoubleEliminationValidateFormatFlagsThirdLoss(t *testing.T) {
	tr := &models.Tournament{ID: "t1", Teams: seededTeams(4)}
	loser := "team-4"
	winner := "team-1"
	for i := 0; i < 3; i++ {
		tr.Matches = append(tr.Matches, models.Match{
			ID:       string(rune('a' + i)),
			Team1ID:  &winner,
			Team2ID:  &loser,
			Status:   models.MatchStatusCompleted,
			WinnerID: &winner,
			LoserID:  &loser,
		})
	}

	res := DoubleElimination{}.ValidateFormat(tr)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "at most 2")
}

func TestDoubleEliminationTooFewTeams(t *testing.T) {
	tr := &models.Tournament{ID: "t1"}
	_, err := DoubleElimination{}.GenerateBracket(tr, seededTeams(3), testConfig())
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}
