package engine

import (
	"testing"

	"github.com/brackethq/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedMatch(id, winner, loser string) models.Match {
	w, l := winner, loser
	return models.Match{
		ID:       id,
		Team1ID:  &w,
		Team2ID:  &l,
		Status:   models.MatchStatusCompleted,
		WinnerID: &w,
		LoserID:  &l,
	}
}

func TestApplyProgressionExplicitSlot(t *testing.T) {
	src := completedMatch("m1", "winner", "loser")
	src.Progression = models.Progression{NextMatchID: strPtr("m2"), NextMatchPosition: 2}
	tr := &models.Tournament{Matches: []models.Match{src, {ID: "m2"}}}

	require.NoError(t, ApplyProgression(tr, "m1"))

	next := tr.MatchByID("m2")
	assert.Nil(t, next.Team1ID)
	require.NotNil(t, next.Team2ID)
	assert.Equal(t, "winner", *next.Team2ID)
}

func TestApplyProgressionParityFallback(t *testing.T) {
	// Without an explicit slot the winner lands by bracket-position parity:
	// odd positions feed slot 1, even positions slot 2.
	odd := completedMatch("m1", "w1", "l1")
	odd.Progression = models.Progression{NextMatchID: strPtr("m3"), BracketPosition: 1}
	even := completedMatch("m2", "w2", "l2")
	even.Progression = models.Progression{NextMatchID: strPtr("m3"), BracketPosition: 2}
	tr := &models.Tournament{Matches: []models.Match{odd, even, {ID: "m3"}}}

	require.NoError(t, ApplyProgression(tr, "m1"))
	require.NoError(t, ApplyProgression(tr, "m2"))

	next := tr.MatchByID("m3")
	require.NotNil(t, next.Team1ID)
	require.NotNil(t, next.Team2ID)
	assert.Equal(t, "w1", *next.Team1ID)
	assert.Equal(t, "w2", *next.Team2ID)
}

func TestApplyProgressionLoserRouting(t *testing.T) {
	src := completedMatch("m1", "winner", "loser")
	src.Progression = models.Progression{
		NextMatchID:       strPtr("m2"),
		NextMatchPosition: 1,
		LoserNextMatchID:  strPtr("lb1"),
	}
	tr := &models.Tournament{Matches: []models.Match{src, {ID: "m2"}, {ID: "lb1"}}}

	require.NoError(t, ApplyProgression(tr, "m1"))

	lb := tr.MatchByID("lb1")
	require.NotNil(t, lb.Team1ID)
	assert.Equal(t, "loser", *lb.Team1ID)
}

func TestApplyProgressionLosersBracketArrivalOrder(t *testing.T) {
	first := completedMatch("lb1", "wa", "la")
	first.LosersBracket = true
	first.Progression = models.Progression{NextMatchID: strPtr("lb3")}
	second := completedMatch("lb2", "wb", "lb")
	second.LosersBracket = true
	second.Progression = models.Progression{NextMatchID: strPtr("lb3")}
	tr := &models.Tournament{Matches: []models.Match{first, second, {ID: "lb3", LosersBracket: true}}}

	require.NoError(t, ApplyProgression(tr, "lb2"))
	require.NoError(t, ApplyProgression(tr, "lb1"))

	next := tr.MatchByID("lb3")
	require.NotNil(t, next.Team1ID)
	require.NotNil(t, next.Team2ID)
	assert.Equal(t, "wb", *next.Team1ID)
	assert.Equal(t, "wa", *next.Team2ID)
}

func TestApplyProgressionErrors(t *testing.T) {
	tr := &models.Tournament{Matches: []models.Match{{ID: "m1", Status: models.MatchStatusScheduled}}}

	assert.ErrorIs(t, ApplyProgression(tr, "missing"), ErrMatchNotFound)
	assert.Error(t, ApplyProgression(tr, "m1"))

	done := completedMatch("m2", "w", "l")
	done.Progression = models.Progression{NextMatchID: strPtr("ghost")}
	tr.Matches = append(tr.Matches, done)
	assert.ErrorIs(t, ApplyProgression(tr, "m2"), ErrMatchNotFound)
}
