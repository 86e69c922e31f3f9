package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentCloneIsIndependent(t *testing.T) {
	teamID := "team-1"
	matchID := "m1"
	courtNum := 1
	original := &Tournament{
		ID:     "t1",
		Name:   "Spring Open",
		Format: FormatSingleElimination,
		Teams: []Team{
			{ID: "team-1", Name: "Alpha", Players: []Player{{ID: "p1", Name: "Sam"}}},
			{ID: "team-2", Name: "Beta"},
		},
		Matches: []Match{{
			ID:          "m1",
			Team1ID:     &teamID,
			CourtNumber: &courtNum,
			Scores:      []SetScore{{Team1Score: 21, Team2Score: 15}},
			Progression: Progression{NextMatchID: &matchID},
		}},
		Courts:     []Court{{ID: "c1", Number: 1, Status: CourtInUse, CurrentMatchID: &matchID}},
		Categories: []Category{{ID: "cat1", Name: "Open"}},
		CreatedAt:  time.Now(),
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Teams[0].Name = "Changed"
	clone.Teams[0].Players[0].Name = "Changed"
	*clone.Matches[0].Team1ID = "changed"
	clone.Matches[0].Scores[0].Team1Score = 0
	*clone.Matches[0].Progression.NextMatchID = "changed"
	*clone.Courts[0].CurrentMatchID = "changed"
	clone.Categories[0].Name = "Changed"

	assert.Equal(t, "Alpha", original.Teams[0].Name)
	assert.Equal(t, "Sam", original.Teams[0].Players[0].Name)
	assert.Equal(t, "team-1", *original.Matches[0].Team1ID)
	assert.Equal(t, 21, original.Matches[0].Scores[0].Team1Score)
	assert.Equal(t, "m1", *original.Matches[0].Progression.NextMatchID)
	assert.Equal(t, "m1", *original.Courts[0].CurrentMatchID)
	assert.Equal(t, "Open", original.Categories[0].Name)
}

func TestLookupHelpers(t *testing.T) {
	tr := &Tournament{
		Teams:   []Team{{ID: "team-1"}},
		Matches: []Match{{ID: "m1", Stage: StageFinals}, {ID: "m2", Stage: StageGroupStage}},
		Courts:  []Court{{ID: "c1", Number: 3}},
	}

	require.NotNil(t, tr.MatchByID("m1"))
	assert.Nil(t, tr.MatchByID("nope"))
	require.NotNil(t, tr.TeamByID("team-1"))
	assert.Nil(t, tr.TeamByID("nope"))
	require.NotNil(t, tr.CourtByID("c1"))
	assert.Equal(t, "c1", tr.CourtByNumber(3).ID)
	assert.Nil(t, tr.CourtByNumber(4))

	finals := tr.MatchesInStage(StageFinals)
	require.Len(t, finals, 1)
	assert.Equal(t, "m1", finals[0].ID)

	// Lookups return pointers into the aggregate, so edits stick.
	tr.MatchByID("m1").Status = MatchStatusCompleted
	assert.Equal(t, MatchStatusCompleted, tr.Matches[0].Status)
}

func TestWinnerSlot(t *testing.T) {
	explicit := &Match{Progression: Progression{NextMatchPosition: 2, BracketPosition: 1}}
	assert.Equal(t, 2, explicit.WinnerSlot())

	odd := &Match{Progression: Progression{BracketPosition: 3}}
	assert.Equal(t, 1, odd.WinnerSlot())

	even := &Match{Progression: Progression{BracketPosition: 4}}
	assert.Equal(t, 2, even.WinnerSlot())
}
