package engine

import (
	"testing"
	"time"

	"github.com/brackethq/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courtFixture() *models.Tournament {
	return &models.Tournament{
		ID: "t1",
		Courts: []models.Court{
			{ID: "c1", Number: 1, Status: models.CourtAvailable},
			{ID: "c2", Number: 2, Status: models.CourtAvailable},
		},
		Matches: []models.Match{
			{ID: "m1", Team1ID: strPtr("a"), Team2ID: strPtr("b"), Status: models.MatchStatusScheduled},
			{ID: "m2", Team1ID: strPtr("c"), Team2ID: strPtr("d"), Status: models.MatchStatusScheduled},
			{ID: "m3", Team1ID: strPtr("e"), Team2ID: strPtr("f"), Status: models.MatchStatusScheduled},
		},
	}
}

func TestAssignCourt(t *testing.T) {
	tr := courtFixture()

	require.NoError(t, AssignCourt(tr, "m1", "c1"))

	court := tr.CourtByID("c1")
	match := tr.MatchByID("m1")
	assert.Equal(t, models.CourtInUse, court.Status)
	require.NotNil(t, court.CurrentMatchID)
	assert.Equal(t, "m1", *court.CurrentMatchID)
	require.NotNil(t, match.CourtNumber)
	assert.Equal(t, 1, *match.CourtNumber)
}

func TestAssignCourtReassignFreesOldCourt(t *testing.T) {
	tr := courtFixture()
	require.NoError(t, AssignCourt(tr, "m1", "c1"))
	require.NoError(t, AssignCourt(tr, "m1", "c2"))

	assert.Equal(t, models.CourtAvailable, tr.CourtByID("c1").Status)
	assert.Nil(t, tr.CourtByID("c1").CurrentMatchID)
	assert.Equal(t, models.CourtInUse, tr.CourtByID("c2").Status)
	assert.Equal(t, 2, *tr.MatchByID("m1").CourtNumber)
}

func TestAssignCourtErrors(t *testing.T) {
	tr := courtFixture()

	assert.ErrorIs(t, AssignCourt(tr, "missing", "c1"), ErrMatchNotFound)
	assert.ErrorIs(t, AssignCourt(tr, "m1", "missing"), ErrCourtNotFound)

	tr.Courts[0].Status = models.CourtMaintenance
	assert.ErrorIs(t, AssignCourt(tr, "m1", "c1"), ErrCourtNotAvailable)
}

func TestFreeCourtIsIdempotent(t *testing.T) {
	tr := courtFixture()
	require.NoError(t, AssignCourt(tr, "m1", "c1"))

	FreeCourt(tr, 1)
	FreeCourt(tr, 1)
	FreeCourt(tr, 99)

	court := tr.CourtByNumber(1)
	assert.Equal(t, models.CourtAvailable, court.Status)
	assert.Nil(t, court.CurrentMatchID)
}

func TestAutoAssignCourtsEarliestFirst(t *testing.T) {
	tr := courtFixture()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)
	tr.Matches[0].ScheduledTime = &later // m1 plays second
	tr.Matches[1].ScheduledTime = &base  // m2 plays first
	// m3 has no scheduled time and sorts last.

	assigned := AutoAssignCourts(tr)
	assert.Equal(t, 2, assigned)

	assert.Equal(t, 1, *tr.MatchByID("m2").CourtNumber)
	assert.Equal(t, 2, *tr.MatchByID("m1").CourtNumber)
	assert.Nil(t, tr.MatchByID("m3").CourtNumber)
	assert.Equal(t, models.CourtInUse, tr.CourtByNumber(1).Status)
	assert.Equal(t, models.CourtInUse, tr.CourtByNumber(2).Status)
}

func TestAutoAssignCourtsSkipsIneligibleMatches(t *testing.T) {
	tr := courtFixture()
	tr.Matches[0].Status = models.MatchStatusCompleted
	tr.Matches[1].IsBye = true
	tr.Matches[2].Team2ID = nil

	assert.Equal(t, 0, AutoAssignCourts(tr))
}

func TestAutoAssignCourtsDeterministicWithoutTimes(t *testing.T) {
	tr := courtFixture()
	tr.Courts = tr.Courts[:1]

	assert.Equal(t, 1, AutoAssignCourts(tr))
	// Ties break on match ID, so the single court goes to m1.
	assert.Equal(t, 1, *tr.MatchByID("m1").CourtNumber)
}

func TestReleaseMatchCourtReassignsWhenAutoAssignEnabled(t *testing.T) {
	tr := courtFixture()
	tr.AutoAssignCourts = true
	tr.Courts = tr.Courts[:1]
	require.NoError(t, AssignCourt(tr, "m1", "c1"))

	m1 := tr.MatchByID("m1")
	m1.Status = models.MatchStatusCompleted
	ReleaseMatchCourt(tr, m1)

	assert.Nil(t, m1.CourtNumber)
	// The freed court goes straight to the next waiting match.
	assert.Equal(t, 1, *tr.MatchByID("m2").CourtNumber)
	require.NotNil(t, tr.CourtByID("c1").CurrentMatchID)
	assert.Equal(t, "m2", *tr.CourtByID("c1").CurrentMatchID)
}

func TestReleaseMatchCourtWithoutCourtIsNoop(t *testing.T) {
	tr := courtFixture()
	ReleaseMatchCourt(tr, tr.MatchByID("m1"))
	assert.Equal(t, models.CourtAvailable, tr.CourtByID("c1").Status)
}
