package stages

import (
	"testing"

	"github.com/brackethq/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamsWithSeeds(n int) []models.Team {
	teams := make([]models.Team, n)
	for i := 0; i < n; i++ {
		seed := i + 1
		teams[i] = models.Team{ID: string(rune('a' + i)), Name: string(rune('a' + i)), Seed: &seed}
	}
	return teams
}

func TestNextStagePerFormat(t *testing.T) {
	paths := map[models.TournamentFormat][]models.TournamentStage{
		models.FormatSingleElimination: {
			models.StageRegistration, models.StageSeeding,
			models.StageEliminationRound, models.StageFinals, models.StageCompleted,
		},
		models.FormatDoubleElimination: {
			models.StageRegistration, models.StageSeeding,
			models.StageEliminationRound, models.StageFinals, models.StageCompleted,
		},
		models.FormatRoundRobin: {
			models.StageRegistration, models.StageSeeding, models.StageGroupStage,
			models.StageFinals, models.StageCompleted,
		},
		models.FormatSwiss: {
			models.StageRegistration, models.StageSeeding, models.StageGroupStage,
			models.StageFinals, models.StageCompleted,
		},
		models.FormatGroupKnockout: {
			models.StageRegistration, models.StageSeeding, models.StageGroupStage,
			models.StageEliminationRound, models.StageFinals, models.StageCompleted,
		},
		models.FormatMultiStage: {
			models.StageRegistration, models.StageSeeding, models.StageGroupStage,
			models.StageEliminationRound, models.StageFinals, models.StageCompleted,
		},
	}

	for format, path := range paths {
		tr := &models.Tournament{Format: format}
		for i := 0; i+1 < len(path); i++ {
			tr.CurrentStage = path[i]
			next, err := NextStage(tr)
			require.NoError(t, err, "%s from %s", format, path[i])
			assert.Equal(t, path[i+1], next, "%s from %s", format, path[i])
		}
	}
}

func TestNextStageTerminalAndUnknown(t *testing.T) {
	tr := &models.Tournament{Format: models.FormatRoundRobin, CurrentStage: models.StageCompleted}
	_, err := NextStage(tr)
	assert.ErrorIs(t, err, ErrNoNextStage)

	tr.CurrentStage = models.TournamentStage("halftime")
	_, err = NextStage(tr)
	assert.ErrorIs(t, err, ErrStageUnknown)
}

func TestValidateTransitionRejectsSkippedStage(t *testing.T) {
	tr := &models.Tournament{
		Format:       models.FormatSingleElimination,
		CurrentStage: models.StageRegistration,
		Teams:        teamsWithSeeds(4),
	}

	res := ValidateTransition(tr, models.StageFinals)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "next stage is seeding")
}

func TestValidateTransitionSeedChecks(t *testing.T) {
	tr := &models.Tournament{
		Format:       models.FormatSingleElimination,
		CurrentStage: models.StageSeeding,
		Teams:        teamsWithSeeds(4),
	}

	res := ValidateTransition(tr, models.StageEliminationRound)
	assert.True(t, res.Valid, "seeded roster should pass: %v", res.Errors)

	tr.Teams[2].Seed = nil
	res = ValidateTransition(tr, models.StageEliminationRound)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "has no seed")

	// Duplicate seeds in the same pairing group are an error.
	dup := 1
	tr.Teams[2].Seed = &dup
	res = ValidateTransition(tr, models.StageEliminationRound)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "share seed 1")

	// The same seed in a different group is fine.
	tr.Teams[2].Group = "B"
	res = ValidateTransition(tr, models.StageEliminationRound)
	assert.True(t, res.Valid, "%v", res.Errors)
}

func TestValidateTransitionMinTeams(t *testing.T) {
	tr := &models.Tournament{
		Format:       models.FormatRoundRobin,
		CurrentStage: models.StageSeeding,
		Teams:        teamsWithSeeds(2),
	}

	res := ValidateTransition(tr, models.StageGroupStage)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "at least 3 teams")
}

func TestIsStageComplete(t *testing.T) {
	tr := &models.Tournament{
		Matches: []models.Match{
			{ID: "m1", Stage: models.StageGroupStage, Status: models.MatchStatusCompleted},
			{ID: "m2", Stage: models.StageGroupStage, Status: models.MatchStatusCancelled},
			{ID: "m3", Stage: models.StageFinals, Status: models.MatchStatusScheduled},
		},
	}

	// Cancelled matches do not block leaving a stage.
	assert.True(t, IsStageComplete(tr, models.StageGroupStage))
	assert.False(t, IsStageComplete(tr, models.StageFinals))
	// A stage with no matches at all counts as complete.
	assert.True(t, IsStageComplete(tr, models.StageEliminationRound))
}

func TestEnsureSeeds(t *testing.T) {
	tr := &models.Tournament{Teams: []models.Team{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	EnsureSeeds(tr)
	for i, team := range tr.Teams {
		require.NotNil(t, team.Seed)
		assert.Equal(t, i+1, *team.Seed)
	}

	// A partially seeded roster is left untouched for validation to flag.
	partial := &models.Tournament{Teams: []models.Team{{ID: "a"}, {ID: "b"}}}
	seed := 5
	partial.Teams[1].Seed = &seed
	EnsureSeeds(partial)
	assert.Nil(t, partial.Teams[0].Seed)
	assert.Equal(t, 5, *partial.Teams[1].Seed)
}
