package stages

import (
	"errors"
	"fmt"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
)

var (
	ErrNoNextStage     = errors.New("tournament has no further stage")
	ErrStageUnknown    = errors.New("unknown tournament stage")
	ErrStageOrder      = errors.New("stage transition is not allowed")
	ErrStageIncomplete = errors.New("current stage has unfinished matches")
)

// Requirements gate entry into a stage.
type Requirements struct {
	MinTeams        int
	MaxTeams        int // 0 means unlimited
	RequiresSeeding bool
}

var stageRequirements = map[models.TournamentStage]Requirements{
	models.StageRegistration:     {},
	models.StageSeeding:          {MinTeams: 2},
	models.StageGroupStage:       {MinTeams: 3},
	models.StageEliminationRound: {MinTeams: 2, RequiresSeeding: true},
	models.StageFinals:           {MinTeams: 2},
	models.StageCompleted:        {},
}

// RequirementsFor returns the entry requirements of a stage.
func RequirementsFor(stage models.TournamentStage) (Requirements, error) {
	req, ok := stageRequirements[stage]
	if !ok {
		return Requirements{}, fmt.Errorf("%w: %q", ErrStageUnknown, stage)
	}
	return req, nil
}

// usesGroupPhase reports whether a format opens with a pool/league phase.
func usesGroupPhase(format models.TournamentFormat) bool {
	switch format {
	case models.FormatRoundRobin, models.FormatSwiss, models.FormatGroupKnockout, models.FormatMultiStage:
		return true
	default:
		return false
	}
}

// usesEliminationRound reports whether a format plays a knockout phase
// before the finals. Pure league formats jump straight from group play to
// the finals.
func usesEliminationRound(format models.TournamentFormat) bool {
	switch format {
	case models.FormatRoundRobin, models.FormatSwiss:
		return false
	default:
		return true
	}
}

// NextStage is the stage-transition graph: a pure function of the current
// stage and the tournament's format. Stages only ever move forward.
func NextStage(t *models.Tournament) (models.TournamentStage, error) {
	switch t.CurrentStage {
	case models.StageRegistration:
		return models.StageSeeding, nil
	case models.StageSeeding:
		if usesGroupPhase(t.Format) {
			return models.StageGroupStage, nil
		}
		return models.StageEliminationRound, nil
	case models.StageGroupStage:
		if usesEliminationRound(t.Format) {
			return models.StageEliminationRound, nil
		}
		return models.StageFinals, nil
	case models.StageEliminationRound:
		return models.StageFinals, nil
	case models.StageFinals:
		return models.StageCompleted, nil
	case models.StageCompleted:
		return "", ErrNoNextStage
	default:
		return "", fmt.Errorf("%w: %q", ErrStageUnknown, t.CurrentStage)
	}
}

// ValidateTransition checks a requested transition: it must be the graph's
// next stage, and the target's requirements must hold.
func ValidateTransition(t *models.Tournament, next models.TournamentStage) engine.ValidationResult {
	res := engine.OKResult()

	expected, err := NextStage(t)
	if err != nil {
		res.Add(err.Error())
		return res
	}
	if next != expected {
		res.Add(fmt.Sprintf("cannot move from %s to %s; next stage is %s", t.CurrentStage, next, expected))
		return res
	}

	req, err := RequirementsFor(next)
	if err != nil {
		res.Add(err.Error())
		return res
	}
	if req.MinTeams > 0 && len(t.Teams) < req.MinTeams {
		res.Add(fmt.Sprintf("stage %s requires at least %d teams, have %d", next, req.MinTeams, len(t.Teams)))
	}
	if req.MaxTeams > 0 && len(t.Teams) > req.MaxTeams {
		res.Add(fmt.Sprintf("stage %s allows at most %d teams, have %d", next, req.MaxTeams, len(t.Teams)))
	}
	if req.RequiresSeeding {
		seeds := make(map[int]string, len(t.Teams))
		for _, team := range t.Teams {
			if team.SeedValue() <= 0 {
				res.Add(fmt.Sprintf("stage %s requires seeding: team %s has no seed", next, team.ID))
				continue
			}
			key := team.SeedValue()
			if other, dup := seeds[key]; dup && sameSeedScope(t, other, team.ID) {
				res.Add(fmt.Sprintf("teams %s and %s share seed %d", other, team.ID, key))
			}
			seeds[key] = team.ID
		}
	}
	return res
}

// sameSeedScope reports whether two teams compete in the same pairing group,
// where duplicate seeds are an error. Teams in different groups or divisions
// may legitimately reuse seed numbers.
func sameSeedScope(t *models.Tournament, aID, bID string) bool {
	a, b := t.TeamByID(aID), t.TeamByID(bID)
	if a == nil || b == nil {
		return true
	}
	return a.Group == b.Group && a.Division == b.Division
}

// IsStageComplete reports whether a stage can be left behind: it has no
// matches at all, or every match in it is completed.
func IsStageComplete(t *models.Tournament, stage models.TournamentStage) bool {
	for _, m := range t.Matches {
		if m.Stage != stage {
			continue
		}
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCancelled {
			return false
		}
	}
	return true
}
