package stages

import (
	"fmt"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/models"
)

// Elimination generates the knockout phase. The bracket's last round (the
// final, the grand final for double elimination, and any third-place match)
// is stamped with the finals stage so the stage machine hands it to the
// finals phase instead of finishing it here.
type Elimination struct{}

func (Elimination) Stage() models.TournamentStage { return models.StageEliminationRound }

func (Elimination) Generate(t *models.Tournament, cfg brackets.GenerateConfig) ([]models.Match, error) {
	handler, err := brackets.Resolve(t.Format)
	if err != nil {
		return nil, err
	}
	cfg.Stage = models.StageEliminationRound

	var matches []models.Match
	switch t.Format {
	case models.FormatMultiStage:
		ms := brackets.MultiStage{}
		matches, err = ms.GeneratePlacement(t, cfg)
	case models.FormatGroupKnockout:
		gk := brackets.GroupKnockout{}
		advancing := gk.AdvancingTeams(t, cfg.TeamsAdvancing)
		if len(advancing) < 2 {
			return nil, fmt.Errorf("%w: only %d teams advanced from groups", brackets.ErrNotEnoughTeams, len(advancing))
		}
		// Elimination seeds come from group placement; write them back so
		// the roster reflects the knockout field.
		for _, adv := range advancing {
			if team := t.TeamByID(adv.ID); team != nil {
				team.Seed = adv.Seed
			}
		}
		matches, err = gk.GenerateBracket(t, advancing, cfg)
	default:
		minTeams := handler.MinTeams()
		if len(t.Teams) < minTeams {
			return nil, fmt.Errorf("%w: %s needs %d teams", brackets.ErrNotEnoughTeams, t.Format, minTeams)
		}
		matches, err = handler.GenerateBracket(t, t.Teams, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("elimination stage generation: %w", err)
	}

	if t.Format != models.FormatMultiStage {
		promoteFinalRound(matches)
	}
	return matches, nil
}

// promoteFinalRound moves the top-round matches of a bracket into the finals
// stage.
func promoteFinalRound(matches []models.Match) {
	maxRound := 0
	for _, m := range matches {
		if !m.LosersBracket && m.Progression.Round > maxRound {
			maxRound = m.Progression.Round
		}
	}
	for i := range matches {
		if matches[i].LosersBracket {
			continue
		}
		if matches[i].Progression.Round == maxRound || matches[i].ThirdPlace {
			matches[i].Stage = models.StageFinals
		}
	}
}

// EnsureSeeds assigns registration-order seeds when the roster has none at
// all, so formats that never ran an explicit seeding step can still enter
// seeding-dependent stages. Partially seeded rosters are left alone for
// validation to flag.
func EnsureSeeds(t *models.Tournament) {
	for _, team := range t.Teams {
		if team.SeedValue() > 0 {
			return
		}
	}
	for i := range t.Teams {
		seed := i + 1
		t.Teams[i].Seed = &seed
	}
}
