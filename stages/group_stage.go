package stages

import (
	"fmt"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/models"
)

// GroupStage opens tournament play: a league schedule for round-robin and
// swiss formats, snake-seeded groups for group+knockout, the initial sorting
// round for multi-stage.
type GroupStage struct{}

func (GroupStage) Stage() models.TournamentStage { return models.StageGroupStage }

func (GroupStage) Generate(t *models.Tournament, cfg brackets.GenerateConfig) ([]models.Match, error) {
	handler, err := brackets.Resolve(t.Format)
	if err != nil {
		return nil, err
	}
	cfg.Stage = models.StageGroupStage

	if t.Format == models.FormatGroupKnockout {
		// Stamp group assignments onto the roster before generating so
		// later stages (standings, advancement) see them.
		groups := brackets.SplitGroups(t.Teams, cfg.GroupCount, cfg.Seeded)
		for name, members := range groups {
			for _, member := range members {
				if team := t.TeamByID(member.ID); team != nil {
					team.Group = name
				}
			}
		}
	}

	matches, err := handler.GenerateMatches(t, t.Teams, cfg)
	if err != nil {
		return nil, fmt.Errorf("group stage generation: %w", err)
	}
	return matches, nil
}
