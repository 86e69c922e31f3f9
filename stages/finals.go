package stages

import (
	"fmt"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/models"
)

// Finals closes the tournament. Bracket formats already carry their final
// into this stage, so generation is a no-op for them; league formats get a
// championship match (and optional third-place match) built from the top of
// the standings. Multi-stage runs its per-division playoffs here.
type Finals struct{}

func (Finals) Stage() models.TournamentStage { return models.StageFinals }

func (Finals) Generate(t *models.Tournament, cfg brackets.GenerateConfig) ([]models.Match, error) {
	cfg.Stage = models.StageFinals

	if t.Format == models.FormatMultiStage {
		ms := brackets.MultiStage{}
		if err := ms.AssignDivisions(t); err != nil {
			return nil, fmt.Errorf("finals generation: %w", err)
		}
		return ms.GeneratePlayoffs(t, cfg)
	}

	if len(t.MatchesInStage(models.StageFinals)) > 0 {
		// The elimination bracket already placed its final here.
		return nil, nil
	}

	handler, err := brackets.Resolve(t.Format)
	if err != nil {
		return nil, err
	}
	standings := handler.CalculateStandings(t)

	qualified := 2
	if cfg.ThirdPlaceMatch {
		qualified = 4
	}
	if len(standings) < 2 {
		return nil, fmt.Errorf("%w: finals need at least 2 qualified teams", brackets.ErrNotEnoughTeams)
	}
	if qualified > len(standings) {
		qualified = len(standings)
	}

	gen := cfg.IDGenOrDefault()

	matches := make([]models.Match, 0, 2)
	first, second := standings[0].TeamID, standings[1].TeamID
	matches = append(matches, models.Match{
		ID:           gen.NewID(),
		TournamentID: t.ID,
		Team1ID:      &first,
		Team2ID:      &second,
		Stage:        models.StageFinals,
		Category:     cfg.Category,
		Status:       models.MatchStatusScheduled,
		Progression:  models.Progression{Round: 1, BracketPosition: 1},
	})

	if cfg.ThirdPlaceMatch && qualified >= 4 {
		third, fourth := standings[2].TeamID, standings[3].TeamID
		matches = append(matches, models.Match{
			ID:           gen.NewID(),
			TournamentID: t.ID,
			Team1ID:      &third,
			Team2ID:      &fourth,
			Stage:        models.StageFinals,
			Category:     cfg.Category,
			Status:       models.MatchStatusScheduled,
			ThirdPlace:   true,
			Progression:  models.Progression{Round: 1, BracketPosition: 2},
		})
	}
	return matches, nil
}
