package brackets

import (
	"fmt"
	"math/rand"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
)

// Swiss pairs teams of similar cumulative score each round without ever
// repeating a pairing. Round 1 follows seed order, or a random draw when
// Shuffle is set; later rounds scan the score-sorted list and backtrack
// when the tail cannot be paired.
type Swiss struct{}

func (Swiss) Format() models.TournamentFormat { return models.FormatSwiss }
func (Swiss) MinTeams() int                   { return 4 }

func (Swiss) Describe() string {
	return "Swiss system. Each round pairs teams on similar records, never " +
		"repeating a matchup; no team is eliminated before the last round."
}

func (h Swiss) GenerateMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, h.MinTeams(), h.Format()); err != nil {
		return nil, err
	}
	gen := cfg.IDGenOrDefault()
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageGroupStage
	}

	ordered := seedSorted(teams, cfg.Seeded)
	if cfg.Shuffle {
		rand.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}
	matches := make([]models.Match, 0, len(ordered)/2+1)
	pos := 1
	paired := ordered
	if len(paired)%2 != 0 {
		// Odd field: the bottom of the order sits out round 1.
		bye := paired[len(paired)-1]
		paired = paired[:len(paired)-1]
		matches = append(matches, byeMatch(t, gen.NewID(), bye.ID, stage, cfg.Category, 1, len(paired)/2+1))
	}
	for i := 0; i+1 < len(paired); i += 2 {
		id1, id2 := paired[i].ID, paired[i+1].ID
		matches = append(matches, models.Match{
			ID:           gen.NewID(),
			TournamentID: t.ID,
			Team1ID:      &id1,
			Team2ID:      &id2,
			Stage:        stage,
			Category:     cfg.Category,
			Status:       models.MatchStatusScheduled,
			Progression:  models.Progression{Round: 1, BracketPosition: pos},
		})
		pos++
	}
	return matches, nil
}

func (h Swiss) GenerateBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	return h.GenerateMatches(t, teams, cfg)
}

// NextRoundMatches pairs the next Swiss round from cumulative results. Every
// match of the current round must be completed first.
func (h Swiss) NextRoundMatches(t *models.Tournament, matches []models.Match, currentRound int, cfg GenerateConfig) ([]models.Match, error) {
	for _, m := range matches {
		if m.Progression.Round == currentRound && m.Status != models.MatchStatusCompleted {
			return nil, fmt.Errorf("cannot pair round %d: match %s is not completed", currentRound+1, m.ID)
		}
	}

	gen := cfg.IDGenOrDefault()
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageGroupStage
	}

	rows := sortLeagueStandings(t, accumulateTable(t, t.Teams, nil))
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		order = append(order, r.TeamID)
	}

	played := opponentSets(matches)
	out := make([]models.Match, 0, len(order)/2+1)
	pos := 1

	if len(order)%2 != 0 {
		// Bye to the lowest-ranked team that has not already had one.
		byeIdx := len(order) - 1
		for i := len(order) - 1; i >= 0; i-- {
			if !played[order[i]]["__bye__"] {
				byeIdx = i
				break
			}
		}
		byeTeam := order[byeIdx]
		order = append(order[:byeIdx], order[byeIdx+1:]...)
		out = append(out, byeMatch(t, gen.NewID(), byeTeam, stage, cfg.Category, currentRound+1, len(order)/2+1))
	}

	pairing, ok := pairAvoidingRematches(order, played)
	if !ok {
		return nil, fmt.Errorf("no rematch-free pairing exists for round %d", currentRound+1)
	}
	for i := 0; i+1 < len(pairing); i += 2 {
		id1, id2 := pairing[i], pairing[i+1]
		out = append(out, models.Match{
			ID:           gen.NewID(),
			TournamentID: t.ID,
			Team1ID:      &id1,
			Team2ID:      &id2,
			Stage:        stage,
			Category:     cfg.Category,
			Status:       models.MatchStatusScheduled,
			Progression:  models.Progression{Round: currentRound + 1, BracketPosition: pos},
		})
		pos++
	}
	return out, nil
}

// pairAvoidingRematches greedily pairs the head of the score-sorted list
// with the nearest opponent it has not faced, recursing on the remainder and
// backtracking when the tail jams.
func pairAvoidingRematches(order []string, played map[string]map[string]bool) ([]string, bool) {
	if len(order) < 2 {
		return order, true
	}
	first := order[0]
	for i := 1; i < len(order); i++ {
		if played[first][order[i]] {
			continue
		}
		rest := make([]string, 0, len(order)-2)
		rest = append(rest, order[1:i]...)
		rest = append(rest, order[i+1:]...)
		if tail, ok := pairAvoidingRematches(rest, played); ok {
			return append([]string{first, order[i]}, tail...), true
		}
	}
	return nil, false
}

// opponentSets indexes who already played whom; a bye is recorded under the
// sentinel "__bye__" opponent.
func opponentSets(matches []models.Match) map[string]map[string]bool {
	played := make(map[string]map[string]bool)
	note := func(a, b string) {
		if played[a] == nil {
			played[a] = make(map[string]bool)
		}
		played[a][b] = true
	}
	for _, m := range matches {
		if m.IsBye && m.Team1ID != nil {
			note(*m.Team1ID, "__bye__")
			continue
		}
		if m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		note(*m.Team1ID, *m.Team2ID)
		note(*m.Team2ID, *m.Team1ID)
	}
	return played
}

func byeMatch(t *models.Tournament, id, teamID string, stage models.TournamentStage, category string, round, pos int) models.Match {
	tid := teamID
	return models.Match{
		ID:           id,
		TournamentID: t.ID,
		Team1ID:      &tid,
		Stage:        stage,
		Category:     category,
		Status:       models.MatchStatusCompleted,
		IsBye:        true,
		WinnerID:     &tid,
		Progression:  models.Progression{Round: round, BracketPosition: pos},
	}
}

func (h Swiss) ValidateFormat(t *models.Tournament) engine.ValidationResult {
	res := engine.OKResult()
	if len(t.Teams) < h.MinTeams() {
		res.Add(fmt.Sprintf("swiss requires at least %d teams", h.MinTeams()))
	}
	seen := make(map[string]string)
	for _, m := range t.Matches {
		if m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		a, b := *m.Team1ID, *m.Team2ID
		if b < a {
			a, b = b, a
		}
		key := a + "|" + b
		if prev, ok := seen[key]; ok {
			res.Add(fmt.Sprintf("matches %s and %s repeat a swiss pairing", prev, m.ID))
			continue
		}
		seen[key] = m.ID
	}
	return res
}

func (Swiss) ValidateScore(match *models.Match, scores []models.SetScore, settings models.ScoringSettings) error {
	return engine.ValidateScore(scores, settings)
}

func (Swiss) CalculateStandings(t *models.Tournament) []models.Standing {
	rows := accumulateTable(t, t.Teams, nil)
	return sortLeagueStandings(t, rows)
}
