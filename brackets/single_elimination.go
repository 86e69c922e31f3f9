package brackets

import (
	"fmt"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
)

// seedPair is a first-round matchup expressed as 0-based slot indices into
// the seed-ordered team list.
type seedPair struct {
	a, b int
}

// arrangeSeedPairs places seeds so the top 2 can only meet in the final, the
// top 4 in the semifinals, and so on. Slot indices past the real team count
// become byes, which lands every bye on a top seed.
func arrangeSeedPairs(rounds int) []seedPair {
	pairs := []seedPair{{0, 1}}
	total := 2
	for r := 1; r < rounds; r++ {
		next := make([]seedPair, 0, total)
		total *= 2
		for _, parent := range pairs {
			next = append(next,
				seedPair{parent.a, total - 1 - parent.a},
				seedPair{parent.b, total - 1 - parent.b},
			)
		}
		pairs = next
	}
	return pairs
}

// buildEliminationBracket constructs a full single-elimination tree: first
// round from seed arrangement, placeholder rounds down to the final, byes
// pre-resolved, and progression links wired with explicit slots.
func buildEliminationBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	n := len(teams)
	if n < 2 {
		return nil, requireTeams(teams, 2, models.FormatSingleElimination)
	}

	gen := cfg.IDGenOrDefault()
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageEliminationRound
	}

	ordered := seedSorted(teams, cfg.Seeded)
	bracketSize := nextPowerOfTwo(n)
	rounds := numRounds(bracketSize)
	pairs := arrangeSeedPairs(rounds)

	// Round index -> matches in that round.
	byRound := make([][]models.Match, rounds)

	for i, p := range pairs {
		m := models.Match{
			ID:           gen.NewID(),
			TournamentID: t.ID,
			Stage:        stage,
			Status:       models.MatchStatusScheduled,
			Category:     cfg.Category,
			Progression:  models.Progression{Round: 1, BracketPosition: i + 1},
		}
		if p.a < n {
			id := ordered[p.a].ID
			m.Team1ID = &id
		}
		if p.b < n {
			id := ordered[p.b].ID
			m.Team2ID = &id
		}
		if m.Team2ID == nil {
			// Bye: the present side advances without playing.
			m.IsBye = true
			m.Status = models.MatchStatusCompleted
			m.WinnerID = m.Team1ID
		}
		byRound[0] = append(byRound[0], m)
	}

	for r := 1; r < rounds; r++ {
		count := len(byRound[r-1]) / 2
		for i := 0; i < count; i++ {
			byRound[r] = append(byRound[r], models.Match{
				ID:           gen.NewID(),
				TournamentID: t.ID,
				Stage:        stage,
				Status:       models.MatchStatusScheduled,
				Category:     cfg.Category,
				Progression:  models.Progression{Round: r + 1, BracketPosition: i + 1},
			})
		}
	}

	// Wire winner links and carry bye winners forward.
	for r := 0; r < rounds-1; r++ {
		for i := range byRound[r] {
			src := &byRound[r][i]
			dst := &byRound[r+1][i/2]
			src.Progression.NextMatchID = &dst.ID
			src.Progression.NextMatchPosition = i%2 + 1
			if src.IsBye && src.WinnerID != nil {
				if i%2 == 0 {
					dst.Team1ID = src.WinnerID
				} else {
					dst.Team2ID = src.WinnerID
				}
			}
		}
	}

	matches := make([]models.Match, 0, bracketSize-1)
	for r := range byRound {
		matches = append(matches, byRound[r]...)
	}

	if cfg.ThirdPlaceMatch && rounds >= 2 {
		third := models.Match{
			ID:           gen.NewID(),
			TournamentID: t.ID,
			Stage:        stage,
			Status:       models.MatchStatusScheduled,
			Category:     cfg.Category,
			ThirdPlace:   true,
			Progression:  models.Progression{Round: rounds, BracketPosition: 2},
		}
		// Semifinal losers meet for third place.
		semiRound := rounds - 2
		for i := range byRound[semiRound] {
			idx := indexOfMatch(matches, byRound[semiRound][i].ID)
			matches[idx].Progression.LoserNextMatchID = &third.ID
		}
		matches = append(matches, third)
	}

	return matches, nil
}

func indexOfMatch(matches []models.Match, id string) int {
	for i := range matches {
		if matches[i].ID == id {
			return i
		}
	}
	return -1
}

// SingleElimination is the classic knockout bracket: lose once and you are
// out, byes to the top seeds when the field is not a power of two.
type SingleElimination struct{}

func (SingleElimination) Format() models.TournamentFormat { return models.FormatSingleElimination }
func (SingleElimination) MinTeams() int                   { return 2 }

func (SingleElimination) Describe() string {
	return "Knockout bracket. Winners advance, a single loss eliminates. " +
		"Byes go to the top seeds when the team count is not a power of two."
}

func (h SingleElimination) GenerateMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, h.MinTeams(), h.Format()); err != nil {
		return nil, err
	}
	return buildEliminationBracket(t, teams, cfg)
}

func (h SingleElimination) GenerateBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	return h.GenerateMatches(t, teams, cfg)
}

// NextRoundMatches pairs the given round's matches index-wise into new
// placeholder matches and wires progression on the sources. Used when a
// bracket is grown incrementally instead of generated in full.
func (SingleElimination) NextRoundMatches(t *models.Tournament, matches []models.Match, currentRound int, cfg GenerateConfig) ([]models.Match, error) {
	gen := cfg.IDGenOrDefault()
	current := make([]*models.Match, 0, len(matches))
	for i := range matches {
		if matches[i].Progression.Round == currentRound {
			current = append(current, &matches[i])
		}
	}
	if len(current) < 2 {
		return nil, nil
	}

	stage := cfg.Stage
	if stage == "" {
		stage = current[0].Stage
	}
	next := make([]models.Match, 0, len(current)/2)
	for i := 0; i+1 < len(current); i += 2 {
		nm := models.Match{
			ID:           gen.NewID(),
			TournamentID: t.ID,
			Stage:        stage,
			Status:       models.MatchStatusScheduled,
			Category:     cfg.Category,
			Progression:  models.Progression{Round: currentRound + 1, BracketPosition: i/2 + 1},
		}
		current[i].Progression.NextMatchID = &nm.ID
		current[i].Progression.NextMatchPosition = 1
		current[i+1].Progression.NextMatchID = &nm.ID
		current[i+1].Progression.NextMatchPosition = 2
		next = append(next, nm)
	}
	return next, nil
}

func (h SingleElimination) ValidateFormat(t *models.Tournament) engine.ValidationResult {
	res := engine.OKResult()
	if len(t.Teams) < h.MinTeams() {
		res.Add(fmt.Sprintf("single elimination requires at least %d teams", h.MinTeams()))
	}
	for _, m := range t.Matches {
		if m.Progression.Round < 1 || m.Progression.BracketPosition < 1 {
			res.Add(fmt.Sprintf("match %s is missing its bracket position", m.ID))
		}
		if m.Progression.NextMatchID != nil && t.MatchByID(*m.Progression.NextMatchID) == nil {
			res.Add(fmt.Sprintf("match %s links to unknown next match %s", m.ID, *m.Progression.NextMatchID))
		}
	}
	return res
}

func (SingleElimination) ValidateScore(match *models.Match, scores []models.SetScore, settings models.ScoringSettings) error {
	return engine.ValidateScore(scores, settings)
}

// CalculateStandings ranks by deepest round reached, then wins.
func (SingleElimination) CalculateStandings(t *models.Tournament) []models.Standing {
	return eliminationStandings(t, t.Teams)
}
