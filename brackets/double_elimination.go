package brackets

import (
	"fmt"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
)

// DoubleElimination runs a winners bracket plus a losers bracket; a team is
// out only after its second loss. The winners-bracket champion meets the
// losers-bracket champion in the grand final.
type DoubleElimination struct{}

func (DoubleElimination) Format() models.TournamentFormat { return models.FormatDoubleElimination }
func (DoubleElimination) MinTeams() int                   { return 4 }

func (DoubleElimination) Describe() string {
	return "Double elimination. A first loss drops a team into the losers " +
		"bracket; only a second loss eliminates it. Bracket champions meet " +
		"in the grand final."
}

// lbRef addresses a losers-bracket match by 0-based round and index. The
// grand final is the sentinel {-1, -1}.
type lbRef struct {
	round, idx int
}

var grandFinalRef = lbRef{-1, -1}

func (h DoubleElimination) GenerateMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, h.MinTeams(), h.Format()); err != nil {
		return nil, err
	}
	return h.GenerateBracket(t, teams, cfg)
}

func (h DoubleElimination) GenerateBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, h.MinTeams(), h.Format()); err != nil {
		return nil, err
	}
	gen := cfg.IDGenOrDefault()
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageEliminationRound
	}
	wbCfg := cfg
	wbCfg.Stage = stage
	wbCfg.ThirdPlaceMatch = false

	winners, err := buildEliminationBracket(t, teams, wbCfg)
	if err != nil {
		return nil, err
	}

	bracketSize := nextPowerOfTwo(len(teams))
	wbRounds := numRounds(bracketSize)

	// Winners bracket matches grouped by round, in bracket order.
	wbByRound := make([][]*models.Match, wbRounds)
	for i := range winners {
		r := winners[i].Progression.Round - 1
		wbByRound[r] = append(wbByRound[r], &winners[i])
	}

	// Losers bracket skeleton: rounds 2k-1 and 2k both hold
	// bracketSize/2^(k+1) matches.
	lbRounds := 2 * (wbRounds - 1)
	lbSize := func(round int) int { // 0-based round
		return bracketSize >> (uint(round/2) + 2)
	}

	// Intended routing before bye collapse.
	advance := make(map[lbRef]lbRef)
	incoming := make(map[lbRef]int)
	wbDrop := make(map[*models.Match]lbRef)

	for r := 0; r < lbRounds; r++ {
		for i := 0; i < lbSize(r); i++ {
			ref := lbRef{r, i}
			if r == lbRounds-1 {
				advance[ref] = grandFinalRef
			} else if r%2 == 0 {
				advance[ref] = lbRef{r + 1, i}
			} else {
				advance[ref] = lbRef{r + 1, i / 2}
			}
			incoming[advance[ref]]++
		}
	}
	for i, m := range wbByRound[0] {
		if m.IsBye {
			continue
		}
		ref := lbRef{0, i / 2}
		wbDrop[m] = ref
		incoming[ref]++
	}
	for r := 1; r < wbRounds; r++ {
		for i, m := range wbByRound[r] {
			ref := lbRef{2*r - 1, i}
			wbDrop[m] = ref
			incoming[ref]++
		}
	}

	// Collapse losers-bracket matches that byes left with fewer than two
	// feeders: a lone feeder skips ahead, an unfed match disappears.
	removed := make(map[lbRef]bool)
	for changed := true; changed; {
		changed = false
		for r := 0; r < lbRounds; r++ {
			for i := 0; i < lbSize(r); i++ {
				ref := lbRef{r, i}
				if removed[ref] || incoming[ref] >= 2 {
					continue
				}
				removed[ref] = true
				changed = true
				dst := advance[ref]
				redirected := false
				for m, target := range wbDrop {
					if target == ref {
						wbDrop[m] = dst
						redirected = true
					}
				}
				for src, target := range advance {
					if target == ref && !removed[src] {
						advance[src] = dst
						redirected = true
					}
				}
				if !redirected {
					incoming[dst]--
				}
			}
		}
	}

	// Materialize the kept losers-bracket matches and the grand final.
	lbMatch := make(map[lbRef]*models.Match)
	losers := make([]models.Match, 0)
	for r := 0; r < lbRounds; r++ {
		pos := 1
		for i := 0; i < lbSize(r); i++ {
			ref := lbRef{r, i}
			if removed[ref] {
				continue
			}
			losers = append(losers, models.Match{
				ID:            gen.NewID(),
				TournamentID:  t.ID,
				Stage:         stage,
				Category:      cfg.Category,
				Status:        models.MatchStatusScheduled,
				LosersBracket: true,
				Progression:   models.Progression{Round: r + 1, BracketPosition: pos},
			})
			pos++
		}
	}
	idx := 0
	for r := 0; r < lbRounds; r++ {
		for i := 0; i < lbSize(r); i++ {
			ref := lbRef{r, i}
			if removed[ref] {
				continue
			}
			lbMatch[ref] = &losers[idx]
			idx++
		}
	}

	grandFinal := models.Match{
		ID:           gen.NewID(),
		TournamentID: t.ID,
		Stage:        stage,
		Category:     cfg.Category,
		Status:       models.MatchStatusScheduled,
		Progression:  models.Progression{Round: wbRounds + 1, BracketPosition: 1},
	}

	// Wire loser drops out of the winners bracket.
	for m, ref := range wbDrop {
		if ref == grandFinalRef {
			m.Progression.LoserNextMatchID = &grandFinal.ID
			continue
		}
		if target := lbMatch[ref]; target != nil {
			m.Progression.LoserNextMatchID = &target.ID
		}
	}
	// Wire winner advancement inside the losers bracket. Slots fill in
	// arrival order there, so no explicit position is set.
	for ref, m := range lbMatch {
		dst := advance[ref]
		for removed[dst] {
			dst = advance[dst]
		}
		if dst == grandFinalRef {
			m.Progression.NextMatchID = &grandFinal.ID
			m.Progression.NextMatchPosition = 2
			continue
		}
		m.Progression.NextMatchID = &lbMatch[dst].ID
	}
	// Winners-bracket final meets the losers-bracket champion.
	wbFinal := wbByRound[wbRounds-1][0]
	wbFinal.Progression.NextMatchID = &grandFinal.ID
	wbFinal.Progression.NextMatchPosition = 1

	out := make([]models.Match, 0, len(winners)+len(losers)+1)
	out = append(out, winners...)
	out = append(out, losers...)
	out = append(out, grandFinal)
	return out, nil
}

func (h DoubleElimination) NextRoundMatches(t *models.Tournament, matches []models.Match, currentRound int, cfg GenerateConfig) ([]models.Match, error) {
	// The full structure exists after GenerateBracket.
	return nil, nil
}

func (h DoubleElimination) ValidateFormat(t *models.Tournament) engine.ValidationResult {
	res := engine.OKResult()
	if len(t.Teams) < h.MinTeams() {
		res.Add(fmt.Sprintf("double elimination requires at least %d teams", h.MinTeams()))
	}
	losses := make(map[string]int)
	for _, m := range t.Matches {
		if m.Progression.NextMatchID != nil && t.MatchByID(*m.Progression.NextMatchID) == nil {
			res.Add(fmt.Sprintf("match %s links to unknown next match %s", m.ID, *m.Progression.NextMatchID))
		}
		if m.Progression.LoserNextMatchID != nil && t.MatchByID(*m.Progression.LoserNextMatchID) == nil {
			res.Add(fmt.Sprintf("match %s links to unknown loser match %s", m.ID, *m.Progression.LoserNextMatchID))
		}
		if m.Status == models.MatchStatusCompleted && m.LoserID != nil {
			losses[*m.LoserID]++
		}
	}
	for teamID, n := range losses {
		if n > 2 {
			res.Add(fmt.Sprintf("team %s has %d losses; double elimination allows at most 2", teamID, n))
		}
	}
	return res
}

func (DoubleElimination) ValidateScore(match *models.Match, scores []models.SetScore, settings models.ScoringSettings) error {
	return engine.ValidateScore(scores, settings)
}

func (DoubleElimination) CalculateStandings(t *models.Tournament) []models.Standing {
	return eliminationStandings(t, t.Teams)
}
