package brackets

import (
	"fmt"
	"sort"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
)

// Division names used by the multi-stage format, strongest first.
const (
	DivisionOne   = "1"
	DivisionTwo   = "2"
	DivisionThree = "3"
)

// MultiStage runs an initial adjacent-pairing round, places teams into
// divisions from its results (winners play winners for division one spots,
// losers play losers, leftovers land in three-team round-robin groups), then
// plays a knockout playoff inside each division. Division sizes derive from
// the team count rather than a fixed field.
type MultiStage struct{}

func (MultiStage) Format() models.TournamentFormat { return models.FormatMultiStage }
func (MultiStage) MinTeams() int                   { return 8 }

func (MultiStage) Describe() string {
	return "Multi-stage. An opening round sorts the field, placement matches " +
		"settle divisions, and each division runs its own knockout playoff."
}

// GenerateMatches creates the initial round: simple adjacent pairing of the
// seed-sorted field, with a bye when the count is odd.
func (h MultiStage) GenerateMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, h.MinTeams(), h.Format()); err != nil {
		return nil, err
	}
	gen := cfg.IDGenOrDefault()
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageGroupStage
	}

	ordered := seedSorted(teams, cfg.Seeded)
	matches := make([]models.Match, 0, (len(ordered)+1)/2)
	pos := 1
	for i := 0; i+1 < len(ordered); i += 2 {
		id1, id2 := ordered[i].ID, ordered[i+1].ID
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
	if len(ordered)%2 != 0 {
		matches = append(matches, byeMatch(t, gen.NewID(), ordered[len(ordered)-1].ID, stage, cfg.Category, 1, pos))
	}
	return matches, nil
}

// GeneratePlacement builds the division-placement matches from a completed
// initial round: winners pair against winners for division one spots, losers
// against losers for division two spots, and any leftover side of three or
// more teams becomes three-team round-robin groups feeding division three.
func (h MultiStage) GeneratePlacement(t *models.Tournament, cfg GenerateConfig) ([]models.Match, error) {
	winners, losers, err := initialRoundResults(t)
	if err != nil {
		return nil, err
	}

	gen := cfg.IDGenOrDefault()
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageEliminationRound
	}

	matches := make([]models.Match, 0)
	pos := 1
	pair := func(teams []string, division string) []string {
		leftover := make([]string, 0, 1)
		for i := 0; i+1 < len(teams); i += 2 {
			id1, id2 := teams[i], teams[i+1]
			matches = append(matches, models.Match{
				ID:           gen.NewID(),
				TournamentID: t.ID,
				Team1ID:      &id1,
				Team2ID:      &id2,
				Stage:        stage,
				Division:     division,
				Category:     cfg.Category,
				Status:       models.MatchStatusScheduled,
				Progression:  models.Progression{Round: 1, BracketPosition: pos},
			})
			pos++
		}
		if len(teams)%2 != 0 {
			leftover = append(leftover, teams[len(teams)-1])
		}
		return leftover
	}

	leftover := pair(winners, DivisionOne)
	leftover = append(leftover, pair(losers, DivisionTwo)...)

	// Leftovers (odd splits) play three-team round robins for the bottom
	// division, or get a placement bye when too few remain for a group.
	for len(leftover) >= 3 {
		group := leftover[:3]
		leftover = leftover[3:]
		teams := make([]models.Team, 0, 3)
		for _, id := range group {
			if team := t.TeamByID(id); team != nil {
				teams = append(teams, *team)
			}
		}
		rr := circleMethodMatches(t, teams, cfg, stage, "")
		for i := range rr {
			rr[i].Division = DivisionThree
			rr[i].Progression.BracketPosition = pos
			pos++
		}
		matches = append(matches, rr...)
	}
	for _, id := range leftover {
		matches = append(matches, byeMatch(t, gen.NewID(), id, stage, cfg.Category, 1, pos))
		pos++
	}
	return matches, nil
}

// AssignDivisions stamps every team's division once placement matches are
// complete: placement winners keep their division, placement losers drop one.
func (h MultiStage) AssignDivisions(t *models.Tournament) error {
	placement := t.MatchesInStage(models.StageEliminationRound)
	if len(placement) == 0 {
		return fmt.Errorf("no placement matches to assign divisions from")
	}
	for _, m := range placement {
		if m.Status != models.MatchStatusCompleted {
			return fmt.Errorf("placement match %s is not completed", m.ID)
		}
	}

	demoted := map[string]string{DivisionOne: DivisionTwo, DivisionTwo: DivisionThree, DivisionThree: DivisionThree}
	assign := func(teamID, division string) {
		if team := t.TeamByID(teamID); team != nil {
			team.Division = division
		}
	}
	for _, m := range placement {
		division := m.Division
		if division == "" {
			division = DivisionThree
		}
		if m.WinnerID != nil {
			assign(*m.WinnerID, division)
		}
		if m.LoserID != nil {
			assign(*m.LoserID, demoted[division])
		}
	}
	return nil
}

// GeneratePlayoffs builds a knockout bracket inside each division. Seeds come
// from each division's accumulated results.
func (h MultiStage) GeneratePlayoffs(t *models.Tournament, cfg GenerateConfig) ([]models.Match, error) {
	byDivision := make(map[string][]models.Team)
	for _, team := range t.Teams {
		if team.Division == "" {
			return nil, fmt.Errorf("team %s has no division; run placement first", team.ID)
		}
		byDivision[team.Division] = append(byDivision[team.Division], team)
	}

	divisions := make([]string, 0, len(byDivision))
	for d := range byDivision {
		divisions = append(divisions, d)
	}
	sort.Strings(divisions)

	out := make([]models.Match, 0)
	for _, division := range divisions {
		teams := byDivision[division]
		if len(teams) < 2 {
			continue
		}
		rows := accumulateTable(t, teams, nil)
		rows = sortGroupStandings(rows)
		seeded := make([]models.Team, 0, len(rows))
		for i, row := range rows {
			team := t.TeamByID(row.TeamID)
			if team == nil {
				continue
			}
			cp := *team
			seed := i + 1
			cp.Seed = &seed
			seeded = append(seeded, cp)
		}
		divCfg := cfg
		divCfg.Seeded = true
		if divCfg.Stage == "" {
			divCfg.Stage = models.StageFinals
		}
		bracket, err := buildEliminationBracket(t, seeded, divCfg)
		if err != nil {
			return nil, err
		}
		for i := range bracket {
			bracket[i].Division = division
		}
		out = append(out, bracket...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no division has enough teams for playoffs")
	}
	return out, nil
}

// initialRoundResults reads the completed opening round, returning winner
// and loser IDs in bracket order.
func initialRoundResults(t *models.Tournament) (winners, losers []string, err error) {
	initial := make([]models.Match, 0)
	for _, m := range t.Matches {
		if m.Stage == models.StageGroupStage && m.Progression.Round == 1 {
			initial = append(initial, m)
		}
	}
	if len(initial) == 0 {
		return nil, nil, fmt.Errorf("no initial round matches found")
	}
	sort.SliceStable(initial, func(i, j int) bool {
		return initial[i].Progression.BracketPosition < initial[j].Progression.BracketPosition
	})
	for _, m := range initial {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			return nil, nil, fmt.Errorf("initial round match %s is not completed", m.ID)
		}
		winners = append(winners, *m.WinnerID)
		if m.LoserID != nil {
			losers = append(losers, *m.LoserID)
		}
	}
	return winners, losers, nil
}

func (h MultiStage) GenerateBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, 2, h.Format()); err != nil {
		return nil, err
	}
	return buildEliminationBracket(t, teams, cfg)
}

func (h MultiStage) NextRoundMatches(t *models.Tournament, matches []models.Match, currentRound int, cfg GenerateConfig) ([]models.Match, error) {
	return SingleElimination{}.NextRoundMatches(t, matches, currentRound, cfg)
}

func (h MultiStage) ValidateFormat(t *models.Tournament) engine.ValidationResult {
	res := engine.OKResult()
	if len(t.Teams) < h.MinTeams() {
		res.Add(fmt.Sprintf("multi-stage requires at least %d teams", h.MinTeams()))
	}
	if t.CurrentStage == models.StageFinals || t.CurrentStage == models.StageCompleted {
		for _, team := range t.Teams {
			if team.Division == "" {
				res.Add(fmt.Sprintf("team %s reached playoffs without a division", team.ID))
			}
		}
	}
	return res
}

func (MultiStage) ValidateScore(match *models.Match, scores []models.SetScore, settings models.ScoringSettings) error {
	return engine.ValidateScore(scores, settings)
}

// CalculateStandings orders by division, then by playoff result within it.
func (MultiStage) CalculateStandings(t *models.Tournament) []models.Standing {
	rows := eliminationStandings(t, t.Teams)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Division != rows[j].Division {
			return rows[i].Division < rows[j].Division
		}
		return rows[i].Rank < rows[j].Rank
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
