package brackets

import (
	"fmt"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
)

// RoundRobin plays every unordered pair of teams exactly once, scheduled in
// rounds with the circle rotation so no team plays twice in a round.
type RoundRobin struct{}

func (RoundRobin) Format() models.TournamentFormat { return models.FormatRoundRobin }
func (RoundRobin) MinTeams() int                   { return 3 }

func (RoundRobin) Describe() string {
	return "League play. Every team meets every other team once; standings " +
		"rank by points, head-to-head, set differential, then point differential."
}

func (h RoundRobin) GenerateMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, h.MinTeams(), h.Format()); err != nil {
		return nil, err
	}
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageGroupStage
	}
	return circleMethodMatches(t, teams, cfg, stage, ""), nil
}

// circleMethodMatches builds a full round-robin schedule. One slot is held
// fixed while the rest rotate; a nil slot marks the sitting-out team when
// the field is odd.
func circleMethodMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig, stage models.TournamentStage, group string) []models.Match {
	gen := cfg.IDGenOrDefault()
	ring := make([]*models.Team, 0, len(teams)+1)
	for i := range teams {
		team := teams[i]
		ring = append(ring, &team)
	}
	if len(ring)%2 != 0 {
		ring = append(ring, nil)
	}

	n := len(ring)
	rounds := n - 1
	half := n / 2
	matches := make([]models.Match, 0, len(teams)*(len(teams)-1)/2)

	for round := 1; round <= rounds; round++ {
		pos := 1
		for i := 0; i < half; i++ {
			t1, t2 := ring[i], ring[n-1-i]
			if t1 == nil || t2 == nil {
				continue
			}
			id1, id2 := t1.ID, t2.ID
			matches = append(matches, models.Match{
				ID:           gen.NewID(),
				TournamentID: t.ID,
				Team1ID:      &id1,
				Team2ID:      &id2,
				Stage:        stage,
				Group:        group,
				Category:     cfg.Category,
				Status:       models.MatchStatusScheduled,
				Progression:  models.Progression{Round: round, BracketPosition: pos},
			})
			pos++
		}
		// Rotate everything but the first slot.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return matches
}

// GenerateBracket is the same schedule; round robin has no knockout tree.
func (h RoundRobin) GenerateBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	return h.GenerateMatches(t, teams, cfg)
}

// NextRoundMatches is a no-op: the whole schedule exists up front.
func (RoundRobin) NextRoundMatches(t *models.Tournament, matches []models.Match, currentRound int, cfg GenerateConfig) ([]models.Match, error) {
	return nil, nil
}

func (h RoundRobin) ValidateFormat(t *models.Tournament) engine.ValidationResult {
	res := engine.OKResult()
	if len(t.Teams) < h.MinTeams() {
		res.Add(fmt.Sprintf("round robin requires at least %d teams", h.MinTeams()))
	}
	// Each unordered pair may meet at most once.
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
			res.Add(fmt.Sprintf("matches %s and %s pair the same teams twice", prev, m.ID))
			continue
		}
		seen[key] = m.ID
	}
	return res
}

func (RoundRobin) ValidateScore(match *models.Match, scores []models.SetScore, settings models.ScoringSettings) error {
	return engine.ValidateScore(scores, settings)
}

func (RoundRobin) CalculateStandings(t *models.Tournament) []models.Standing {
	rows := accumulateTable(t, t.Teams, nil)
	return sortLeagueStandings(t, rows)
}
