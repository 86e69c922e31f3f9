package brackets

import (
	"fmt"
	"sort"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
)

const (
	defaultGroupCount     = 2
	defaultTeamsAdvancing = 2
)

// GroupKnockout plays round robin inside snake-seeded groups, then sends the
// top finishers per group into a knockout bracket cross-seeded so group
// winners meet other groups' runners-up.
type GroupKnockout struct{}

func (GroupKnockout) Format() models.TournamentFormat { return models.FormatGroupKnockout }
func (GroupKnockout) MinTeams() int                   { return 6 }

func (GroupKnockout) Describe() string {
	return "Group stage followed by knockout. Teams are snake-seeded into " +
		"groups, play round robin, and the top finishers cross over into an " +
		"elimination bracket."
}

// SplitGroups distributes teams into groupCount groups. Teams that already
// carry a group assignment keep it; otherwise the seed-sorted list is dealt
// snake-style (A B B A ...) so group strength stays balanced. Group names
// are "A", "B", ...
func SplitGroups(teams []models.Team, groupCount int, seeded bool) map[string][]models.Team {
	if groupCount < 1 {
		groupCount = defaultGroupCount
	}
	groups := make(map[string][]models.Team, groupCount)

	preassigned := true
	for _, team := range teams {
		if team.Group == "" {
			preassigned = false
			break
		}
	}
	if preassigned && len(teams) > 0 {
		for _, team := range teams {
			groups[team.Group] = append(groups[team.Group], team)
		}
		return groups
	}

	names := groupNames(groupCount)
	ordered := seedSorted(teams, seeded)
	dir, g := 1, 0
	for i := range ordered {
		team := ordered[i]
		team.Group = names[g]
		groups[names[g]] = append(groups[names[g]], team)
		// Snake: bounce off both ends instead of wrapping.
		if g+dir < 0 || g+dir >= groupCount {
			dir = -dir
		} else {
			g += dir
		}
	}
	return groups
}

func groupNames(n int) []string {
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = string(rune('A' + i))
	}
	return names
}

func (h GroupKnockout) GenerateMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, h.MinTeams(), h.Format()); err != nil {
		return nil, err
	}
	groupCount := cfg.GroupCount
	if groupCount == 0 {
		groupCount = defaultGroupCount
	}
	stage := cfg.Stage
	if stage == "" {
		stage = models.StageGroupStage
	}

	groups := SplitGroups(teams, groupCount, cfg.Seeded)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	matches := make([]models.Match, 0)
	for _, name := range names {
		matches = append(matches, circleMethodMatches(t, groups[name], cfg, stage, name)...)
	}
	return matches, nil
}

// GroupStandings computes the sorted table of one group from completed
// group-stage matches.
func (GroupKnockout) GroupStandings(t *models.Tournament, group string, teams []models.Team) []models.Standing {
	inGroup := make([]models.Team, 0)
	for _, team := range teams {
		if team.Group == group {
			inGroup = append(inGroup, team)
		}
	}
	rows := accumulateTable(t, inGroup, func(m models.Match) bool { return m.Group == group })
	return sortGroupStandings(rows)
}

// AdvancingTeams returns the knockout field: the top perGroup finishers of
// every group, cross-seeded so the bracket pairs a group winner with another
// group's runner-up, each with a fresh seed assigned.
func (h GroupKnockout) AdvancingTeams(t *models.Tournament, perGroup int) []models.Team {
	if perGroup <= 0 {
		perGroup = defaultTeamsAdvancing
	}
	groups := make(map[string][]models.Team)
	names := make([]string, 0)
	for _, team := range t.Teams {
		if team.Group == "" {
			continue
		}
		if _, ok := groups[team.Group]; !ok {
			names = append(names, team.Group)
		}
		groups[team.Group] = append(groups[team.Group], team)
	}
	sort.Strings(names)

	// qualifiers[place][group] in group order.
	qualifiers := make([][]models.Team, perGroup)
	for _, name := range names {
		standings := h.GroupStandings(t, name, t.Teams)
		for place := 0; place < perGroup && place < len(standings); place++ {
			team := t.TeamByID(standings[place].TeamID)
			if team != nil {
				qualifiers[place] = append(qualifiers[place], *team)
			}
		}
	}

	// Seeds run winners first, then runners-up, and so on. The bracket's
	// seed arrangement (1 vs lowest seed, 2 vs next, ...) then pairs each
	// group winner with a different group's runner-up.
	out := make([]models.Team, 0, perGroup*len(names))
	for place := 0; place < perGroup; place++ {
		out = append(out, qualifiers[place]...)
	}
	for i := range out {
		seed := i + 1
		out[i].Seed = &seed
	}
	return out
}

// GenerateBracket builds the knockout phase from already-advanced teams (use
// AdvancingTeams to compute the field).
func (h GroupKnockout) GenerateBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error) {
	if err := requireTeams(teams, 2, h.Format()); err != nil {
		return nil, err
	}
	cfg.Seeded = true
	if cfg.Stage == "" {
		cfg.Stage = models.StageEliminationRound
	}
	return buildEliminationBracket(t, teams, cfg)
}

func (h GroupKnockout) NextRoundMatches(t *models.Tournament, matches []models.Match, currentRound int, cfg GenerateConfig) ([]models.Match, error) {
	return SingleElimination{}.NextRoundMatches(t, matches, currentRound, cfg)
}

func (h GroupKnockout) ValidateFormat(t *models.Tournament) engine.ValidationResult {
	res := engine.OKResult()
	if len(t.Teams) < h.MinTeams() {
		res.Add(fmt.Sprintf("group+knockout requires at least %d teams", h.MinTeams()))
	}
	if t.CurrentStage != models.StageRegistration && t.CurrentStage != models.StageSeeding {
		for _, team := range t.Teams {
			if team.Group == "" {
				res.Add(fmt.Sprintf("team %s has no group assignment", team.ID))
			}
		}
	}
	return res
}

func (GroupKnockout) ValidateScore(match *models.Match, scores []models.SetScore, settings models.ScoringSettings) error {
	return engine.ValidateScore(scores, settings)
}

// CalculateStandings ranks by the knockout result once it exists, falling
// back to the combined group tables during the group stage.
func (h GroupKnockout) CalculateStandings(t *models.Tournament) []models.Standing {
	for _, m := range t.Matches {
		if m.Stage == models.StageEliminationRound || m.Stage == models.StageFinals {
			return eliminationStandings(t, t.Teams)
		}
	}
	rows := accumulateTable(t, t.Teams, nil)
	return sortGroupStandings(rows)
}
