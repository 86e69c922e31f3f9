package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/utils"
)

var (
	ErrNotEnoughTeams    = errors.New("not enough teams for this format")
	ErrUnsupportedFormat = errors.New("unsupported tournament format")
)

// GenerateConfig carries the knobs a generation call can tune. Zero values
// mean "use the format's default".
type GenerateConfig struct {
	IDGen           utils.IDGenerator
	Category        string
	Stage           models.TournamentStage
	Seeded          bool
	Shuffle         bool
	ThirdPlaceMatch bool
	GroupCount      int
	TeamsAdvancing  int
}

// IDGenOrDefault returns the configured generator or a fresh UUID one.
func (c GenerateConfig) IDGenOrDefault() utils.IDGenerator {
	if c.IDGen != nil {
		return c.IDGen
	}
	return utils.NewUUIDGenerator()
}

// FormatHandler is implemented once per TournamentFormat. Handlers are
// stateless; everything they need rides in on the tournament snapshot and
// the config.
type FormatHandler interface {
	Format() models.TournamentFormat
	// Describe returns a short human-readable summary of the format's rules.
	Describe() string
	// MinTeams is the smallest team count the format can pair.
	MinTeams() int
	// GenerateMatches builds the initial matches for one category using the
	// format's pairing rule. Returns ErrNotEnoughTeams below MinTeams.
	GenerateMatches(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error)
	// GenerateBracket builds the elimination structure including byes and
	// TBD placeholder rounds, with progression links wired.
	GenerateBracket(t *models.Tournament, teams []models.Team, cfg GenerateConfig) ([]models.Match, error)
	// NextRoundMatches pairs the given completed round into the next one.
	NextRoundMatches(t *models.Tournament, matches []models.Match, currentRound int, cfg GenerateConfig) ([]models.Match, error)
	// ValidateFormat runs format-specific structural checks over a snapshot.
	ValidateFormat(t *models.Tournament) engine.ValidationResult
	// ValidateScore applies the scoring rules to a proposed score line.
	ValidateScore(match *models.Match, scores []models.SetScore, settings models.ScoringSettings) error
	// CalculateStandings ranks the tournament's teams by this format's rules.
	CalculateStandings(t *models.Tournament) []models.Standing
}

// Resolve maps a format value to its handler.
func Resolve(format models.TournamentFormat) (FormatHandler, error) {
	switch format {
	case models.FormatSingleElimination:
		return &SingleElimination{}, nil
	case models.FormatDoubleElimination:
		return &DoubleElimination{}, nil
	case models.FormatRoundRobin:
		return &RoundRobin{}, nil
	case models.FormatSwiss:
		return &Swiss{}, nil
	case models.FormatGroupKnockout:
		return &GroupKnockout{}, nil
	case models.FormatMultiStage:
		return &MultiStage{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// AllFormats lists every supported format, for the catalog endpoint.
func AllFormats() []models.TournamentFormat {
	return []models.TournamentFormat{
		models.FormatSingleElimination,
		models.FormatDoubleElimination,
		models.FormatRoundRobin,
		models.FormatSwiss,
		models.FormatGroupKnockout,
		models.FormatMultiStage,
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func numRounds(bracketSize int) int {
	r := 0
	for bracketSize > 1 {
		bracketSize >>= 1
		r++
	}
	return r
}

// seedSorted returns teams ordered for slot placement: ascending seed when
// seeding is on (unseeded teams after seeded ones), registration order
// otherwise.
func seedSorted(teams []models.Team, seeded bool) []models.Team {
	out := append([]models.Team(nil), teams...)
	if !seeded {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].SeedValue(), out[j].SeedValue()
		switch {
		case si == 0:
			return false
		case sj == 0:
			return true
		default:
			return si < sj
		}
	})
	return out
}

// requireTeams enforces a format's minimum entry count.
func requireTeams(teams []models.Team, min int, format models.TournamentFormat) error {
	if len(teams) < min {
		return fmt.Errorf("%w: %s needs at least %d teams, got %d",
			ErrNotEnoughTeams, format, min, len(teams))
	}
	return nil
}
