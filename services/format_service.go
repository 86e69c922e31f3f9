package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/repositories"
)

// FormatInfo is a catalog entry for one supported format.
type FormatInfo struct {
	Format      models.TournamentFormat `json:"format"`
	Description string                  `json:"description"`
	MinTeams    int                     `json:"min_teams"`
}

type FormatService interface {
	// ListFormats returns the format catalog.
	ListFormats() []FormatInfo
	Describe(format models.TournamentFormat) (*FormatInfo, error)
	// ValidateTournament runs the format's structural checks over the
	// stored snapshot.
	ValidateTournament(ctx context.Context, tournamentID string) (*engine.ValidationResult, error)
	// Standings ranks the tournament's teams by its format's rules.
	Standings(ctx context.Context, tournamentID string) ([]models.Standing, error)
	// GroupStandings returns per-group tables; only meaningful for formats
	// with a group phase.
	GroupStandings(ctx context.Context, tournamentID string) (map[string][]models.Standing, error)
}

type formatService struct {
	repo repositories.TournamentRepository
}

func NewFormatService(repo repositories.TournamentRepository) FormatService {
	return &formatService{repo: repo}
}

func (s *formatService) ListFormats() []FormatInfo {
	formats := brackets.AllFormats()
	infos := make([]FormatInfo, 0, len(formats))
	for _, f := range formats {
		handler, err := brackets.Resolve(f)
		if err != nil {
			continue
		}
		infos = append(infos, FormatInfo{
			Format:      f,
			Description: handler.Describe(),
			MinTeams:    handler.MinTeams(),
		})
	}
	return infos
}

func (s *formatService) Describe(format models.TournamentFormat) (*FormatInfo, error) {
	handler, err := brackets.Resolve(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	return &FormatInfo{
		Format:      format,
		Description: handler.Describe(),
		MinTeams:    handler.MinTeams(),
	}, nil
}

func (s *formatService) ValidateTournament(ctx context.Context, tournamentID string) (*engine.ValidationResult, error) {
	t, handler, err := s.loadWithHandler(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	res := handler.ValidateFormat(t)
	return &res, nil
}

func (s *formatService) Standings(ctx context.Context, tournamentID string) ([]models.Standing, error) {
	t, handler, err := s.loadWithHandler(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return handler.CalculateStandings(t), nil
}

func (s *formatService) GroupStandings(ctx context.Context, tournamentID string) (map[string][]models.Standing, error) {
	t, _, err := s.loadWithHandler(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[string][]models.Team)
	for _, team := range t.Teams {
		if team.Group == "" {
			continue
		}
		byGroup[team.Group] = append(byGroup[team.Group], team)
	}

	gk := brackets.GroupKnockout{}
	tables := make(map[string][]models.Standing, len(byGroup))
	for group, teams := range byGroup {
		tables[group] = gk.GroupStandings(t, group, teams)
	}
	return tables, nil
}

func (s *formatService) loadWithHandler(ctx context.Context, id string) (*models.Tournament, brackets.FormatHandler, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	handler, err := brackets.Resolve(t.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidFormat, t.Format)
	}
	return t, handler, nil
}
