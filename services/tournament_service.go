package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/repositories"
	"github.com/brackethq/tournament-engine/utils"
	"golang.org/x/sync/errgroup"
)

type CreateTournamentParams struct {
	Name             string                  `json:"name"`
	Format           models.TournamentFormat `json:"format"`
	ScoringSettings  *models.ScoringSettings `json:"scoring_settings,omitempty"`
	AutoAssignCourts bool                    `json:"auto_assign_courts"`
	Categories       []string                `json:"categories,omitempty"`
}

type AddTeamParams struct {
	Name     string   `json:"name"`
	Division string   `json:"division,omitempty"`
	Category string   `json:"category,omitempty"`
	Seed     *int     `json:"seed,omitempty"`
	Players  []string `json:"players,omitempty"`
}

type AddCourtParams struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// TournamentSummary is the aggregate view returned by Summary. Its sections
// are computed concurrently from a single snapshot.
type TournamentSummary struct {
	Tournament    *models.Tournament `json:"tournament"`
	Standings     []models.Standing  `json:"standings"`
	MatchProgress MatchProgress      `json:"match_progress"`
	CourtUsage    []CourtUsage       `json:"court_usage"`
}

type MatchProgress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Scheduled  int `json:"scheduled"`
	Cancelled  int `json:"cancelled"`
}

type CourtUsage struct {
	CourtID        string             `json:"court_id"`
	Name           string             `json:"name"`
	Number         int                `json:"number"`
	Status         models.CourtStatus `json:"status"`
	CurrentMatchID *string            `json:"current_match_id,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Delete(ctx context.Context, id string) error
	AddTeam(ctx context.Context, tournamentID string, params AddTeamParams) (*models.Tournament, error)
	RemoveTeam(ctx context.Context, tournamentID, teamID string) (*models.Tournament, error)
	AddCourt(ctx context.Context, tournamentID string, params AddCourtParams) (*models.Tournament, error)
	SetTeamSeed(ctx context.Context, tournamentID, teamID string, seed int) (*models.Tournament, error)
	Summary(ctx context.Context, id string) (*TournamentSummary, error)
}

type tournamentService struct {
	repo   repositories.TournamentRepository
	hub    *brackets.Hub
	idGen  utils.IDGenerator
	logger *slog.Logger
}

func NewTournamentService(
	repo repositories.TournamentRepository,
	hub *brackets.Hub,
	idGen utils.IDGenerator,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		repo:   repo,
		hub:    hub,
		idGen:  idGen,
		logger: logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if _, err := brackets.Resolve(params.Format); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, params.Format)
	}

	scoring := models.DefaultScoringSettings()
	if params.ScoringSettings != nil {
		scoring = *params.ScoringSettings
		if err := validateScoringSettings(scoring); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	t := &models.Tournament{
		ID:               s.idGen.NewID(),
		Name:             name,
		Format:           params.Format,
		Status:           models.StatusRegistration,
		CurrentStage:     models.StageRegistration,
		Teams:            []models.Team{},
		Matches:          []models.Match{},
		Courts:           []models.Court{},
		ScoringSettings:  scoring,
		AutoAssignCourts: params.AutoAssignCourts,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, categoryName := range params.Categories {
		categoryName = strings.TrimSpace(categoryName)
		if categoryName == "" {
			continue
		}
		t.Categories = append(t.Categories, models.Category{ID: s.idGen.NewID(), Name: categoryName})
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	s.logger.Info("tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("format", string(t.Format)))
	return t, nil
}

func validateScoringSettings(s models.ScoringSettings) error {
	if s.PointsToWinSet <= 0 {
		return fmt.Errorf("%w: points to win a set must be positive", ErrInvalidScoringSettings)
	}
	if s.MaxPointsPerSet < s.PointsToWinSet {
		return fmt.Errorf("%w: max points per set (%d) must be at least points to win (%d)",
			ErrInvalidScoringSettings, s.MaxPointsPerSet, s.PointsToWinSet)
	}
	if s.SetsToWin <= 0 || s.MaxSets <= 0 {
		return fmt.Errorf("%w: set counts must be positive", ErrInvalidScoringSettings)
	}
	if s.MaxSets < 2*s.SetsToWin-1 {
		return fmt.Errorf("%w: %d sets cannot decide a best-of requiring %d set wins",
			ErrInvalidScoringSettings, s.MaxSets, s.SetsToWin)
	}
	return nil
}

func (s *tournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %s: %w", id, err)
	}
	return nil
}

func (s *tournamentService) AddTeam(ctx context.Context, tournamentID string, params AddTeamParams) (*models.Tournament, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrTeamNameRequired
	}
	return s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if t.CurrentStage != models.StageRegistration {
			return ErrRegistrationClosed
		}
		if params.Category != "" && !hasCategory(t, params.Category) {
			return fmt.Errorf("%w: %q", ErrCategoryNotFound, params.Category)
		}
		team := models.Team{
			ID:        s.idGen.NewID(),
			Name:      strings.TrimSpace(params.Name),
			Division:  params.Division,
			Category:  params.Category,
			Seed:      params.Seed,
			CreatedAt: time.Now().UTC(),
		}
		for _, playerName := range params.Players {
			team.Players = append(team.Players, models.Player{ID: s.idGen.NewID(), Name: playerName})
		}
		t.Teams = append(t.Teams, team)
		return nil
	})
}

func (s *tournamentService) RemoveTeam(ctx context.Context, tournamentID, teamID string) (*models.Tournament, error) {
	return s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if t.CurrentStage != models.StageRegistration {
			return ErrRegistrationClosed
		}
		for i := range t.Teams {
			if t.Teams[i].ID == teamID {
				t.Teams = append(t.Teams[:i], t.Teams[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	})
}

func (s *tournamentService) AddCourt(ctx context.Context, tournamentID string, params AddCourtParams) (*models.Tournament, error) {
	return s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if t.CourtByNumber(params.Number) != nil {
			return fmt.Errorf("%w: %d", ErrCourtNumberConflict, params.Number)
		}
		t.Courts = append(t.Courts, models.Court{
			ID:     s.idGen.NewID(),
			Name:   params.Name,
			Number: params.Number,
			Status: models.CourtAvailable,
		})
		return nil
	})
}

// SetTeamSeed records a manual seed during the seeding stage. Duplicate
// seeds within the team's pairing group are rejected here; the stage
// transition validates the full assignment again before elimination play.
func (s *tournamentService) SetTeamSeed(ctx context.Context, tournamentID, teamID string, seed int) (*models.Tournament, error) {
	if seed <= 0 {
		return nil, fmt.Errorf("%w: seed must be positive", ErrValidationFailed)
	}
	return s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		team := t.TeamByID(teamID)
		if team == nil {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
		}
		for i := range t.Teams {
			other := &t.Teams[i]
			if other.ID == teamID || other.SeedValue() != seed {
				continue
			}
			if other.Group == team.Group && other.Division == team.Division {
				return fmt.Errorf("%w: seed %d already belongs to team %s", ErrValidationFailed, seed, other.ID)
			}
		}
		team.Seed = &seed
		return nil
	})
}

// Summary composes the dashboard view of one snapshot. The sections are
// independent, so they are computed in parallel.
func (s *tournamentService) Summary(ctx context.Context, id string) (*TournamentSummary, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &TournamentSummary{Tournament: t}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		handler, err := brackets.Resolve(t.Format)
		if err != nil {
			return err
		}
		summary.Standings = handler.CalculateStandings(t)
		return nil
	})

	g.Go(func() error {
		progress := MatchProgress{Total: len(t.Matches)}
		for _, m := range t.Matches {
			switch m.Status {
			case models.MatchStatusCompleted:
				progress.Completed++
			case models.MatchStatusInProgress:
				progress.InProgress++
			case models.MatchStatusScheduled:
				progress.Scheduled++
			case models.MatchStatusCancelled:
				progress.Cancelled++
			}
		}
		summary.MatchProgress = progress
		return nil
	})

	g.Go(func() error {
		usage := make([]CourtUsage, 0, len(t.Courts))
		for _, c := range t.Courts {
			usage = append(usage, CourtUsage{
				CourtID:        c.ID,
				Name:           c.Name,
				Number:         c.Number,
				Status:         c.Status,
				CurrentMatchID: c.CurrentMatchID,
			})
		}
		summary.CourtUsage = usage
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build summary for tournament %s: %w", id, err)
	}
	return summary, nil
}

// mutate loads a snapshot, applies fn to a clone and persists the result.
// A stale write surfaces as ErrTournamentConflict so the caller can retry
// with a fresh snapshot.
func (s *tournamentService) mutate(ctx context.Context, id string, fn func(*models.Tournament) error) (*models.Tournament, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *tournamentService) persist(ctx context.Context, t *models.Tournament) error {
	if err := s.repo.Update(ctx, nil, t); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentStale):
			return ErrTournamentConflict
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to persist tournament %s: %w", t.ID, err)
	}
	return nil
}

func hasCategory(t *models.Tournament, name string) bool {
	for _, c := range t.Categories {
		if c.Name == name || c.ID == name {
			return true
		}
	}
	return false
}
