package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/repositories"
	"github.com/brackethq/tournament-engine/stages"
	"github.com/brackethq/tournament-engine/utils"
)

// AdvanceStageParams are the per-advance generation knobs. Zero values fall
// back to the format's defaults.
type AdvanceStageParams struct {
	ThirdPlaceMatch bool `json:"third_place_match"`
	GroupCount      int  `json:"group_count,omitempty"`
	TeamsAdvancing  int  `json:"teams_advancing,omitempty"`
}

// StageAdvanceResult reports what an advance produced.
type StageAdvanceResult struct {
	Tournament       *models.Tournament     `json:"tournament"`
	PreviousStage    models.TournamentStage `json:"previous_stage"`
	CurrentStage     models.TournamentStage `json:"current_stage"`
	GeneratedMatches int                    `json:"generated_matches"`
}

type StageService interface {
	// ValidateTransition previews whether the tournament can move to its
	// next stage, without mutating anything.
	ValidateTransition(ctx context.Context, tournamentID string) (*engine.ValidationResult, error)
	// AdvanceStage moves the tournament to its next stage, generating that
	// stage's matches.
	AdvanceStage(ctx context.Context, tournamentID string, params AdvanceStageParams) (*StageAdvanceResult, error)
	// GenerateNextRound pairs the next round within the current stage, for
	// formats that schedule round by round (Swiss).
	GenerateNextRound(ctx context.Context, tournamentID string) ([]models.Match, error)
}

type stageService struct {
	repo   repositories.TournamentRepository
	hub    *brackets.Hub
	idGen  utils.IDGenerator
	logger *slog.Logger
}

func NewStageService(
	repo repositories.TournamentRepository,
	hub *brackets.Hub,
	idGen utils.IDGenerator,
	logger *slog.Logger,
) StageService {
	return &stageService{
		repo:   repo,
		hub:    hub,
		idGen:  idGen,
		logger: logger,
	}
}

func (s *stageService) ValidateTransition(ctx context.Context, tournamentID string) (*engine.ValidationResult, error) {
	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	preview := t.Clone()
	next, err := stages.NextStage(preview)
	if err != nil {
		res := engine.OKResult()
		res.Add(err.Error())
		return &res, nil
	}
	if req, reqErr := stages.RequirementsFor(next); reqErr == nil && req.RequiresSeeding {
		stages.EnsureSeeds(preview)
	}
	res := s.validate(preview, next)
	return &res, nil
}

// validate combines the graph's transition checks with stage completeness.
// An unfinished current stage is a hard error, same as any other violation.
func (s *stageService) validate(t *models.Tournament, next models.TournamentStage) engine.ValidationResult {
	res := stages.ValidateTransition(t, next)
	if !stages.IsStageComplete(t, t.CurrentStage) {
		res.Add(fmt.Sprintf("stage %s still has unfinished matches", t.CurrentStage))
	}
	return res
}

func (s *stageService) AdvanceStage(ctx context.Context, tournamentID string, params AdvanceStageParams) (*StageAdvanceResult, error) {
	current, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.StatusCompleted {
		return nil, ErrTournamentCompleted
	}

	t := current.Clone()
	next, err := stages.NextStage(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStageTransitionInvalid, err)
	}

	if req, reqErr := stages.RequirementsFor(next); reqErr == nil && req.RequiresSeeding {
		stages.EnsureSeeds(t)
	}
	if res := s.validate(t, next); !res.Valid {
		if !stages.IsStageComplete(t, t.CurrentStage) {
			return nil, fmt.Errorf("%w: %s", ErrStageIncomplete, strings.Join(res.Errors, "; "))
		}
		return nil, fmt.Errorf("%w: %s", ErrStageTransitionInvalid, strings.Join(res.Errors, "; "))
	}

	cfg := brackets.GenerateConfig{
		IDGen:           s.idGen,
		Stage:           next,
		Seeded:          true,
		ThirdPlaceMatch: params.ThirdPlaceMatch,
		GroupCount:      params.GroupCount,
		TeamsAdvancing:  params.TeamsAdvancing,
	}
	generated, err := s.generateFor(t, next, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate matches for stage %s: %w", next, err)
	}

	previous := t.CurrentStage
	t.Matches = append(t.Matches, generated...)
	t.CurrentStage = next

	switch next {
	case models.StageGroupStage, models.StageEliminationRound, models.StageFinals:
		t.Status = models.StatusActive
	case models.StageCompleted:
		t.Status = models.StatusCompleted
	}

	if len(generated) > 0 && t.AutoAssignCourts {
		engine.AutoAssignCourts(t)
	}

	if err := s.persist(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("stage advanced",
		slog.String("tournament_id", t.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(next)),
		slog.Int("generated_matches", len(generated)))

	room := roomForTournament(t.ID)
	s.hub.BroadcastToRoom(room, brackets.EventStageAdvanced, map[string]interface{}{
		"tournament_id": t.ID,
		"from":          previous,
		"to":            next,
	})
	if len(generated) > 0 {
		s.hub.BroadcastToRoom(room, brackets.EventBracketGenerated, map[string]interface{}{
			"tournament_id": t.ID,
			"stage":         next,
			"matches":       generated,
		})
	}

	return &StageAdvanceResult{
		Tournament:       t,
		PreviousStage:    previous,
		CurrentStage:     next,
		GeneratedMatches: len(generated),
	}, nil
}

func (s *stageService) GenerateNextRound(ctx context.Context, tournamentID string) ([]models.Match, error) {
	current, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	t := current.Clone()

	handler, err := brackets.Resolve(t.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, t.Format)
	}

	stageMatches := t.MatchesInStage(t.CurrentStage)
	currentRound := 0
	for _, m := range stageMatches {
		if m.Progression.Round > currentRound {
			currentRound = m.Progression.Round
		}
	}
	if currentRound == 0 {
		return nil, fmt.Errorf("%w: stage %s has no rounds to pair from", ErrStageTransitionInvalid, t.CurrentStage)
	}

	cfg := brackets.GenerateConfig{IDGen: s.idGen, Stage: t.CurrentStage}
	generated, err := handler.NextRoundMatches(t, stageMatches, currentRound, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to pair round %d: %w", currentRound+1, err)
	}
	if len(generated) == 0 {
		return nil, nil
	}

	t.Matches = append(t.Matches, generated...)
	if t.AutoAssignCourts {
		engine.AutoAssignCourts(t)
	}
	if err := s.persist(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("next round generated",
		slog.String("tournament_id", t.ID),
		slog.Int("round", currentRound+1),
		slog.Int("matches", len(generated)))
	s.hub.BroadcastToRoom(roomForTournament(t.ID), brackets.EventBracketGenerated, map[string]interface{}{
		"tournament_id": t.ID,
		"stage":         t.CurrentStage,
		"round":         currentRound + 1,
		"matches":       generated,
	})
	return generated, nil
}

// generateFor dispatches to the stage generator owning the target stage.
// Registration, seeding and completion generate nothing.
func (s *stageService) generateFor(t *models.Tournament, next models.TournamentStage, cfg brackets.GenerateConfig) ([]models.Match, error) {
	switch next {
	case models.StageGroupStage:
		return stages.GroupStage{}.Generate(t, cfg)
	case models.StageEliminationRound:
		return stages.Elimination{}.Generate(t, cfg)
	case models.StageFinals:
		return stages.Finals{}.Generate(t, cfg)
	default:
		return nil, nil
	}
}

func (s *stageService) load(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *stageService) persist(ctx context.Context, t *models.Tournament) error {
	if err := s.repo.Update(ctx, nil, t); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentStale):
			return ErrTournamentConflict
		}
		return fmt.Errorf("failed to persist tournament %s: %w", t.ID, err)
	}
	return nil
}

func roomForTournament(id string) string {
	return "tournament_" + id
}
