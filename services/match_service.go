package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/engine"
	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/repositories"
)

type MatchService interface {
	GetMatch(ctx context.Context, tournamentID, matchID string) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID string, stage *models.TournamentStage) ([]models.Match, error)
	// StartMatch moves a scheduled match with both sides known into play.
	StartMatch(ctx context.Context, tournamentID, matchID string) (*models.Tournament, error)
	// RecordScore replaces the match's score line after validating it
	// against the tournament's scoring settings.
	RecordScore(ctx context.Context, tournamentID, matchID string, scores []models.SetScore) (*models.Tournament, error)
	// CompleteMatch resolves the outcome from the recorded scores, advances
	// winner and loser through the bracket and releases the court, all
	// within one snapshot update.
	CompleteMatch(ctx context.Context, tournamentID, matchID string, scores []models.SetScore) (*models.Tournament, error)
	CancelMatch(ctx context.Context, tournamentID, matchID string) (*models.Tournament, error)
}

type matchService struct {
	repo   repositories.TournamentRepository
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewMatchService(
	repo repositories.TournamentRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, tournamentID, matchID string) (*models.Match, error) {
	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	match := t.MatchByID(matchID)
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return match.Clone(), nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID string, stage *models.TournamentStage) ([]models.Match, error) {
	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if stage == nil {
		return t.Matches, nil
	}
	return t.MatchesInStage(*stage), nil
}

func (s *matchService) StartMatch(ctx context.Context, tournamentID, matchID string) (*models.Tournament, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, func(t *models.Tournament, match *models.Match) error {
		if match.Status != models.MatchStatusScheduled {
			return fmt.Errorf("%w: match %s is %s", ErrMatchNotStartable, matchID, match.Status)
		}
		if match.IsBye {
			return fmt.Errorf("%w: bye matches are never played", ErrMatchNotStartable)
		}
		if match.Team1ID == nil || match.Team2ID == nil {
			return fmt.Errorf("%w: match %s is still waiting on an upstream result", ErrMatchNotStartable, matchID)
		}
		match.Status = models.MatchStatusInProgress
		return nil
	})
}

func (s *matchService) RecordScore(ctx context.Context, tournamentID, matchID string, scores []models.SetScore) (*models.Tournament, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, func(t *models.Tournament, match *models.Match) error {
		if match.Status == models.MatchStatusCompleted {
			return fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, matchID)
		}
		if match.Status == models.MatchStatusCancelled {
			return fmt.Errorf("%w: match %s is cancelled", ErrMatchNotCompletable, matchID)
		}
		handler, err := brackets.Resolve(t.Format)
		if err != nil {
			return err
		}
		if err := handler.ValidateScore(match, scores, t.ScoringSettings); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScore, err)
		}
		match.Scores = append([]models.SetScore(nil), scores...)
		return nil
	})
}

func (s *matchService) CompleteMatch(ctx context.Context, tournamentID, matchID string, scores []models.SetScore) (*models.Tournament, error) {
	var completed *models.Match
	t, err := s.mutateMatch(ctx, tournamentID, matchID, func(t *models.Tournament, match *models.Match) error {
		if match.Status == models.MatchStatusCompleted {
			return fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, matchID)
		}
		if match.Status == models.MatchStatusCancelled {
			return fmt.Errorf("%w: match %s is cancelled", ErrMatchNotCompletable, matchID)
		}

		handler, err := brackets.Resolve(t.Format)
		if err != nil {
			return err
		}
		if len(scores) > 0 {
			if err := handler.ValidateScore(match, scores, t.ScoringSettings); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidScore, err)
			}
			match.Scores = append([]models.SetScore(nil), scores...)
		}

		outcome, err := engine.ResolveOutcome(match, t.ScoringSettings)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMatchNotCompletable, err)
		}
		match.Status = models.MatchStatusCompleted
		winner, loser := outcome.WinnerID, outcome.LoserID
		match.WinnerID = &winner
		match.LoserID = &loser

		if err := engine.ApplyProgression(t, match.ID); err != nil {
			return err
		}
		engine.ReleaseMatchCourt(t, match)
		completed = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForTournament(t.ID), brackets.EventStandingsUpdated, map[string]interface{}{
		"tournament_id": t.ID,
	})
	s.logger.Info("match completed",
		slog.String("tournament_id", t.ID),
		slog.String("match_id", matchID),
		slog.String("winner_id", *completed.WinnerID))
	return t, nil
}

func (s *matchService) CancelMatch(ctx context.Context, tournamentID, matchID string) (*models.Tournament, error) {
	return s.mutateMatch(ctx, tournamentID, matchID, func(t *models.Tournament, match *models.Match) error {
		if match.Status == models.MatchStatusCompleted {
			return fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, matchID)
		}
		match.Status = models.MatchStatusCancelled
		engine.ReleaseMatchCourt(t, match)
		return nil
	})
}

// mutateMatch runs fn against the match inside a cloned snapshot and
// persists the whole tournament.
func (s *matchService) mutateMatch(ctx context.Context, tournamentID, matchID string, fn func(*models.Tournament, *models.Match) error) (*models.Tournament, error) {
	current, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	t := current.Clone()
	match := t.MatchByID(matchID)
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if err := fn(t, match); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, t); err != nil {
		return nil, err
	}
	s.hub.BroadcastToRoom(roomForTournament(t.ID), brackets.EventMatchUpdated, t.MatchByID(matchID))
	return t, nil
}

func (s *matchService) load(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *matchService) persist(ctx context.Context, t *models.Tournament) error {
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
