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

// AutoAssignResult reports how many matches received a court.
type AutoAssignResult struct {
	Assigned   int                `json:"assigned"`
	Tournament *models.Tournament `json:"tournament"`
}

type CourtService interface {
	ListCourts(ctx context.Context, tournamentID string) ([]models.Court, error)
	// AssignCourt puts a match on an available court. Reassigning a match
	// that already holds a court frees the old one first.
	AssignCourt(ctx context.Context, tournamentID, matchID, courtID string) (*models.Tournament, error)
	// FreeCourt releases a court regardless of what it is running.
	FreeCourt(ctx context.Context, tournamentID, courtID string) (*models.Tournament, error)
	// AutoAssign pairs free courts with waiting matches in scheduled-time
	// order.
	AutoAssign(ctx context.Context, tournamentID string) (*AutoAssignResult, error)
	SetCourtStatus(ctx context.Context, tournamentID, courtID string, status models.CourtStatus) (*models.Tournament, error)
}

type courtService struct {
	repo   repositories.TournamentRepository
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewCourtService(
	repo repositories.TournamentRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) CourtService {
	return &courtService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *courtService) ListCourts(ctx context.Context, tournamentID string) ([]models.Court, error) {
	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return t.Courts, nil
}

func (s *courtService) AssignCourt(ctx context.Context, tournamentID, matchID, courtID string) (*models.Tournament, error) {
	return s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if err := engine.AssignCourt(t, matchID, courtID); err != nil {
			switch {
			case errors.Is(err, engine.ErrMatchNotFound):
				return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
			case errors.Is(err, engine.ErrCourtNotFound):
				return fmt.Errorf("%w: %s", ErrCourtNotFound, courtID)
			case errors.Is(err, engine.ErrCourtNotAvailable):
				return fmt.Errorf("%w: %s", ErrCourtNotAvailable, courtID)
			}
			return err
		}
		return nil
	})
}

func (s *courtService) FreeCourt(ctx context.Context, tournamentID, courtID string) (*models.Tournament, error) {
	return s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		court := t.CourtByID(courtID)
		if court == nil {
			return fmt.Errorf("%w: %s", ErrCourtNotFound, courtID)
		}
		if court.CurrentMatchID != nil {
			if match := t.MatchByID(*court.CurrentMatchID); match != nil {
				match.CourtNumber = nil
			}
		}
		engine.FreeCourt(t, court.Number)
		return nil
	})
}

func (s *courtService) AutoAssign(ctx context.Context, tournamentID string) (*AutoAssignResult, error) {
	var assigned int
	t, err := s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		assigned = engine.AutoAssignCourts(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("courts auto-assigned",
		slog.String("tournament_id", tournamentID),
		slog.Int("assigned", assigned))
	return &AutoAssignResult{Assigned: assigned, Tournament: t}, nil
}

func (s *courtService) SetCourtStatus(ctx context.Context, tournamentID, courtID string, status models.CourtStatus) (*models.Tournament, error) {
	switch status {
	case models.CourtAvailable, models.CourtMaintenance:
	default:
		return nil, fmt.Errorf("%w: court status can only be set to available or maintenance", ErrValidationFailed)
	}
	return s.mutate(ctx, tournamentID, func(t *models.Tournament) error {
		court := t.CourtByID(courtID)
		if court == nil {
			return fmt.Errorf("%w: %s", ErrCourtNotFound, courtID)
		}
		if court.Status == models.CourtInUse {
			return fmt.Errorf("%w: free the court before changing its status", ErrCourtNotAvailable)
		}
		court.Status = status
		return nil
	})
}

func (s *courtService) mutate(ctx context.Context, tournamentID string, fn func(*models.Tournament) error) (*models.Tournament, error) {
	current, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	t := current.Clone()
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, t); err != nil {
		return nil, err
	}
	s.hub.BroadcastToRoom(roomForTournament(t.ID), brackets.EventCourtUpdated, t.Courts)
	return t, nil
}

func (s *courtService) load(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *courtService) persist(ctx context.Context, t *models.Tournament) error {
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
