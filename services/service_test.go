package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/brackethq/tournament-engine/brackets"
	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/repositories"
	"github.com/brackethq/tournament-engine/utils"
)

// memoryRepo is an in-memory TournamentRepository for service tests. It
// hands out clones the same way the Postgres implementation decodes fresh
// snapshots, so aliasing bugs in the services would surface here too.
type memoryRepo struct {
	mu          sync.Mutex
	tournaments map[string]*models.Tournament
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tournaments: make(map[string]*models.Tournament)}
}

func (r *memoryRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	r.tournaments[t.ID] = t.Clone()
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t.Clone(), nil
}

func (r *memoryRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		if filter.Format != nil && t.Format != *filter.Format {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t.Clone())
	}
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	next := t.Clone()
	next.UpdatedAt = time.Now().UTC()
	r.tournaments[t.ID] = next
	t.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

// testEnv bundles the service constructor inputs every service test needs.
type testEnv struct {
	repo   *memoryRepo
	hub    *brackets.Hub
	idGen  *utils.SequentialIDGenerator
	logger *slog.Logger
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		repo:   newMemoryRepo(),
		hub:    brackets.NewHub(logger),
		idGen:  &utils.SequentialIDGenerator{Prefix: "id"},
		logger: logger,
	}
}

func (e *testEnv) tournaments() TournamentService {
	return NewTournamentService(e.repo, e.hub, e.idGen, e.logger)
}

func (e *testEnv) stagesSvc() StageService {
	return NewStageService(e.repo, e.hub, e.idGen, e.logger)
}

func (e *testEnv) matches() MatchService {
	return NewMatchService(e.repo, e.hub, e.logger)
}

func (e *testEnv) courts() CourtService {
	return NewCourtService(e.repo, e.hub, e.logger)
}

// seed stores a tournament directly, bypassing the service layer.
func (e *testEnv) seed(t *models.Tournament) {
	e.repo.mu.Lock()
	defer e.repo.mu.Unlock()
	e.repo.tournaments[t.ID] = t.Clone()
}
