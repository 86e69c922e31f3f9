package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brackethq/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrTournamentStale        = errors.New("tournament snapshot is stale")
)

type ListTournamentsFilter struct {
	Format *models.TournamentFormat
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

// TournamentRepository persists whole tournament snapshots. The roster,
// matches and courts live in a JSONB payload column; the fields that list
// and filter queries need are kept as plain columns alongside it.
type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	Delete(ctx context.Context, id string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// snapshotPayload is the JSONB part of a tournament row.
type snapshotPayload struct {
	Teams            []models.Team          `json:"teams"`
	Matches          []models.Match         `json:"matches"`
	Courts           []models.Court         `json:"courts"`
	Categories       []models.Category      `json:"categories,omitempty"`
	ScoringSettings  models.ScoringSettings `json:"scoring_settings"`
	AutoAssignCourts bool                   `json:"auto_assign_courts"`
}

func marshalPayload(t *models.Tournament) ([]byte, error) {
	payload := snapshotPayload{
		Teams:            t.Teams,
		Matches:          t.Matches,
		Courts:           t.Courts,
		Categories:       t.Categories,
		ScoringSettings:  t.ScoringSettings,
		AutoAssignCourts: t.AutoAssignCourts,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tournament payload: %w", err)
	}
	return data, nil
}

func unmarshalPayload(data []byte, t *models.Tournament) error {
	var payload snapshotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal tournament payload: %w", err)
	}
	t.Teams = payload.Teams
	t.Matches = payload.Matches
	t.Courts = payload.Courts
	t.Categories = payload.Categories
	t.ScoringSettings = payload.ScoringSettings
	t.AutoAssignCourts = payload.AutoAssignCourts
	return nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	data, err := marshalPayload(t)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tournaments (id, name, format, status, current_stage, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err = executor.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Format, t.Status, t.CurrentStage, data,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT id, name, format, status, current_stage, payload, created_at, updated_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var data []byte
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Format, &t.Status, &t.CurrentStage, &data, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if err := unmarshalPayload(data, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT id, name, format, status, current_stage, payload, created_at, updated_at
		FROM tournaments
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argID)
		args = append(args, *filter.Format)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		var data []byte
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Format, &t.Status, &t.CurrentStage, &data, &t.CreatedAt, &t.UpdatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		if err := unmarshalPayload(data, &t); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

// Update overwrites the stored snapshot with the one passed in. The guard on
// updated_at rejects writes based on a snapshot that another writer has
// already replaced.
func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	data, err := marshalPayload(t)
	if err != nil {
		return err
	}

	query := `
		UPDATE tournaments SET
			name = $1,
			format = $2,
			status = $3,
			current_stage = $4,
			payload = $5,
			updated_at = now()
		WHERE id = $6 AND updated_at = $7
		RETURNING updated_at`

	err = executor.QueryRowContext(ctx, query,
		t.Name, t.Format, t.Status, t.CurrentStage, data,
		t.ID, t.UpdatedAt,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.classifyMissedUpdate(ctx, executor, t.ID)
		}
		return r.handleTournamentError(err)
	}
	return nil
}

// classifyMissedUpdate tells a stale snapshot apart from a deleted row.
func (r *postgresTournamentRepository) classifyMissedUpdate(ctx context.Context, executor SQLExecutor, id string) error {
	var exists bool
	err := executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrTournamentStale
	}
	return ErrTournamentNotFound
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	executor := r.getExecutor(nil)
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23505" && pqErr.Constraint == "tournaments_name_key" {
			return ErrTournamentNameConflict
		}
	}
	return err
}
