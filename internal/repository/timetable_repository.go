package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campusone/timetable-api/internal/models"
)

// TimetableRepository persists versioned generation results.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a timetable assigning the next version.
func (r *TimetableRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable) error {
	if timetable == nil {
		return fmt.Errorf("timetable payload is nil")
	}
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	if timetable.Status == "" {
		timetable.Status = models.TimetableStatusDraft
	}
	if len(timetable.Meta) == 0 {
		timetable.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM timetables`
	if err := sqlx.GetContext(ctx, target, &timetable.Version, nextVersionQuery); err != nil {
		return fmt.Errorf("compute next timetable version: %w", err)
	}

	const insertQuery = `
INSERT INTO timetables (id, version, status, meta, created_at, updated_at)
VALUES (:id, :version, :status, :meta, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, timetable); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}
	return nil
}

// InsertEntries stores the generated entry sequence. Seq preserves the
// generation order.
func (r *TimetableRepository) InsertEntries(ctx context.Context, exec sqlx.ExtContext, rows []models.TimetableRow) error {
	if len(rows) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const insertQuery = `
INSERT INTO timetable_entries
	(id, timetable_id, seq, day, start_time, end_time, subject_id, faculty_id, resource_id, class_id, batch, created_at)
VALUES
	(:id, :timetable_id, :seq, :day, :start_time, :end_time, :subject_id, :faculty_id, :resource_id, :class_id, :batch, :created_at)`
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, rows[i]); err != nil {
			return fmt.Errorf("insert timetable entry %d: %w", rows[i].Seq, err)
		}
	}
	return nil
}

// List returns stored timetables, newest version first.
func (r *TimetableRepository) List(ctx context.Context) ([]models.Timetable, error) {
	const query = `SELECT id, version, status, meta, created_at, updated_at
FROM timetables ORDER BY version DESC`
	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, query); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, nil
}

// FindByID loads a timetable by its identifier.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	const query = `SELECT id, version, status, meta, created_at, updated_at FROM timetables WHERE id = $1`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// ListEntries returns the stored entry sequence in generation order.
func (r *TimetableRepository) ListEntries(ctx context.Context, timetableID string) ([]models.TimetableRow, error) {
	const query = `SELECT id, timetable_id, seq, day, start_time, end_time, subject_id, faculty_id, resource_id, class_id, batch, created_at
FROM timetable_entries WHERE timetable_id = $1 ORDER BY seq ASC`
	var rows []models.TimetableRow
	if err := r.db.SelectContext(ctx, &rows, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return rows, nil
}

// Delete removes a stored timetable along with its entries.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	const deleteEntries = `DELETE FROM timetable_entries WHERE timetable_id = $1`
	if _, err := r.db.ExecContext(ctx, deleteEntries, id); err != nil {
		return fmt.Errorf("delete timetable entries: %w", err)
	}

	const deleteTimetable = `DELETE FROM timetables WHERE id = $1`
	result, err := r.db.ExecContext(ctx, deleteTimetable, id)
	if err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions a stored timetable's lifecycle status.
func (r *TimetableRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.TimetableStatus) error {
	target := r.exec(exec)

	const query = `UPDATE timetables SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := target.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update timetable status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
