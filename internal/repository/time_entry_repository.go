package repository

import (
	"database/sql"
	"fmt"
	"time"

	"Mansoor88-6/punch-tracker/internal/models"
)

// TimeEntryRow is a time entry as stored: the project is referenced by unique id.
type TimeEntryRow struct {
	ID         int64
	ProjectUID string
	Start      time.Time
	End        *time.Time
}

type TimeEntryRepository struct {
	db *sql.DB
}

func NewTimeEntryRepository(db *sql.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(entry *models.TimeEntry) error {
	if entry.Project == nil {
		return fmt.Errorf("failed to create time entry: no project")
	}

	query := `
		INSERT INTO time_entries (project_uid, start_ns, end_ns)
		VALUES (?, ?, ?)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		query,
		entry.Project.UniqueID,
		entry.Start.UnixNano(),
		nullableNanos(entry.End),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	entry.ID = id
	return nil
}

func (r *TimeEntryRepository) List() ([]*TimeEntryRow, error) {
	rows, err := r.db.Query(`
		SELECT id, project_uid, start_ns, end_ns
		FROM time_entries
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []*TimeEntryRow
	for rows.Next() {
		var (
			row   TimeEntryRow
			start int64
			end   sql.NullInt64
		)
		if err := rows.Scan(&row.ID, &row.ProjectUID, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		row.Start = time.Unix(0, start)
		if end.Valid {
			t := time.Unix(0, end.Int64)
			row.End = &t
		}
		entries = append(entries, &row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

func (r *TimeEntryRepository) Update(entry *models.TimeEntry) error {
	result, err := r.db.Exec(`
		UPDATE time_entries
		SET start_ns = ?, end_ns = ?
		WHERE id = ?
	`, entry.Start.UnixNano(), nullableNanos(entry.End), entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}

	return expectOneRow(result, "time entry")
}

func (r *TimeEntryRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	return expectOneRow(result, "time entry")
}

func nullableNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func expectOneRow(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s not found", what)
	}

	return nil
}
