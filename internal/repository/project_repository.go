package repository

import (
	"database/sql"
	"fmt"
	"time"

	"Mansoor88-6/punch-tracker/internal/models"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *models.Project) error {
	query := `
		INSERT INTO projects (unique_id, name, status, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		query,
		project.UniqueID,
		project.Name,
		string(project.Status),
		project.CreatedAt.UnixNano(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	project.ID = id
	return nil
}

func (r *ProjectRepository) List() ([]*models.Project, error) {
	rows, err := r.db.Query(`
		SELECT id, unique_id, name, status, created_at
		FROM projects
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var (
			project   models.Project
			status    string
			createdAt int64
		)
		if err := rows.Scan(&project.ID, &project.UniqueID, &project.Name, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		project.Status = models.ProjectStatus(status)
		project.CreatedAt = time.Unix(0, createdAt)
		projects = append(projects, &project)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) Update(project *models.Project) error {
	result, err := r.db.Exec(`
		UPDATE projects
		SET name = ?, status = ?
		WHERE unique_id = ?
	`, project.Name, string(project.Status), project.UniqueID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return expectOneRow(result, "project")
}

// Delete removes the project; its time entries go with it through the
// foreign key cascade.
func (r *ProjectRepository) Delete(uniqueID string) error {
	result, err := r.db.Exec("DELETE FROM projects WHERE unique_id = ?", uniqueID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return expectOneRow(result, "project")
}
