package repository

import (
	"fmt"

	"Mansoor88-6/punch-tracker/internal/database"
	"Mansoor88-6/punch-tracker/internal/models"

	"go.uber.org/zap"
)

// Backend persists a dataset into SQLite.
type Backend struct {
	db       *database.DB
	projects *ProjectRepository
	times    *TimeEntryRepository
	logger   *zap.Logger
}

// NewBackend wraps an open database. Close closes db.
func NewBackend(db *database.DB, logger *zap.Logger) *Backend {
	return &Backend{
		db:       db,
		projects: NewProjectRepository(db.DB),
		times:    NewTimeEntryRepository(db.DB),
		logger:   logger,
	}
}

// Load reads every project and entry, linking entries to their projects.
// Entries whose project row is gone are skipped.
func (b *Backend) Load() ([]*models.Project, []*models.TimeEntry, error) {
	projects, err := b.projects.List()
	if err != nil {
		return nil, nil, err
	}
	rows, err := b.times.List()
	if err != nil {
		return nil, nil, err
	}

	byUID := make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		byUID[p.UniqueID] = p
	}

	entries := make([]*models.TimeEntry, 0, len(rows))
	for _, row := range rows {
		project, ok := byUID[row.ProjectUID]
		if !ok {
			b.logger.Warn("Skipping orphaned time entry",
				zap.Int64("id", row.ID),
				zap.String("project_uid", row.ProjectUID),
			)
			continue
		}
		entries = append(entries, &models.TimeEntry{
			ID:      row.ID,
			Project: project,
			Start:   row.Start,
			End:     row.End,
		})
	}

	return projects, entries, nil
}

func (b *Backend) InsertProject(p *models.Project) error {
	return b.projects.Create(p)
}

func (b *Backend) UpdateProject(p *models.Project) error {
	return b.projects.Update(p)
}

func (b *Backend) DeleteProject(p *models.Project) error {
	return b.projects.Delete(p.UniqueID)
}

func (b *Backend) InsertTime(e *models.TimeEntry) error {
	return b.times.Create(e)
}

func (b *Backend) UpdateTime(e *models.TimeEntry) error {
	return b.times.Update(e)
}

func (b *Backend) DeleteTime(e *models.TimeEntry) error {
	return b.times.Delete(e.ID)
}

func (b *Backend) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite backend: %w", err)
	}
	return nil
}
