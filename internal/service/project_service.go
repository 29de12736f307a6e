package service

import (
	"errors"
	"strings"
	"time"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/tracker"

	"go.uber.org/zap"
)

var (
	ErrEmptyName         = errors.New("project name is empty")
	ErrProjectNotCreated = errors.New("project was not created")
	ErrProjectNotUpdated = errors.New("project was not updated")
)

// ProjectService resolves and edits projects of the active dataset by unique
// id or name.
type ProjectService struct {
	instance *tracker.Instance
	now      func() time.Time
	logger   *zap.Logger
}

func NewProjectService(instance *tracker.Instance, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		instance: instance,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the time source used to end sessions on close.
func (s *ProjectService) SetClock(now func() time.Time) {
	s.now = now
}

// Find resolves key by unique id, then by case-insensitive name.
func (s *ProjectService) Find(key string) (*models.Project, error) {
	ds := s.instance.DataSet()
	if ds == nil {
		return nil, ErrNoDataSet
	}
	if strings.TrimSpace(key) == "" {
		return nil, ErrNoProject
	}
	p := dataset.FindProject(ds, key)
	if p == nil {
		return nil, ErrUnknownProject
	}
	return p, nil
}

// List returns projects in store order, filtered by status when it is set.
func (s *ProjectService) List(status models.ProjectStatus) []*models.Project {
	ds := s.instance.DataSet()
	if ds == nil {
		return nil
	}
	var projects []*models.Project
	for p := range ds.Projects() {
		if status == "" || p.Status == status {
			projects = append(projects, p)
		}
	}
	return projects
}

// Create adds an active project called name.
func (s *ProjectService) Create(name string) (*models.Project, error) {
	ds := s.instance.DataSet()
	if ds == nil {
		return nil, ErrNoDataSet
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	p := ds.CreateProject()
	if p == nil {
		return nil, ErrProjectNotCreated
	}
	if !ds.RenameProject(p, name) {
		// keep the dataset free of unnamed leftovers
		ds.DeleteProject(p)
		return nil, ErrProjectNotCreated
	}

	s.logger.Info("Project created",
		zap.String("project_uid", p.UniqueID),
		zap.String("project", p.Name),
	)
	return p, nil
}

// Rename gives the project identified by key a new name.
func (s *ProjectService) Rename(key, name string) (*models.Project, error) {
	p, err := s.Find(key)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if p.Name != name && !s.instance.DataSet().RenameProject(p, name) {
		return nil, ErrProjectNotUpdated
	}
	return p, nil
}

// SetStatus moves the project identified by key to status. Closing the
// project that is punched in also closes its open entry.
func (s *ProjectService) SetStatus(key string, status models.ProjectStatus) (*models.Project, error) {
	p, err := s.Find(key)
	if err != nil {
		return nil, err
	}
	if p.Status == status {
		return p, nil
	}

	ds := s.instance.DataSet()
	if status == models.ProjectStatusClosed {
		if open := dataset.OpenTimeFor(ds, p); open != nil && !ds.EndTime(open, s.now()) {
			return nil, ErrEntryNotClosed
		}
	}
	if !ds.SetProjectStatus(p, status) {
		return nil, ErrProjectNotUpdated
	}

	s.logger.Info("Project status changed",
		zap.String("project_uid", p.UniqueID),
		zap.String("status", string(status)),
	)
	return p, nil
}

// Delete removes the project identified by key and its time entries.
func (s *ProjectService) Delete(key string) error {
	p, err := s.Find(key)
	if err != nil {
		return err
	}
	ds := s.instance.DataSet()
	ds.DeleteProject(p)
	if dataset.Contains(ds, p) {
		return ErrProjectNotUpdated
	}

	s.logger.Info("Project deleted", zap.String("project_uid", p.UniqueID))
	return nil
}
