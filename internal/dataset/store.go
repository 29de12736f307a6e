package dataset

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"Mansoor88-6/punch-tracker/internal/event"
	"Mansoor88-6/punch-tracker/internal/models"

	"go.uber.org/zap"
)

// ErrDuplicateOpenTime is published on the fault feed when a caller tries to
// open a second session for the same project.
var ErrDuplicateOpenTime = errors.New("project already has an open time entry")

// Store is the in-process ProjectTimeStore. It keeps one object per project
// and entry so that pointer identity is stable, and writes every mutation
// through to its Backend before applying it in memory.
type Store struct {
	backend  Backend
	projects []*models.Project
	times    []*models.TimeEntry
	now      func() time.Time
	logger   *zap.Logger

	projectsChanged    event.Feed[struct{}]
	projectTimeChanged event.Feed[ProjectTimeStore]
	faults             event.Feed[error]
}

var _ ProjectTimeStore = (*Store)(nil)

// NewMemory creates a store that keeps everything in memory.
func NewMemory(logger *zap.Logger) *Store {
	return &Store{
		now:    time.Now,
		logger: logger,
	}
}

// Open loads a store from backend.
func Open(backend Backend, logger *zap.Logger) (*Store, error) {
	projects, times, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	s := NewMemory(logger)
	s.backend = backend
	s.projects = projects
	s.times = times

	logger.Info("Dataset loaded",
		zap.Int("projects", len(projects)),
		zap.Int("time_entries", len(times)),
	)
	return s, nil
}

// SetClock replaces the time source used for CreatedAt stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// CreateProject adds an unnamed active project and announces it.
func (s *Store) CreateProject() *models.Project {
	return s.insertProject(models.NewProject(s.now()))
}

// ImportProject adds a project that keeps the identity fields of src. It
// returns the existing project when one with the same unique id is present.
func (s *Store) ImportProject(src models.Project) *models.Project {
	if src.UniqueID == "" {
		src.UniqueID = models.NewUniqueID()
	}
	if existing := s.projectByUID(src.UniqueID); existing != nil {
		return existing
	}
	if !src.Status.Valid() {
		src.Status = models.ProjectStatusActive
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = s.now()
	}
	src.ID = 0
	return s.insertProject(&src)
}

func (s *Store) insertProject(p *models.Project) *models.Project {
	if s.backend != nil {
		if err := s.backend.InsertProject(p); err != nil {
			s.fault("create project", err)
			return nil
		}
	}
	s.projects = append(s.projects, p)
	s.logger.Debug("Project created", zap.String("project_uid", p.UniqueID))
	s.projectsChanged.Send(struct{}{})
	return p
}

// DeleteProject removes p together with its time entries.
func (s *Store) DeleteProject(p *models.Project) {
	idx := slices.Index(s.projects, p)
	if p == nil || idx < 0 {
		return
	}
	if s.backend != nil {
		if err := s.backend.DeleteProject(p); err != nil {
			s.fault("delete project", err)
			return
		}
	}

	s.projects = slices.Delete(s.projects, idx, idx+1)
	before := len(s.times)
	s.times = slices.DeleteFunc(s.times, func(e *models.TimeEntry) bool {
		return e.Project == p
	})
	removed := before - len(s.times)

	s.logger.Debug("Project deleted",
		zap.String("project_uid", p.UniqueID),
		zap.Int("time_entries_removed", removed),
	)
	s.projectsChanged.Send(struct{}{})
	if removed > 0 {
		s.projectTimeChanged.Send(s)
	}
}

// RenameProject changes p's display name.
func (s *Store) RenameProject(p *models.Project, name string) bool {
	if p == nil || p.Name == name || !slices.Contains(s.projects, p) {
		return false
	}
	next := *p
	next.Name = name
	return s.updateProject(p, next)
}

// SetProjectStatus moves p to status.
func (s *Store) SetProjectStatus(p *models.Project, status models.ProjectStatus) bool {
	if p == nil || !status.Valid() || p.Status == status || !slices.Contains(s.projects, p) {
		return false
	}
	next := *p
	next.Status = status
	return s.updateProject(p, next)
}

func (s *Store) updateProject(p *models.Project, next models.Project) bool {
	if s.backend != nil {
		if err := s.backend.UpdateProject(&next); err != nil {
			s.fault("update project", err)
			return false
		}
	}
	*p = next
	s.projectsChanged.Send(struct{}{})
	return true
}

// Projects enumerates the projects present when iteration starts.
func (s *Store) Projects() iter.Seq[*models.Project] {
	return func(yield func(*models.Project) bool) {
		for _, p := range slices.Clone(s.projects) {
			if !yield(p) {
				return
			}
		}
	}
}

// Times enumerates the entries present when iteration starts.
func (s *Store) Times() iter.Seq[*models.TimeEntry] {
	return func(yield func(*models.TimeEntry) bool) {
		for _, e := range slices.Clone(s.times) {
			if !yield(e) {
				return
			}
		}
	}
}

// CreateTime records a new entry for p; a nil end opens a session.
func (s *Store) CreateTime(p *models.Project, start time.Time, end *time.Time) *models.TimeEntry {
	if p == nil || !slices.Contains(s.projects, p) {
		return nil
	}
	if end != nil && end.Before(start) {
		return nil
	}
	if end == nil && OpenTimeFor(s, p) != nil {
		s.logger.Error("Refusing second open time entry",
			zap.String("project_uid", p.UniqueID),
		)
		s.faults.Send(ErrDuplicateOpenTime)
		return nil
	}

	entry := &models.TimeEntry{Project: p, Start: start}
	if end != nil {
		t := *end
		entry.End = &t
	}
	if s.backend != nil {
		if err := s.backend.InsertTime(entry); err != nil {
			s.fault("create time entry", err)
			return nil
		}
	}

	s.times = append(s.times, entry)
	s.projectTimeChanged.Send(s)
	return entry
}

// EndTime closes an open entry at end.
func (s *Store) EndTime(e *models.TimeEntry, end time.Time) bool {
	if e == nil || !e.IsOpen() || end.Before(e.Start) || !slices.Contains(s.times, e) {
		return false
	}
	next := *e
	next.End = &end
	if s.backend != nil {
		if err := s.backend.UpdateTime(&next); err != nil {
			s.fault("end time entry", err)
			return false
		}
	}
	*e = next
	s.projectTimeChanged.Send(s)
	return true
}

// DeleteTime removes e.
func (s *Store) DeleteTime(e *models.TimeEntry) {
	idx := slices.Index(s.times, e)
	if e == nil || idx < 0 {
		return
	}
	if s.backend != nil {
		if err := s.backend.DeleteTime(e); err != nil {
			s.fault("delete time entry", err)
			return
		}
	}
	s.times = slices.Delete(s.times, idx, idx+1)
	s.projectTimeChanged.Send(s)
}

// Refresh fires both change events without mutating anything.
func (s *Store) Refresh() {
	s.projectsChanged.Send(struct{}{})
	s.projectTimeChanged.Send(s)
}

// SubscribeProjectsChanged registers fn for project membership or status changes.
func (s *Store) SubscribeProjectsChanged(fn func()) *event.Subscription {
	return s.projectsChanged.Subscribe(func(struct{}) { fn() })
}

// SubscribeProjectTimeChanged registers fn for time entry changes.
func (s *Store) SubscribeProjectTimeChanged(fn func(ProjectTimeStore)) *event.Subscription {
	return s.projectTimeChanged.Subscribe(fn)
}

// SubscribeFaults registers fn for backing-store failures.
func (s *Store) SubscribeFaults(fn func(error)) *event.Subscription {
	return s.faults.Subscribe(fn)
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("failed to close backend: %w", err)
	}
	return nil
}

func (s *Store) projectByUID(uid string) *models.Project {
	for _, p := range s.projects {
		if p.UniqueID == uid {
			return p
		}
	}
	return nil
}

func (s *Store) fault(op string, err error) {
	err = fmt.Errorf("failed to %s: %w", op, err)
	s.logger.Error("Backing store operation failed", zap.String("op", op), zap.Error(err))
	s.faults.Send(err)
}
