package service

import (
	"errors"
	"slices"
	"time"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/selection"
	"Mansoor88-6/punch-tracker/internal/tracker"

	"go.uber.org/zap"
)

var (
	ErrNoDataSet        = errors.New("no active dataset")
	ErrNoProject        = errors.New("no project given")
	ErrUnknownProject   = errors.New("project is not in the active dataset")
	ErrProjectClosed    = errors.New("project is closed")
	ErrAlreadyPunchedIn = errors.New("already punched in to this project")
	ErrNotPunchedIn     = errors.New("not punched in")
	ErrEntryNotCreated  = errors.New("time entry was not created")
	ErrEntryNotClosed   = errors.New("time entry could not be closed")
)

// PunchService starts and stops punch sessions on the active dataset. It
// keeps at most one open entry across the whole dataset: punching into a
// project while another session is open switches over at the same instant.
type PunchService struct {
	instance *tracker.Instance
	manager  *selection.Manager
	now      func() time.Time
	logger   *zap.Logger
}

func NewPunchService(instance *tracker.Instance, manager *selection.Manager, logger *zap.Logger) *PunchService {
	return &PunchService{
		instance: instance,
		manager:  manager,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the time source.
func (s *PunchService) SetClock(now func() time.Time) {
	s.now = now
}

// Current returns the open entry, or nil.
func (s *PunchService) Current() *models.TimeEntry {
	return dataset.FirstOpenTime(s.instance.DataSet())
}

// PunchIn opens a session for p and selects it.
func (s *PunchService) PunchIn(p *models.Project) (*models.TimeEntry, error) {
	ds := s.instance.DataSet()
	if ds == nil {
		return nil, ErrNoDataSet
	}
	if p == nil {
		return nil, ErrNoProject
	}
	if !dataset.Contains(ds, p) {
		return nil, ErrUnknownProject
	}
	if p.IsClosed() {
		return nil, ErrProjectClosed
	}

	now := s.now()
	open := dataset.FirstOpenTime(ds)
	if open != nil && open.Project == p {
		return open, ErrAlreadyPunchedIn
	}

	// open the new session first so a failed write leaves the old one running
	entry := ds.CreateTime(p, now, nil)
	if entry == nil {
		return nil, ErrEntryNotCreated
	}
	if open != nil {
		if !ds.EndTime(open, now) {
			ds.DeleteTime(entry)
			if slices.Contains(dataset.TimesFor(ds, p), entry) {
				s.logger.Error("Failed to roll back switch; two sessions are open",
					zap.String("project_uid", p.UniqueID),
				)
			}
			return nil, ErrEntryNotClosed
		}
		s.logger.Info("Punched out for switch",
			zap.String("project_uid", open.ProjectUID()),
			zap.Duration("duration", open.Duration(now)),
		)
	}
	s.manager.SetSelectedProject(p)

	s.logger.Info("Punched in",
		zap.String("project_uid", p.UniqueID),
		zap.String("project", p.Name),
	)
	return entry, nil
}

// PunchInSelected punches into the selected project.
func (s *PunchService) PunchInSelected() (*models.TimeEntry, error) {
	return s.PunchIn(s.manager.SelectedProject())
}

// PunchOut closes the open session.
func (s *PunchService) PunchOut() (*models.TimeEntry, error) {
	ds := s.instance.DataSet()
	if ds == nil {
		return nil, ErrNoDataSet
	}
	open := dataset.FirstOpenTime(ds)
	if open == nil {
		return nil, ErrNotPunchedIn
	}

	now := s.now()
	if !ds.EndTime(open, now) {
		return nil, ErrEntryNotClosed
	}

	s.logger.Info("Punched out",
		zap.String("project_uid", open.ProjectUID()),
		zap.Duration("duration", open.Duration(now)),
	)
	return open, nil
}

// Toggle punches out when a session is open, otherwise into the selected project.
func (s *PunchService) Toggle() (*models.TimeEntry, error) {
	if s.Current() != nil {
		return s.PunchOut()
	}
	return s.PunchInSelected()
}
