package selection

import (
	"errors"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/event"
	"Mansoor88-6/punch-tracker/internal/models"

	"go.uber.org/zap"
)

var (
	ErrProjectClosed = errors.New("project is closed")
	ErrNotInDataSet  = errors.New("project is not in the active dataset")
)

// Policy decides whether p may become the selection. A non-nil error vetoes
// the change; the error only explains the veto in logs.
type Policy func(p *models.Project) error

// AllowAll accepts every project.
func AllowAll(*models.Project) error { return nil }

// RejectClosed vetoes closed projects.
func RejectClosed(p *models.Project) error {
	if p.IsClosed() {
		return ErrProjectClosed
	}
	return nil
}

// InDataSet vetoes projects that are not part of the dataset returned by current.
func InDataSet(current func() dataset.ProjectTimeStore) Policy {
	return func(p *models.Project) error {
		if !dataset.Contains(current(), p) {
			return ErrNotInDataSet
		}
		return nil
	}
}

// All combines policies; the first veto wins.
func All(policies ...Policy) Policy {
	return func(p *models.Project) error {
		for _, policy := range policies {
			if err := policy(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// Manager holds the one selected project. Selection only changes through
// SetSelectedProject, and only when the policy agrees.
type Manager struct {
	selected *models.Project
	policy   Policy
	changed  event.Feed[*models.Project]
	logger   *zap.Logger
}

// NewManager creates a manager with nothing selected.
func NewManager(policy Policy, logger *zap.Logger) *Manager {
	if policy == nil {
		policy = AllowAll
	}
	return &Manager{
		policy: policy,
		logger: logger,
	}
}

// SelectedProject returns the current selection, or nil.
func (m *Manager) SelectedProject() *models.Project {
	return m.selected
}

// SetSelectedProject asks to select p; nil clears the selection and is always
// accepted. Re-selecting the current project is accepted without an event.
// A veto returns false and leaves everything as it was.
func (m *Manager) SetSelectedProject(p *models.Project) bool {
	if p == m.selected {
		return true
	}
	if p != nil {
		if err := m.policy(p); err != nil {
			m.logger.Debug("Selection rejected",
				zap.String("project_uid", p.UniqueID),
				zap.Error(err),
			)
			return false
		}
	}

	m.selected = p
	m.changed.Send(p)
	return true
}

// Clear drops the selection.
func (m *Manager) Clear() {
	m.SetSelectedProject(nil)
}

// Revalidate re-applies the policy to the current selection and clears it if
// it no longer passes. It reports whether the selection was cleared.
func (m *Manager) Revalidate() bool {
	if m.selected == nil {
		return false
	}
	if err := m.policy(m.selected); err != nil {
		m.logger.Info("Selected project no longer eligible",
			zap.String("project_uid", m.selected.UniqueID),
			zap.Error(err),
		)
		m.Clear()
		return true
	}
	return false
}

// SubscribeSelectedProjectChanged registers fn for accepted selection changes.
func (m *Manager) SubscribeSelectedProjectChanged(fn func(*models.Project)) *event.Subscription {
	return m.changed.Subscribe(fn)
}
