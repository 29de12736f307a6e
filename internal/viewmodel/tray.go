// Package viewmodel keeps per-surface mirrors of the shared dataset.
package viewmodel

import (
	"slices"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/event"
	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/selection"
	"Mansoor88-6/punch-tracker/internal/tracker"

	"go.uber.org/zap"
)

// Property names a mirrored value that changed.
type Property string

const (
	PropertyIsPunchedIn     Property = "IsPunchedIn"
	PropertySelectedProject Property = "SelectedProject"
	PropertyActiveProjects  Property = "ActiveProjects"
)

// Tray mirrors what a status surface shows: the projects that can be punched
// into, whether a session is open, and the selected project. It never polls;
// every value is re-derived from store, selection and dataset events.
type Tray struct {
	instance *tracker.Instance
	manager  *selection.Manager
	logger   *zap.Logger

	dataset        dataset.ProjectTimeStore
	activeProjects []*models.Project
	isPunchedIn    bool
	selected       *models.Project

	datasetSubs event.Group
	ownSubs     event.Group
	changed     event.Feed[Property]
}

// NewTray attaches to the instance's current dataset and to manager.
func NewTray(instance *tracker.Instance, manager *selection.Manager, logger *zap.Logger) *Tray {
	vm := &Tray{
		instance: instance,
		manager:  manager,
		logger:   logger,
		selected: manager.SelectedProject(),
	}

	vm.ownSubs.Add(
		instance.SubscribeDataSetChanged(vm.onDataSetChanged),
		manager.SubscribeSelectedProjectChanged(vm.onSelectedProjectChanged),
	)
	vm.attach(instance.DataSet())
	return vm
}

// ActiveProjects returns a copy of the non-closed projects in store order.
func (vm *Tray) ActiveProjects() []*models.Project {
	return slices.Clone(vm.activeProjects)
}

// IsPunchedIn reports whether the attached dataset has an open time entry.
func (vm *Tray) IsPunchedIn() bool {
	return vm.isPunchedIn
}

// SelectedProject returns the mirrored selection.
func (vm *Tray) SelectedProject() *models.Project {
	return vm.selected
}

// SetSelectedProject forwards a user's selection to the manager. The mirror
// only moves when the manager announces the change, so a veto leaves the
// exposed value exactly as it was.
func (vm *Tray) SetSelectedProject(p *models.Project) bool {
	if p == vm.selected {
		return true
	}
	return vm.manager.SetSelectedProject(p)
}

// SubscribePropertyChanged registers fn for mirrored value changes.
func (vm *Tray) SubscribePropertyChanged(fn func(Property)) *event.Subscription {
	return vm.changed.Subscribe(fn)
}

// Close detaches from every source. The mirror keeps its last values.
func (vm *Tray) Close() {
	vm.datasetSubs.Unsubscribe()
	vm.ownSubs.Unsubscribe()
	vm.dataset = nil
}

func (vm *Tray) onDataSetChanged(change tracker.DataSetChange) {
	vm.datasetSubs.Unsubscribe()
	vm.attach(change.New)
}

func (vm *Tray) attach(ds dataset.ProjectTimeStore) {
	vm.dataset = ds
	if ds != nil {
		vm.datasetSubs.Add(
			ds.SubscribeProjectsChanged(vm.onProjectsChanged),
			ds.SubscribeProjectTimeChanged(vm.onProjectTimeChanged),
		)
	}

	// nothing from the previous dataset may stay visible
	vm.onProjectsChanged()
	vm.setPunchedIn(dataset.FirstOpenTime(ds) != nil)
}

func (vm *Tray) onProjectsChanged() {
	vm.activeProjects = vm.activeProjects[:0:0]
	if vm.dataset != nil {
		for p := range vm.dataset.Projects() {
			if !p.IsClosed() {
				vm.activeProjects = append(vm.activeProjects, p)
			}
		}
	}
	vm.changed.Send(PropertyActiveProjects)
}

func (vm *Tray) onProjectTimeChanged(ds dataset.ProjectTimeStore) {
	if ds != vm.dataset {
		vm.logger.Warn("Ignoring time change from a detached dataset")
		return
	}
	vm.setPunchedIn(dataset.FirstOpenTime(ds) != nil)
}

func (vm *Tray) onSelectedProjectChanged(p *models.Project) {
	if p == vm.selected {
		return
	}
	vm.selected = p
	vm.changed.Send(PropertySelectedProject)
}

func (vm *Tray) setPunchedIn(value bool) {
	if value == vm.isPunchedIn {
		return
	}
	vm.isPunchedIn = value
	vm.changed.Send(PropertyIsPunchedIn)
}
