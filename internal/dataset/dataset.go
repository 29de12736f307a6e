// Package dataset holds the authoritative collections of projects and time
// entries and announces every change to them.
package dataset

import (
	"iter"
	"strings"
	"time"

	"Mansoor88-6/punch-tracker/internal/event"
	"Mansoor88-6/punch-tracker/internal/models"
)

// ProjectTimeStore is the shared dataset every surface synchronizes against.
// All calls are synchronous and expected on a single goroutine.
type ProjectTimeStore interface {
	// CreateProject adds an unnamed active project. Returns nil if the
	// backing store refused it.
	CreateProject() *models.Project

	// DeleteProject removes p and its time entries. Absent projects are ignored.
	DeleteProject(p *models.Project)

	// RenameProject and SetProjectStatus report whether anything changed.
	RenameProject(p *models.Project, name string) bool
	SetProjectStatus(p *models.Project, status models.ProjectStatus) bool

	// Projects and Times enumerate a snapshot in creation order.
	Projects() iter.Seq[*models.Project]
	Times() iter.Seq[*models.TimeEntry]

	// CreateTime starts an entry for p. A nil end opens a punch session. A nil
	// result means no entry was created.
	CreateTime(p *models.Project, start time.Time, end *time.Time) *models.TimeEntry

	// EndTime closes an open entry.
	EndTime(e *models.TimeEntry, end time.Time) bool

	// DeleteTime removes e. Absent entries are ignored.
	DeleteTime(e *models.TimeEntry)

	// Refresh tells subscribers to re-derive everything.
	Refresh()

	SubscribeProjectsChanged(fn func()) *event.Subscription
	SubscribeProjectTimeChanged(fn func(ProjectTimeStore)) *event.Subscription
	SubscribeFaults(fn func(error)) *event.Subscription

	Close() error
}

// Backend persists store mutations. Implementations must not retain the
// pointers they are handed beyond the call, except through Load.
type Backend interface {
	Load() ([]*models.Project, []*models.TimeEntry, error)
	InsertProject(p *models.Project) error
	UpdateProject(p *models.Project) error
	DeleteProject(p *models.Project) error
	InsertTime(e *models.TimeEntry) error
	UpdateTime(e *models.TimeEntry) error
	DeleteTime(e *models.TimeEntry) error
	Close() error
}

// FirstOpenTime returns the first open entry across the whole dataset, or nil.
func FirstOpenTime(ds ProjectTimeStore) *models.TimeEntry {
	if ds == nil {
		return nil
	}
	for e := range ds.Times() {
		if e.IsOpen() {
			return e
		}
	}
	return nil
}

// OpenTimeFor returns p's open entry, or nil.
func OpenTimeFor(ds ProjectTimeStore, p *models.Project) *models.TimeEntry {
	if ds == nil || p == nil {
		return nil
	}
	for e := range ds.Times() {
		if e.Project == p && e.IsOpen() {
			return e
		}
	}
	return nil
}

// Contains reports whether p belongs to ds.
func Contains(ds ProjectTimeStore, p *models.Project) bool {
	if ds == nil || p == nil {
		return false
	}
	for candidate := range ds.Projects() {
		if candidate == p {
			return true
		}
	}
	return false
}

// FindProject looks a project up by unique id, then by case-insensitive name.
func FindProject(ds ProjectTimeStore, key string) *models.Project {
	if ds == nil || key == "" {
		return nil
	}
	var byName *models.Project
	for p := range ds.Projects() {
		if p.UniqueID == key {
			return p
		}
		if byName == nil && strings.EqualFold(p.Name, key) {
			byName = p
		}
	}
	return byName
}

// TimesFor collects p's entries in store order.
func TimesFor(ds ProjectTimeStore, p *models.Project) []*models.TimeEntry {
	var entries []*models.TimeEntry
	for e := range ds.Times() {
		if e.Project == p {
			entries = append(entries, e)
		}
	}
	return entries
}

// Copy replays every project and entry of src into dst, keeping project
// identities. Projects already present in dst are reused and entries that
// dst already has for the same project and start are skipped, so copying
// twice is harmless. It returns the number of projects and entries copied.
func Copy(src ProjectTimeStore, dst *Store) (projects int, times int) {
	type entryKey struct {
		project string
		start   int64
	}
	seen := make(map[entryKey]bool)
	for e := range dst.Times() {
		seen[entryKey{e.ProjectUID(), e.Start.UnixNano()}] = true
	}

	mapping := make(map[*models.Project]*models.Project)
	for p := range src.Projects() {
		clone := dst.ImportProject(*p)
		if clone == nil {
			continue
		}
		mapping[p] = clone
		projects++
	}
	for e := range src.Times() {
		target, ok := mapping[e.Project]
		if !ok || seen[entryKey{target.UniqueID, e.Start.UnixNano()}] {
			continue
		}
		var end *time.Time
		if e.End != nil {
			t := *e.End
			end = &t
		}
		if dst.CreateTime(target, e.Start, end) != nil {
			times++
		}
	}
	return projects, times
}
