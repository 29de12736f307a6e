package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive ProjectStatus = "active"
	ProjectStatusOnHold ProjectStatus = "on_hold"
	ProjectStatusClosed ProjectStatus = "closed"
)

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusClosed:
		return true
	}
	return false
}

// Project is something time can be punched against. UniqueID is the stable
// identity; Name is for display only and may change.
type Project struct {
	ID        int64         `json:"id"`
	UniqueID  string        `json:"unique_id"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewProject returns an unnamed active project with a fresh unique id.
func NewProject(now time.Time) *Project {
	return &Project{
		UniqueID:  NewUniqueID(),
		Status:    ProjectStatusActive,
		CreatedAt: now,
	}
}

// NewUniqueID generates a project identity.
func NewUniqueID() string {
	return uuid.NewString()
}

// IsClosed reports whether the project has been closed.
func (p *Project) IsClosed() bool {
	return p.Status == ProjectStatusClosed
}

// DisplayName returns the name, or a placeholder for projects that were never named.
func (p *Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	uid := p.UniqueID
	if len(uid) > 8 {
		uid = uid[:8]
	}
	return "(unnamed " + uid + ")"
}
