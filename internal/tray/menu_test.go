package tray

import (
	"testing"
	"time"

	"Mansoor88-6/punch-tracker/internal/models"
)

var t0 = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func project(name string) *models.Project {
	p := models.NewProject(t0)
	p.Name = name
	return p
}

func TestRenderPunchedOut(t *testing.T) {
	a, b := project("A"), project("B")

	m := render(snapshot{Active: []*models.Project{a, b}}, 10, t0)
	if m.ToggleOn || m.ToggleTitle != "Punch in" || m.Title != "" {
		t.Fatalf("unexpected toggle %+v", m)
	}
	if len(m.Slots) != 2 || m.Slots[0].Checked || m.Slots[1].Checked {
		t.Fatalf("slots = %+v", m.Slots)
	}

	m = render(snapshot{Active: []*models.Project{a, b}, Selected: b}, 10, t0)
	if !m.ToggleOn || m.ToggleTitle != "Punch in: B" {
		t.Fatalf("toggle with selection = %+v", m)
	}
	if m.Slots[0].Checked || !m.Slots[1].Checked {
		t.Fatalf("checked slot does not follow selection: %+v", m.Slots)
	}
}

func TestRenderPunchedIn(t *testing.T) {
	a := project("A")
	entry := &models.TimeEntry{Project: a, Start: t0}

	m := render(snapshot{PunchedIn: true, Current: entry, Selected: a, Active: []*models.Project{a}}, 10, t0.Add(95*time.Minute+30*time.Second))
	if m.Title != "1:35" {
		t.Fatalf("Title = %q, want 1:35", m.Title)
	}
	if m.ToggleTitle != "Punch out" || m.Tooltip != "Punched in: A (1:35)" {
		t.Fatalf("unexpected menu %+v", m)
	}
}

func TestRenderOverflow(t *testing.T) {
	var active []*models.Project
	for _, name := range []string{"A", "B", "C", "D"} {
		active = append(active, project(name))
	}

	m := render(snapshot{Active: active}, 3, t0)
	if len(m.Slots) != 3 || m.Overflow != 1 {
		t.Fatalf("slots = %d overflow = %d, want 3 and 1", len(m.Slots), m.Overflow)
	}
	if m.Slots[2].Title != "C" {
		t.Fatalf("slot order = %+v", m.Slots)
	}
}
