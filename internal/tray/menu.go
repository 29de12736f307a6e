package tray

import (
	"fmt"
	"time"

	"Mansoor88-6/punch-tracker/internal/models"
)

// slotState is what one project menu entry shows.
type slotState struct {
	Project *models.Project
	Title   string
	Checked bool
}

// menuState is the full content of the tray menu at one instant.
type menuState struct {
	Title       string
	Tooltip     string
	ToggleTitle string
	ToggleOn    bool
	Slots       []slotState
	Overflow    int
}

// snapshot is the view model data a menu is rendered from.
type snapshot struct {
	PunchedIn bool
	Current   *models.TimeEntry
	Selected  *models.Project
	Active    []*models.Project
}

func render(s snapshot, maxSlots int, now time.Time) menuState {
	var m menuState

	switch {
	case s.PunchedIn && s.Current != nil:
		elapsed := formatElapsed(s.Current.Duration(now))
		name := ""
		if s.Current.Project != nil {
			name = s.Current.Project.DisplayName()
		}
		m.Title = elapsed
		m.Tooltip = fmt.Sprintf("Punched in: %s (%s)", name, elapsed)
		m.ToggleTitle = "Punch out"
		m.ToggleOn = true
	case s.Selected != nil:
		m.Tooltip = "Punched out"
		m.ToggleTitle = "Punch in: " + s.Selected.DisplayName()
		m.ToggleOn = true
	default:
		m.Tooltip = "Punched out"
		m.ToggleTitle = "Punch in"
	}

	for i, p := range s.Active {
		if i == maxSlots {
			m.Overflow = len(s.Active) - maxSlots
			break
		}
		m.Slots = append(m.Slots, slotState{
			Project: p,
			Title:   p.DisplayName(),
			Checked: p == s.Selected,
		})
	}
	return m
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Minute)
	return fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
