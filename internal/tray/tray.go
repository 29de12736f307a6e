// Package tray shows the punch state in the system tray.
package tray

import (
	"fmt"
	"sync"
	"time"

	"Mansoor88-6/punch-tracker/internal/app"
	"Mansoor88-6/punch-tracker/internal/loop"
	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/platform"
	"Mansoor88-6/punch-tracker/internal/viewmodel"

	"github.com/getlantern/systray"
	"go.uber.org/zap"
)

const tickInterval = 30 * time.Second

// Tray binds a viewmodel.Tray to a systray menu. Menu items are created once;
// project slots are a fixed pool that is retitled and hidden as the active
// projects change.
type Tray struct {
	loop         *loop.Loop
	app          *app.App
	maxSlots     int
	dashboardURL string
	logger       *zap.Logger

	// owned by the loop
	view  *viewmodel.Tray
	slots []*models.Project

	toggle    *systray.MenuItem
	items     []*systray.MenuItem
	overflow  *systray.MenuItem
	dashboard *systray.MenuItem
	quit      *systray.MenuItem

	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// New creates a tray. dashboardURL may be empty when the HTTP surface is off.
func New(l *loop.Loop, a *app.App, maxSlots int, dashboardURL string, logger *zap.Logger) *Tray {
	return &Tray{
		loop:         l,
		app:          a,
		maxSlots:     maxSlots,
		dashboardURL: dashboardURL,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Run shows the tray and blocks until Quit. It must be called from the
// main goroutine.
func (t *Tray) Run(onExit func()) {
	systray.Run(t.onReady, func() {
		t.stop()
		if onExit != nil {
			onExit()
		}
	})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(icon)
	systray.SetTooltip("Punch tracker")

	t.toggle = systray.AddMenuItem("Punch in", "Start or stop the current session")
	systray.AddSeparator()
	t.items = make([]*systray.MenuItem, t.maxSlots)
	for i := range t.items {
		t.items[i] = systray.AddMenuItemCheckbox("", "Select project", false)
		t.items[i].Hide()
	}
	t.overflow = systray.AddMenuItem("", "")
	t.overflow.Disable()
	t.overflow.Hide()
	systray.AddSeparator()
	if t.dashboardURL != "" {
		t.dashboard = systray.AddMenuItem("Open dashboard", t.dashboardURL)
	}
	t.quit = systray.AddMenuItem("Quit", "Stop tracking and exit")

	err := t.loop.Do(func() {
		t.view = viewmodel.NewTray(t.app.Instance, t.app.Selection, t.logger)
		t.view.SubscribePropertyChanged(func(viewmodel.Property) { t.refresh() })
		t.refresh()
	})
	if err != nil {
		t.logger.Error("Tray started after the event loop stopped", zap.Error(err))
		systray.Quit()
		return
	}

	t.wg.Add(2)
	go t.clickLoop()
	go t.tickLoop()

	t.logger.Info("Tray started", zap.Int("project_slots", t.maxSlots))
}

// refresh re-renders the whole menu. It runs on the loop.
func (t *Tray) refresh() {
	s := snapshot{
		PunchedIn: t.view.IsPunchedIn(),
		Current:   t.app.Punch.Current(),
		Selected:  t.view.SelectedProject(),
		Active:    t.view.ActiveProjects(),
	}
	m := render(s, t.maxSlots, time.Now())

	systray.SetTitle(m.Title)
	systray.SetTooltip(m.Tooltip)
	t.toggle.SetTitle(m.ToggleTitle)
	if m.ToggleOn {
		t.toggle.Enable()
	} else {
		t.toggle.Disable()
	}

	t.slots = t.slots[:0]
	for i, item := range t.items {
		if i >= len(m.Slots) {
			item.Hide()
			item.Uncheck()
			continue
		}
		slot := m.Slots[i]
		t.slots = append(t.slots, slot.Project)
		item.SetTitle(slot.Title)
		if slot.Checked {
			item.Check()
		} else {
			item.Uncheck()
		}
		item.Show()
	}

	if m.Overflow > 0 {
		t.overflow.SetTitle(fmt.Sprintf("%d more...", m.Overflow))
		t.overflow.Show()
	} else {
		t.overflow.Hide()
	}
}

func (t *Tray) clickLoop() {
	defer t.wg.Done()

	clicks := make(chan int)
	for i, item := range t.items {
		go forward(item.ClickedCh, clicks, i, t.stopChan)
	}

	var dashboardCh chan struct{}
	if t.dashboard != nil {
		dashboardCh = t.dashboard.ClickedCh
	}

	for {
		select {
		case <-t.toggle.ClickedCh:
			t.onToggle()
		case i := <-clicks:
			t.onSlot(i)
		case <-dashboardCh:
			if err := platform.OpenBrowser(t.dashboardURL); err != nil {
				t.logger.Warn("Failed to open dashboard", zap.Error(err))
			}
		case <-t.quit.ClickedCh:
			t.logger.Info("Quit requested from tray")
			systray.Quit()
			return
		case <-t.stopChan:
			return
		}
	}
}

func forward(from chan struct{}, to chan<- int, index int, stop <-chan struct{}) {
	for {
		select {
		case <-from:
			select {
			case to <- index:
			case <-stop:
				return
			}
		case <-stop:
			return
		}
	}
}

// tickLoop keeps the elapsed time in the title current.
func (t *Tray) tickLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.loop.Do(func() {
				if t.view.IsPunchedIn() {
					t.refresh()
				}
			})
		case <-t.stopChan:
			return
		}
	}
}

func (t *Tray) onToggle() {
	err := t.loop.Do(func() {
		if _, err := t.app.Punch.Toggle(); err != nil {
			t.logger.Warn("Punch toggle failed", zap.Error(err))
		}
	})
	if err != nil {
		t.logger.Debug("Toggle ignored", zap.Error(err))
	}
}

func (t *Tray) onSlot(i int) {
	t.loop.Do(func() {
		if i >= len(t.slots) {
			return
		}
		p := t.slots[i]
		if !t.view.SetSelectedProject(p) {
			t.logger.Info("Selection declined", zap.String("project_uid", p.UniqueID))
			t.refresh()
		}
	})
}

func (t *Tray) stop() {
	t.mu.Lock()
	select {
	case <-t.stopChan:
		t.mu.Unlock()
		return
	default:
		close(t.stopChan)
	}
	t.mu.Unlock()

	t.wg.Wait()
	t.loop.Do(func() {
		if t.view != nil {
			t.view.Close()
		}
	})
	t.logger.Info("Tray stopped")
}
