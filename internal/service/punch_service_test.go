package service

import (
	"errors"
	"testing"
	"time"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/selection"
	"Mansoor88-6/punch-tracker/internal/tracker"

	"go.uber.org/zap/zaptest"
)

// faultyBackend accepts every write until the named operation is armed.
type faultyBackend struct {
	failInsertTime bool
	failUpdateTime bool
	next           int64
}

var errDiskFull = errors.New("disk full")

func (b *faultyBackend) Load() ([]*models.Project, []*models.TimeEntry, error) {
	return nil, nil, nil
}

func (b *faultyBackend) InsertProject(p *models.Project) error {
	b.next++
	p.ID = b.next
	return nil
}

func (b *faultyBackend) UpdateProject(*models.Project) error { return nil }
func (b *faultyBackend) DeleteProject(*models.Project) error { return nil }

func (b *faultyBackend) InsertTime(e *models.TimeEntry) error {
	if b.failInsertTime {
		return errDiskFull
	}
	b.next++
	e.ID = b.next
	return nil
}

func (b *faultyBackend) UpdateTime(*models.TimeEntry) error {
	if b.failUpdateTime {
		return errDiskFull
	}
	return nil
}

func (b *faultyBackend) DeleteTime(*models.TimeEntry) error { return nil }
func (b *faultyBackend) Close() error                      { return nil }

var t0 = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func newPunchFixture(t *testing.T) (*dataset.Store, *selection.Manager, *PunchService, *time.Time) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := dataset.NewMemory(logger)
	instance := tracker.NewInstance(store, logger)
	manager := selection.NewManager(selection.All(
		selection.RejectClosed,
		selection.InDataSet(instance.DataSet),
	), logger)

	now := t0
	svc := NewPunchService(instance, manager, logger)
	svc.SetClock(func() time.Time { return now })
	return store, manager, svc, &now
}

func TestPunchInSelectsProject(t *testing.T) {
	store, manager, svc, _ := newPunchFixture(t)
	p := store.CreateProject()

	entry, err := svc.PunchIn(p)
	if err != nil {
		t.Fatalf("PunchIn() error = %v", err)
	}
	if !entry.IsOpen() || entry.Project != p || !entry.Start.Equal(t0) {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if manager.SelectedProject() != p {
		t.Fatal("punched-in project not selected")
	}
	if svc.Current() != entry {
		t.Fatal("Current() does not return the open entry")
	}
}

func TestPunchInRejections(t *testing.T) {
	store, _, svc, _ := newPunchFixture(t)
	closed := store.CreateProject()
	store.SetProjectStatus(closed, models.ProjectStatusClosed)
	foreign := dataset.NewMemory(zaptest.NewLogger(t)).CreateProject()

	tests := []struct {
		name    string
		project *models.Project
		want    error
	}{
		{"nil", nil, ErrNoProject},
		{"closed", closed, ErrProjectClosed},
		{"foreign", foreign, ErrUnknownProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.PunchIn(tt.project); !errors.Is(err, tt.want) {
				t.Fatalf("PunchIn() error = %v, want %v", err, tt.want)
			}
		})
	}
	if svc.Current() != nil {
		t.Fatal("rejected punch-in left an open entry")
	}
}

func TestPunchInTwiceReturnsOpenEntry(t *testing.T) {
	store, _, svc, _ := newPunchFixture(t)
	p := store.CreateProject()

	first, _ := svc.PunchIn(p)
	again, err := svc.PunchIn(p)
	if !errors.Is(err, ErrAlreadyPunchedIn) {
		t.Fatalf("PunchIn() error = %v, want ErrAlreadyPunchedIn", err)
	}
	if again != first {
		t.Fatal("second punch-in did not return the open entry")
	}
}

func TestPunchInSwitchesAtSameInstant(t *testing.T) {
	store, manager, svc, now := newPunchFixture(t)
	a := store.CreateProject()
	b := store.CreateProject()

	first, _ := svc.PunchIn(a)
	*now = t0.Add(90 * time.Minute)
	second, err := svc.PunchIn(b)
	if err != nil {
		t.Fatalf("PunchIn() error = %v", err)
	}

	if first.IsOpen() || !first.End.Equal(*now) {
		t.Fatalf("previous entry end = %v, want %v", first.End, *now)
	}
	if !second.Start.Equal(*now) {
		t.Fatalf("new entry start = %v, want %v", second.Start, *now)
	}
	if dataset.FirstOpenTime(store) != second {
		t.Fatal("more than one open entry after switch")
	}
	if manager.SelectedProject() != b {
		t.Fatal("selection did not follow the switch")
	}
}

func TestPunchOut(t *testing.T) {
	store, _, svc, now := newPunchFixture(t)
	p := store.CreateProject()

	if _, err := svc.PunchOut(); !errors.Is(err, ErrNotPunchedIn) {
		t.Fatalf("PunchOut() error = %v, want ErrNotPunchedIn", err)
	}

	svc.PunchIn(p)
	*now = t0.Add(time.Hour)
	entry, err := svc.PunchOut()
	if err != nil {
		t.Fatalf("PunchOut() error = %v", err)
	}
	if entry.Duration(*now) != time.Hour {
		t.Fatalf("duration = %v, want 1h", entry.Duration(*now))
	}
	if svc.Current() != nil {
		t.Fatal("still punched in after PunchOut")
	}
}

func TestToggle(t *testing.T) {
	store, manager, svc, _ := newPunchFixture(t)
	p := store.CreateProject()

	if _, err := svc.Toggle(); !errors.Is(err, ErrNoProject) {
		t.Fatalf("Toggle() with no selection error = %v, want ErrNoProject", err)
	}

	manager.SetSelectedProject(p)
	in, err := svc.Toggle()
	if err != nil || !in.IsOpen() {
		t.Fatalf("Toggle() in = %v, %v", in, err)
	}
	out, err := svc.Toggle()
	if err != nil || out != in || out.IsOpen() {
		t.Fatalf("Toggle() out = %v, %v", out, err)
	}
}

func TestPunchWithoutDataSet(t *testing.T) {
	logger := zaptest.NewLogger(t)
	instance := tracker.NewInstance(nil, logger)
	svc := NewPunchService(instance, selection.NewManager(nil, logger), logger)

	if _, err := svc.PunchIn(&models.Project{}); !errors.Is(err, ErrNoDataSet) {
		t.Fatalf("PunchIn() error = %v, want ErrNoDataSet", err)
	}
	if _, err := svc.PunchOut(); !errors.Is(err, ErrNoDataSet) {
		t.Fatalf("PunchOut() error = %v, want ErrNoDataSet", err)
	}
}

func newFaultyPunchFixture(t *testing.T) (*dataset.Store, *faultyBackend, *selection.Manager, *PunchService) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	backend := &faultyBackend{}
	store, err := dataset.Open(backend, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	instance := tracker.NewInstance(store, logger)
	manager := selection.NewManager(selection.RejectClosed, logger)

	svc := NewPunchService(instance, manager, logger)
	svc.SetClock(func() time.Time { return t0 })
	return store, backend, manager, svc
}

func TestPunchInSwitchKeepsSessionWhenCreateFails(t *testing.T) {
	store, backend, manager, svc := newFaultyPunchFixture(t)
	a := store.CreateProject()
	b := store.CreateProject()

	first, err := svc.PunchIn(a)
	if err != nil {
		t.Fatalf("PunchIn(a) error = %v", err)
	}
	backend.failInsertTime = true

	if _, err := svc.PunchIn(b); !errors.Is(err, ErrEntryNotCreated) {
		t.Fatalf("PunchIn(b) error = %v, want ErrEntryNotCreated", err)
	}
	if !first.IsOpen() {
		t.Fatal("failed switch ended the running session")
	}
	if svc.Current() != first {
		t.Fatal("running session is no longer current")
	}
	if manager.SelectedProject() != a {
		t.Fatal("selection moved despite the failed switch")
	}
}

func TestPunchInSwitchRollsBackWhenEndFails(t *testing.T) {
	store, backend, manager, svc := newFaultyPunchFixture(t)
	a := store.CreateProject()
	b := store.CreateProject()

	first, _ := svc.PunchIn(a)
	backend.failUpdateTime = true

	if _, err := svc.PunchIn(b); !errors.Is(err, ErrEntryNotClosed) {
		t.Fatalf("PunchIn(b) error = %v, want ErrEntryNotClosed", err)
	}
	if !first.IsOpen() || svc.Current() != first {
		t.Fatal("running session lost after failed switch")
	}
	if n := len(dataset.TimesFor(store, b)); n != 0 {
		t.Fatalf("switch target kept %d entries, want 0", n)
	}
	if manager.SelectedProject() != a {
		t.Fatal("selection moved despite the failed switch")
	}
}
