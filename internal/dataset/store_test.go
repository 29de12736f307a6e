package dataset

import (
	"errors"
	"slices"
	"testing"
	"time"

	"Mansoor88-6/punch-tracker/internal/models"

	"go.uber.org/zap/zaptest"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type failingBackend struct {
	fail bool
	next int64
}

func (b *failingBackend) Load() ([]*models.Project, []*models.TimeEntry, error) {
	return nil, nil, nil
}

func (b *failingBackend) err() error {
	if b.fail {
		return errors.New("disk full")
	}
	return nil
}

func (b *failingBackend) InsertProject(p *models.Project) error {
	if err := b.err(); err != nil {
		return err
	}
	b.next++
	p.ID = b.next
	return nil
}

func (b *failingBackend) UpdateProject(*models.Project) error { return b.err() }
func (b *failingBackend) DeleteProject(*models.Project) error { return b.err() }

func (b *failingBackend) InsertTime(e *models.TimeEntry) error {
	if err := b.err(); err != nil {
		return err
	}
	b.next++
	e.ID = b.next
	return nil
}

func (b *failingBackend) UpdateTime(*models.TimeEntry) error { return b.err() }
func (b *failingBackend) DeleteTime(*models.TimeEntry) error { return b.err() }
func (b *failingBackend) Close() error                      { return nil }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewMemory(zaptest.NewLogger(t))
	s.SetClock(func() time.Time { return t0 })
	return s
}

func TestCreateProjectDefaultsAndEvent(t *testing.T) {
	s := newTestStore(t)
	fired := 0
	s.SubscribeProjectsChanged(func() { fired++ })

	p := s.CreateProject()
	if p == nil {
		t.Fatal("expected project")
	}
	if p.Name != "" || p.Status != models.ProjectStatusActive || p.UniqueID == "" {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if !p.CreatedAt.Equal(t0) {
		t.Fatalf("created at = %v, want %v", p.CreatedAt, t0)
	}
	if fired != 1 {
		t.Fatalf("projects changed fired %d times, want 1", fired)
	}
	if !Contains(s, p) {
		t.Fatal("project not enumerated")
	}
}

func TestDeleteAbsentProjectIsNoop(t *testing.T) {
	s := newTestStore(t)
	other := newTestStore(t).CreateProject()
	fired := 0
	s.SubscribeProjectsChanged(func() { fired++ })

	s.DeleteProject(other)
	s.DeleteProject(nil)

	if fired != 0 {
		t.Fatalf("projects changed fired %d times for absent delete", fired)
	}
}

func TestDeleteProjectCascadesTimes(t *testing.T) {
	s := newTestStore(t)
	a := s.CreateProject()
	b := s.CreateProject()
	s.CreateTime(a, t0, nil)
	end := t0.Add(time.Hour)
	keep := s.CreateTime(b, t0, &end)

	timeEvents := 0
	s.SubscribeProjectTimeChanged(func(ProjectTimeStore) { timeEvents++ })
	s.DeleteProject(a)

	got := slices.Collect(s.Times())
	if len(got) != 1 || got[0] != keep {
		t.Fatalf("times after delete = %v, want only b's entry", got)
	}
	if timeEvents != 1 {
		t.Fatalf("time events = %d, want 1", timeEvents)
	}
	if FirstOpenTime(s) != nil {
		t.Fatal("deleted project's open entry still counts as punched in")
	}
}

func TestProjectsEnumerationIsRestartableSnapshot(t *testing.T) {
	s := newTestStore(t)
	a := s.CreateProject()
	b := s.CreateProject()

	var seen []*models.Project
	for p := range s.Projects() {
		seen = append(seen, p)
		if p == a {
			s.CreateProject()
		}
	}
	if len(seen) != 2 || seen[0] != a || seen[1] != b {
		t.Fatalf("first pass = %v, want [a b]", seen)
	}
	if n := len(slices.Collect(s.Projects())); n != 3 {
		t.Fatalf("second pass saw %d projects, want 3", n)
	}
}

func TestCreateTimeRejections(t *testing.T) {
	s := newTestStore(t)
	p := s.CreateProject()
	foreign := newTestStore(t).CreateProject()
	before := t0.Add(-time.Minute)

	if e := s.CreateTime(nil, t0, nil); e != nil {
		t.Fatal("expected nil for nil project")
	}
	if e := s.CreateTime(foreign, t0, nil); e != nil {
		t.Fatal("expected nil for foreign project")
	}
	if e := s.CreateTime(p, t0, &before); e != nil {
		t.Fatal("expected nil for end before start")
	}
	if e := s.CreateTime(p, t0, nil); e == nil {
		t.Fatal("expected first open entry")
	}

	var faults []error
	s.SubscribeFaults(func(err error) { faults = append(faults, err) })
	if e := s.CreateTime(p, t0.Add(time.Minute), nil); e != nil {
		t.Fatal("expected nil for a second open entry")
	}
	if len(faults) != 1 || !errors.Is(faults[0], ErrDuplicateOpenTime) {
		t.Fatalf("faults = %v, want duplicate open entry", faults)
	}
}

func TestEndTime(t *testing.T) {
	s := newTestStore(t)
	p := s.CreateProject()
	e := s.CreateTime(p, t0, nil)

	var payloads []ProjectTimeStore
	s.SubscribeProjectTimeChanged(func(ds ProjectTimeStore) {
		payloads = append(payloads, ds)
		if FirstOpenTime(ds) != nil {
			t.Error("handler observed the entry before it was closed")
		}
	})

	if s.EndTime(e, t0.Add(-time.Second)) {
		t.Fatal("end before start accepted")
	}
	if !s.EndTime(e, t0.Add(time.Hour)) {
		t.Fatal("expected end to be accepted")
	}
	if s.EndTime(e, t0.Add(2*time.Hour)) {
		t.Fatal("closed entry ended twice")
	}
	if len(payloads) != 1 || payloads[0] != ProjectTimeStore(s) {
		t.Fatalf("payloads = %v, want the store once", payloads)
	}
	if got := e.Duration(t0); got != time.Hour {
		t.Fatalf("duration = %v, want 1h", got)
	}
}

func TestRenameAndStatus(t *testing.T) {
	s := newTestStore(t)
	p := s.CreateProject()
	fired := 0
	s.SubscribeProjectsChanged(func() { fired++ })

	if !s.RenameProject(p, "Website") || p.Name != "Website" {
		t.Fatalf("rename failed: %+v", p)
	}
	if s.RenameProject(p, "Website") {
		t.Fatal("rename to the same name reported a change")
	}
	if s.SetProjectStatus(p, "bogus") {
		t.Fatal("unknown status accepted")
	}
	if !s.SetProjectStatus(p, models.ProjectStatusClosed) || !p.IsClosed() {
		t.Fatal("close failed")
	}
	if fired != 2 {
		t.Fatalf("projects changed fired %d times, want 2", fired)
	}
}

func TestBackendFaultLeavesStateIntact(t *testing.T) {
	backend := &failingBackend{}
	s, err := Open(backend, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := s.CreateProject()
	s.RenameProject(p, "Stable")
	e := s.CreateTime(p, t0, nil)

	var faults []error
	s.SubscribeFaults(func(err error) { faults = append(faults, err) })
	events := 0
	s.SubscribeProjectsChanged(func() { events++ })
	s.SubscribeProjectTimeChanged(func(ProjectTimeStore) { events++ })

	backend.fail = true
	if s.CreateProject() != nil {
		t.Fatal("create project succeeded despite backend failure")
	}
	if s.RenameProject(p, "Broken") || p.Name != "Stable" {
		t.Fatalf("rename applied despite failure: %q", p.Name)
	}
	if s.EndTime(e, t0.Add(time.Hour)) || !e.IsOpen() {
		t.Fatal("end applied despite failure")
	}
	s.DeleteProject(p)
	if !Contains(s, p) {
		t.Fatal("delete applied despite failure")
	}
	if events != 0 {
		t.Fatalf("change events fired %d times for failed mutations", events)
	}
	if len(faults) != 4 {
		t.Fatalf("faults = %d, want 4", len(faults))
	}
}

func TestFindProject(t *testing.T) {
	s := newTestStore(t)
	p := s.CreateProject()
	s.RenameProject(p, "Website")

	if FindProject(s, "website") != p {
		t.Fatal("case-insensitive name lookup failed")
	}
	if FindProject(s, p.UniqueID) != p {
		t.Fatal("unique id lookup failed")
	}
	if FindProject(s, "missing") != nil {
		t.Fatal("expected nil for unknown key")
	}
}

func TestCopyKeepsIdentity(t *testing.T) {
	src := newTestStore(t)
	a := src.CreateProject()
	src.RenameProject(a, "A")
	src.SetProjectStatus(a, models.ProjectStatusOnHold)
	end := t0.Add(30 * time.Minute)
	src.CreateTime(a, t0, &end)
	src.CreateTime(a, t0.Add(time.Hour), nil)

	dst := newTestStore(t)
	projects, times := Copy(src, dst)
	if projects != 1 || times != 2 {
		t.Fatalf("copied %d projects, %d times; want 1, 2", projects, times)
	}
	clone := FindProject(dst, a.UniqueID)
	if clone == nil || clone == a || clone.Name != "A" || clone.Status != models.ProjectStatusOnHold {
		t.Fatalf("unexpected clone: %+v", clone)
	}
	if OpenTimeFor(dst, clone) == nil {
		t.Fatal("open entry not copied")
	}

	if projects, times := Copy(src, dst); projects != 1 || times != 0 {
		t.Fatalf("second copy = %d projects, %d times; want 1, 0", projects, times)
	}
	if n := len(slices.Collect(dst.Projects())); n != 1 {
		t.Fatalf("dst has %d projects after re-copy, want 1", n)
	}
}
