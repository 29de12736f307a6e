package service

import (
	"errors"
	"testing"
	"time"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/models"
	"Mansoor88-6/punch-tracker/internal/tracker"

	"go.uber.org/zap/zaptest"
)

func newProjectFixture(t *testing.T) (*dataset.Store, *ProjectService) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := dataset.NewMemory(logger)
	svc := NewProjectService(tracker.NewInstance(store, logger), logger)
	svc.SetClock(func() time.Time { return t0.Add(time.Hour) })
	return store, svc
}

func TestCreateAndFind(t *testing.T) {
	_, svc := newProjectFixture(t)

	p, err := svc.Create("  Website ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name != "Website" || p.Status != models.ProjectStatusActive {
		t.Fatalf("unexpected project %+v", p)
	}

	if _, err := svc.Create(" "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("Create(blank) error = %v, want ErrEmptyName", err)
	}

	for _, key := range []string{p.UniqueID, "website", "WEBSITE"} {
		got, err := svc.Find(key)
		if err != nil || got != p {
			t.Fatalf("Find(%q) = %v, %v", key, got, err)
		}
	}
	if _, err := svc.Find("missing"); !errors.Is(err, ErrUnknownProject) {
		t.Fatalf("Find(missing) error = %v", err)
	}
	if _, err := svc.Find(""); !errors.Is(err, ErrNoProject) {
		t.Fatalf("Find(empty) error = %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	_, svc := newProjectFixture(t)
	a, _ := svc.Create("A")
	b, _ := svc.Create("B")
	svc.SetStatus("B", models.ProjectStatusOnHold)

	if got := svc.List(""); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("List() = %v", got)
	}
	if got := svc.List(models.ProjectStatusOnHold); len(got) != 1 || got[0] != b {
		t.Fatalf("List(on_hold) = %v", got)
	}
}

func TestRename(t *testing.T) {
	_, svc := newProjectFixture(t)
	svc.Create("Old")

	p, err := svc.Rename("old", "New")
	if err != nil || p.Name != "New" {
		t.Fatalf("Rename() = %v, %v", p, err)
	}
	if _, err := svc.Rename("New", ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("Rename to blank error = %v", err)
	}
	if _, err := svc.Rename("New", "New"); err != nil {
		t.Fatalf("Rename to same name error = %v", err)
	}
}

func TestClosingEndsOpenSession(t *testing.T) {
	store, svc := newProjectFixture(t)
	p, _ := svc.Create("A")
	entry := store.CreateTime(p, t0, nil)

	if _, err := svc.SetStatus("A", models.ProjectStatusClosed); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if entry.IsOpen() || !entry.End.Equal(t0.Add(time.Hour)) {
		t.Fatalf("open entry not ended at close: %+v", entry.End)
	}
	if !p.IsClosed() {
		t.Fatal("project not closed")
	}
}

func TestDeleteCascades(t *testing.T) {
	store, svc := newProjectFixture(t)
	p, _ := svc.Create("A")
	store.CreateTime(p, t0, nil)

	if err := svc.Delete("A"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if dataset.FirstOpenTime(store) != nil {
		t.Fatal("time entries survived project deletion")
	}
	if err := svc.Delete("A"); !errors.Is(err, ErrUnknownProject) {
		t.Fatalf("second Delete() error = %v", err)
	}
}
