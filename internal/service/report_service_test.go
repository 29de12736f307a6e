package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"Mansoor88-6/punch-tracker/internal/dataset"

	"go.uber.org/zap/zaptest"
)

func TestGetWeekOfMonth(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-07-01", 1}, // Wednesday
		{"2026-07-05", 1}, // Sunday
		{"2026-07-06", 2}, // Monday
		{"2026-07-31", 5},
		{"2026-06-01", 1}, // month starting on a Monday
		{"2026-06-08", 2},
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if got := GetWeekOfMonth(d); got != tt.want {
			t.Errorf("GetWeekOfMonth(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestGetWeekOfMonthAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	// clocks spring forward on 2026-03-08, inside the span from the
	// first Monday (Feb 23) to the later weeks
	tests := []struct {
		day     int
		want    int
		wantKey string
	}{
		{4, 2, "2026-03-W2"},
		{10, 3, "2026-03-W3"},
		{16, 4, "2026-03-W4"},
	}
	for _, tt := range tests {
		d := time.Date(2026, 3, tt.day, 12, 0, 0, 0, loc)
		if got := GetWeekOfMonth(d); got != tt.want {
			t.Errorf("GetWeekOfMonth(Mar %d) = %d, want %d", tt.day, got, tt.want)
		}
		if got := GetGroupKey(d, GroupByWeekOfMonth); got != tt.wantKey {
			t.Errorf("GetGroupKey(Mar %d) = %q, want %q", tt.day, got, tt.wantKey)
		}
	}
}

func TestGroupKeyAndTitle(t *testing.T) {
	d := time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		groupBy   string
		wantKey   string
		wantTitle string
	}{
		{GroupByNone, "", "All time"},
		{GroupByDay, "2026-07-01", "Wednesday, 01 Jul 2026"},
		{GroupByWeek, "2026-W27", "Jun 29 - Jul 05, 2026"},
		{GroupByWeekOfMonth, "2026-07-W1", "Jul 01 - Jul 05, 2026"},
	}
	for _, tt := range tests {
		if got := GetGroupKey(d, tt.groupBy); got != tt.wantKey {
			t.Errorf("GetGroupKey(%s) = %q, want %q", tt.groupBy, got, tt.wantKey)
		}
		if got := GetGroupTitle(d, tt.groupBy); got != tt.wantTitle {
			t.Errorf("GetGroupTitle(%s) = %q, want %q", tt.groupBy, got, tt.wantTitle)
		}
	}
}

func TestTotals(t *testing.T) {
	store := dataset.NewMemory(zaptest.NewLogger(t))
	a := store.CreateProject()
	store.RenameProject(a, "Alpha")
	b := store.CreateProject()
	store.RenameProject(b, "Beta")

	end := func(d time.Duration) *time.Time {
		v := t0.Add(d)
		return &v
	}
	store.CreateTime(a, t0, end(time.Hour))
	store.CreateTime(a, t0.Add(2*time.Hour), end(150*time.Minute))
	store.CreateTime(b, t0.Add(24*time.Hour), end(26*time.Hour))
	store.CreateTime(a, t0.Add(48*time.Hour), nil)

	svc := NewReportService()
	svc.SetClock(func() time.Time { return t0.Add(48*time.Hour + 15*time.Minute) })

	rows := svc.Totals(store, time.Time{}, time.Time{}, GroupByNone)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ProjectName != "Alpha" || rows[0].Duration != 105*time.Minute || rows[0].Entries != 3 {
		t.Fatalf("alpha row = %+v", rows[0])
	}
	if rows[1].ProjectName != "Beta" || rows[1].Duration != 2*time.Hour {
		t.Fatalf("beta row = %+v", rows[1])
	}

	daily := svc.Totals(store, t0, t0.Add(48*time.Hour), GroupByDay)
	if len(daily) != 2 {
		t.Fatalf("daily rows = %d, want 2", len(daily))
	}
	if daily[0].GroupKey != "2026-07-01" || daily[0].Duration != 90*time.Minute {
		t.Fatalf("first day = %+v", daily[0])
	}
	if daily[1].GroupKey != "2026-07-02" || daily[1].ProjectName != "Beta" {
		t.Fatalf("second day = %+v", daily[1])
	}
}

func TestTotalsWithoutDataSet(t *testing.T) {
	if rows := NewReportService().Totals(nil, time.Time{}, time.Time{}, GroupByDay); rows != nil {
		t.Fatalf("Totals(nil) = %v, want nil", rows)
	}
}
