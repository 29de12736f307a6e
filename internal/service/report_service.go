package service

import (
	"fmt"
	"sort"
	"time"

	"Mansoor88-6/punch-tracker/internal/dataset"
)

const (
	GroupByNone        = "None"
	GroupByDay         = "Daily"
	GroupByWeek        = "Weekly"
	GroupByWeekOfMonth = "WeeklyOfMonth"
)

// ReportRow is the time spent on one project within one group.
type ReportRow struct {
	GroupKey    string        `json:"group_key"`
	GroupTitle  string        `json:"group_title"`
	ProjectUID  string        `json:"project_uid"`
	ProjectName string        `json:"project_name"`
	Duration    time.Duration `json:"duration_ns"`
	Entries     int           `json:"entries"`
}

type ReportService struct {
	now func() time.Time
}

func NewReportService() *ReportService {
	return &ReportService{now: time.Now}
}

// SetClock replaces the time source used for open entries.
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// Totals sums entry durations per group and project for entries starting in
// [from, to). A zero bound is open. Open entries count up to now. Rows are
// ordered by group key, then project name.
func (s *ReportService) Totals(ds dataset.ProjectTimeStore, from, to time.Time, groupBy string) []ReportRow {
	if ds == nil {
		return nil
	}
	now := s.now()

	type key struct {
		group   string
		project string
	}
	rows := make(map[key]*ReportRow)

	for e := range ds.Times() {
		if !from.IsZero() && e.Start.Before(from) {
			continue
		}
		if !to.IsZero() && !e.Start.Before(to) {
			continue
		}

		k := key{group: GetGroupKey(e.Start, groupBy), project: e.ProjectUID()}
		row, ok := rows[k]
		if !ok {
			row = &ReportRow{
				GroupKey:   k.group,
				GroupTitle: GetGroupTitle(e.Start, groupBy),
				ProjectUID: k.project,
			}
			if e.Project != nil {
				row.ProjectName = e.Project.DisplayName()
			}
			rows[k] = row
		}
		row.Duration += e.Duration(now)
		row.Entries++
	}

	result := make([]ReportRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].GroupKey != result[j].GroupKey {
			return result[i].GroupKey < result[j].GroupKey
		}
		return result[i].ProjectName < result[j].ProjectName
	})
	return result
}

func GetWeekOfMonth(t time.Time) int {
	year, month, _ := t.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	firstMonday := mondayOf(firstOfMonth)
	return daysBetween(firstMonday, mondayOf(t))/7 + 1
}

// daysBetween counts calendar days from a to b, ignoring DST shifts in
// their location.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func GetWeekRange(t time.Time) (time.Time, time.Time) {
	start := mondayOf(t)
	return start, start.AddDate(0, 0, 6)
}

func GetGroupKey(t time.Time, groupBy string) string {
	switch groupBy {
	case GroupByDay:
		return t.Format("2006-01-02")
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupByWeekOfMonth:
		year, month, _ := t.Date()
		return fmt.Sprintf("%d-%02d-W%d", year, month, GetWeekOfMonth(t))
	}
	return ""
}

func GetGroupTitle(t time.Time, groupBy string) string {
	switch groupBy {
	case GroupByDay:
		return t.Format("Monday, 02 Jan 2006")
	case GroupByWeek:
		start, end := GetWeekRange(t)
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	case GroupByWeekOfMonth:
		start, end := GetWeekRange(t)

		// clamp to the month of t
		year, month, _ := t.Date()
		firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
		lastOfMonth := firstOfMonth.AddDate(0, 1, -1)
		if start.Before(firstOfMonth) {
			start = firstOfMonth
		}
		if end.After(lastOfMonth) {
			end = lastOfMonth
		}
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	}
	return "All time"
}

// ValidGroupBy reports whether groupBy names a known grouping.
func ValidGroupBy(groupBy string) bool {
	switch groupBy {
	case GroupByNone, GroupByDay, GroupByWeek, GroupByWeekOfMonth:
		return true
	}
	return false
}

func mondayOf(t time.Time) time.Time {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	year, month, day := t.AddDate(0, 0, -offset+1).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
