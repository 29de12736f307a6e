package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"Mansoor88-6/punch-tracker/internal/service"

	"github.com/spf13/cobra"
)

var (
	reportFrom    string
	reportTo      string
	reportGroupBy string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show time spent per project",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "First day to include (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "Last day to include (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportGroupBy, "group-by", service.GroupByNone, "None, Daily, Weekly or WeeklyOfMonth")
}

func runReport(cmd *cobra.Command, args []string) error {
	if !service.ValidGroupBy(reportGroupBy) {
		return fmt.Errorf("unknown grouping %q", reportGroupBy)
	}
	from, err := parseDay(reportFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parseDay(reportTo)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}

	rows := globalApp.Reports.Totals(globalApp.DataSet(), from, to, reportGroupBy)
	if len(rows) == 0 {
		fmt.Println("No time recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	group := ""
	var total time.Duration
	for i, row := range rows {
		if reportGroupBy != service.GroupByNone && (i == 0 || row.GroupKey != group) {
			group = row.GroupKey
			fmt.Fprintf(w, "%s\t\t\n", row.GroupTitle)
		}
		fmt.Fprintf(w, "  %s\t%s\t%d entries\n", row.ProjectName, formatHours(row.Duration), row.Entries)
		total += row.Duration
	}
	fmt.Fprintf(w, "Total\t%s\t\n", formatHours(total))
	return w.Flush()
}

func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

func formatHours(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
