package main

import (
	"errors"
	"fmt"
	"time"

	"Mansoor88-6/punch-tracker/internal/service"

	"github.com/spf13/cobra"
)

var punchCmd = &cobra.Command{
	Use:   "punch",
	Short: "Start or stop a session",
}

var punchInCmd = &cobra.Command{
	Use:   "in <project>",
	Short: "Punch in to a project, ending any other open session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := globalApp.Projects.Find(args[0])
		if err != nil {
			return fmt.Errorf("failed to punch in: %w", err)
		}
		entry, err := globalApp.Punch.PunchIn(p)
		if errors.Is(err, service.ErrAlreadyPunchedIn) {
			fmt.Printf("Already punched in to %s since %s\n", entry.Project.DisplayName(), entry.Start.Format(time.Kitchen))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to punch in: %w", err)
		}
		fmt.Printf("Punched in to %s at %s\n", entry.Project.DisplayName(), entry.Start.Format(time.Kitchen))
		return nil
	},
}

var punchOutCmd = &cobra.Command{
	Use:   "out",
	Short: "Punch out of the open session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := globalApp.Punch.PunchOut()
		if err != nil {
			return fmt.Errorf("failed to punch out: %w", err)
		}
		fmt.Printf("Punched out of %s after %s\n", entry.Project.DisplayName(), entry.Duration(time.Now()).Round(time.Second))
		return nil
	},
}

var selectClear bool

// The selection lives only as long as the process, so outside "run" select
// reports whether the selection policy accepts a project.
var selectCmd = &cobra.Command{
	Use:   "select <project>",
	Short: "Check whether a project may be selected",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if selectClear || len(args) == 0 {
			globalApp.Selection.Clear()
			fmt.Println("Selection cleared")
			return nil
		}
		p, err := globalApp.Projects.Find(args[0])
		if err != nil {
			return err
		}
		if !globalApp.Selection.SetSelectedProject(p) {
			return fmt.Errorf("%s cannot be selected", p.DisplayName())
		}
		fmt.Printf("Selected %s\n", p.DisplayName())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(punchCmd)
	punchCmd.AddCommand(punchInCmd)
	punchCmd.AddCommand(punchOutCmd)
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().BoolVar(&selectClear, "clear", false, "Clear the selection")
}
