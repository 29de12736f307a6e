package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/models"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := globalApp.Projects.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		fmt.Printf("Created %s (%s)\n", p.Name, p.UniqueID)
		return nil
	},
}

var projectStatusFilter string

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.ProjectStatus(projectStatusFilter)
		if status != "" && !status.Valid() {
			return fmt.Errorf("unknown status %q", projectStatusFilter)
		}

		open := dataset.FirstOpenTime(globalApp.DataSet())
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UNIQUE ID\tNAME\tSTATUS\t")
		for _, p := range globalApp.Projects.List(status) {
			marker := ""
			if open != nil && open.Project == p {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.UniqueID, p.DisplayName(), p.Status, marker)
		}
		return w.Flush()
	},
}

var projectCloseCmd = &cobra.Command{
	Use:   "close <project>",
	Short: "Close a project; an open session on it is ended",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setProjectStatus(args[0], models.ProjectStatusClosed)
	},
}

var projectReopenCmd = &cobra.Command{
	Use:   "reopen <project>",
	Short: "Make a closed or held project active again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setProjectStatus(args[0], models.ProjectStatusActive)
	},
}

var projectHoldCmd = &cobra.Command{
	Use:   "hold <project>",
	Short: "Put a project on hold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setProjectStatus(args[0], models.ProjectStatusOnHold)
	},
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <project> <name>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := globalApp.Projects.Rename(args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to rename project: %w", err)
		}
		fmt.Printf("Renamed %s to %s\n", p.UniqueID, p.Name)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project>",
	Short: "Delete a project and all of its time entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := globalApp.Projects.Delete(args[0]); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCloseCmd)
	projectCmd.AddCommand(projectReopenCmd)
	projectCmd.AddCommand(projectHoldCmd)
	projectCmd.AddCommand(projectRenameCmd)
	projectCmd.AddCommand(projectDeleteCmd)

	projectListCmd.Flags().StringVar(&projectStatusFilter, "status", "", "Only list projects with this status (active, on_hold, closed)")
}

func setProjectStatus(key string, status models.ProjectStatus) error {
	p, err := globalApp.Projects.SetStatus(key, status)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	fmt.Printf("%s is now %s\n", p.DisplayName(), p.Status)
	return nil
}
