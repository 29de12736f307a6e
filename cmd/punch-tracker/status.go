package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether you are punched in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := globalApp.Punch.Current()
		if entry == nil {
			fmt.Println("Punched out")
			return nil
		}
		fmt.Printf("Punched in to %s since %s (%s)\n",
			entry.Project.DisplayName(),
			entry.Start.Format("2006-01-02 15:04"),
			entry.Duration(time.Now()).Round(time.Second),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
