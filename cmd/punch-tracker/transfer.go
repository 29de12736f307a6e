package main

import (
	"fmt"
	"os"

	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all projects and time entries as YAML",
	Long:  "Write all projects and time entries as YAML to file, or to stdout when no file is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return snapshot.Export(globalApp.DataSet(), os.Stdout)
		}
		if err := snapshot.Save(globalApp.DataSet(), args[0]); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		fmt.Printf("Exported to %s\n", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge projects and time entries from a YAML export",
	Long: `Merge projects and time entries from a YAML export into the storage.
Projects are matched by unique id; entries already present are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := snapshot.Load(args[0], globalLog.Logger)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var faults int
		sub := globalStore.SubscribeFaults(func(error) { faults++ })
		defer sub.Unsubscribe()

		projects, times := dataset.Copy(src, globalStore)
		globalLog.Info("Import finished",
			zap.String("file", args[0]),
			zap.Int("projects", projects),
			zap.Int("time_entries", times),
			zap.Int("faults", faults),
		)
		fmt.Printf("Imported %d projects and %d time entries\n", projects, times)
		if faults > 0 {
			return fmt.Errorf("%d records could not be stored", faults)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
