package main

import (
	"errors"
	"fmt"

	"Mansoor88-6/punch-tracker/internal/app"
	"Mansoor88-6/punch-tracker/internal/config"
	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/logger"
	"Mansoor88-6/punch-tracker/internal/platform"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	globalConfig *config.Config
	globalLog    *logger.Logger
	globalStore  *dataset.Store
	globalApp    *app.App
	globalLock   *platform.InstanceLock
)

var rootCmd = &cobra.Command{
	Use:   "punch-tracker",
	Short: "Punch in and out of projects",
	Long: `Track time spent on projects by punching in and out.

"run" keeps a tray icon and a local HTTP API alive; every other command
works directly on the storage and refuses to run while "run" holds it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "env" {
			return nil
		}

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		globalLog = log

		lock, err := platform.AcquireInstanceLock(cfg.Storage.Path)
		if errors.Is(err, platform.ErrAlreadyRunning) {
			return fmt.Errorf("%s is in use by another punch-tracker process", cfg.Storage.Path)
		}
		if err != nil {
			return err
		}
		globalLock = lock

		store, err := app.OpenStore(cfg.Storage, log.Logger)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		globalStore = store
		globalApp = app.NewWithStore(store, cfg, log.Logger)

		log.Debug("Storage opened",
			zap.String("driver", cfg.Storage.Driver),
			zap.String("path", cfg.Storage.Path),
			zap.String("platform", platform.OS()),
		)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeAll()
		return nil
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables read by punch-tracker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(config.Usage())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/local.yaml", "Path to configuration file")
	rootCmd.AddCommand(envCmd)
}

// closeAll releases storage and the instance lock. It is safe to call twice.
func closeAll() {
	if globalApp != nil {
		if err := globalApp.Close(); err != nil {
			globalLog.Error("Failed to close storage", zap.Error(err))
		}
		globalApp = nil
		globalStore = nil
	}
	if globalLock != nil {
		if err := globalLock.Release(); err != nil {
			globalLog.Warn("Failed to release instance lock", zap.Error(err))
		}
		globalLock = nil
	}
	if globalLog != nil {
		_ = globalLog.Sync()
	}
}
