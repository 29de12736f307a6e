package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Mansoor88-6/punch-tracker/internal/handler"
	"Mansoor88-6/punch-tracker/internal/loop"
	"Mansoor88-6/punch-tracker/internal/router"
	"Mansoor88-6/punch-tracker/internal/tray"
	"Mansoor88-6/punch-tracker/internal/viewmodel"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runNoTray   bool
	runNoServer bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tray icon and the local HTTP API",
	Long: `Keep punch-tracker running with a tray icon and a local HTTP API.

SIGHUP reopens the storage and swaps the dataset in place; SIGINT and
SIGTERM shut down.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runNoTray, "no-tray", false, "Do not show the tray icon")
	runCmd.Flags().BoolVar(&runNoServer, "no-server", false, "Do not start the HTTP API")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := globalConfig
	log := globalLog
	a := globalApp

	log.Info("Starting punch-tracker",
		zap.String("env", cfg.Env),
		zap.String("config_path", configPath),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	l := loop.New(log.Logger)
	defer l.Stop()

	// Initialize HTTP surface
	var httpServer *http.Server
	var dashboardURL string
	if cfg.Server.Enabled && !runNoServer {
		var view *viewmodel.Tray
		l.Do(func() {
			view = viewmodel.NewTray(a.Instance, a.Selection, log.Logger)
		})
		h := handler.NewHandler(l, a, view, log.Logger)

		addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
		dashboardURL = "http://" + addr + "/api/v1/status"
		httpServer = &http.Server{
			Addr:         addr,
			Handler:      router.New(h, log.Logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			log.Info("Starting HTTP server", zap.String("address", addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("HTTP server error", zap.Error(err))
			}
		}()
	} else {
		log.Info("HTTP server disabled in configuration")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	var t *tray.Tray
	if cfg.Tray.Enabled && !runNoTray {
		t = tray.New(l, a, cfg.Tray.MaxProjects, dashboardURL, log.Logger)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range signals {
			if sig == syscall.SIGHUP {
				reload(l)
				continue
			}
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			if t != nil {
				t.Quit()
			}
			return
		}
	}()

	if t != nil {
		// blocks until Quit from the menu or a signal
		t.Run(nil)
	} else {
		<-done
	}

	log.Info("Shutting down punch-tracker...")

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Warn("HTTP server shutdown error", zap.Error(err))
		} else {
			log.Info("HTTP server stopped")
		}
	}

	l.Stop()
	log.Info("punch-tracker stopped")
	return nil
}

func reload(l *loop.Loop) {
	globalLog.Info("Reloading storage")
	var err error
	if doErr := l.Do(func() { err = globalApp.Reload() }); doErr != nil {
		err = doErr
	}
	if err != nil {
		globalLog.Error("Failed to reload storage", zap.Error(err))
		return
	}
	globalLog.Info("Storage reloaded")
}
