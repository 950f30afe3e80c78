// Package main is the entry point for the fleet map sync tool.
// Its sole responsibility is wiring dependencies together and running the
// batch driver. No business logic belongs here.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/fleet-map-sync/internal/config"
	"github.com/pkordes/fleet-map-sync/internal/gateway"
	"github.com/pkordes/fleet-map-sync/internal/mapfile"
	"github.com/pkordes/fleet-map-sync/internal/service"
)

func main() {
	var (
		configPath string
		mapsDir    string
		deleteAll  bool
		testMode   bool
	)

	rootCmd := &cobra.Command{
		Use:   "fleetsync",
		Short: "Synchronize map configuration documents against a Fleet Management backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, mapsDir, deleteAll, testMode)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config/config.ini", "path to the runtime config file")
	rootCmd.Flags().StringVarP(&mapsDir, "maps", "m", "maps/", "directory with input map config files")
	rootCmd.Flags().BoolVarP(&deleteAll, "delete", "d", false, "delete all entities from the backend before syncing")
	rootCmd.Flags().BoolVarP(&testMode, "test", "t", false, "run in test mode (no requests to the server)")
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, mapsDir string, deleteAll, testMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// log/slog is the stdlib structured logger. Text handler to stderr:
	// this is an operator-facing CLI, stdout is reserved for the sync
	// result messages.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	paths, err := mapfile.Discover(mapsDir)
	if err != nil {
		return err
	}
	loader := mapfile.NewLoader()

	// Test mode: parse and validate every document, issue no requests.
	if testMode {
		for _, path := range paths {
			if _, err := loader.Load(path); err != nil {
				return err
			}
			logger.Info("map document is valid", "path", path)
		}
		fmt.Println("Test mode: all map documents parsed, no requests sent")
		return nil
	}

	client := gateway.New(cfg.URL, cfg.APIKey, logger)
	driver := service.NewDriver(service.DriverConfig{
		Loader:     loader,
		Gateway:    client,
		Resolver:   service.NewTenantResolver(client, logger),
		Reconciler: service.NewReconciler(client, logger),
		Classifier: service.NewClassifier(client, logger),
		DeleteAll:  deleteAll,
		Out:        os.Stdout,
		Log:        logger,
	})

	if err := driver.Run(ctx, paths); err != nil {
		return err
	}
	fmt.Println("Fleet management updated")
	return nil
}
