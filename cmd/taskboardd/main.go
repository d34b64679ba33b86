package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskboard/internal/di"
	"taskboard/internal/infrastructure/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "taskboardd",
	Short:         "Serve the taskboard document store over a unix socket",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config loader: %w", err)
		}

		cfg, err := loader.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return run(cfg)
	},
}

func main() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "taskboardd: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	container, cleanup, err := di.InitializeDaemon(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize daemon: %w", err)
	}
	defer cleanup()

	server := container.Server
	logger := container.Logger

	if err := server.Listen(); err != nil {
		return err
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Serve()
	}()

	fmt.Printf("taskboard daemon listening on %s (backend: %s)\n", server.SocketPath(), cfg.Daemon.Backend)
	fmt.Println("Press Ctrl+C to stop")

	var serveErr error
	select {
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig.String())
	case serveErr = <-errChan:
		if serveErr != nil {
			logger.Error("server error", "error", serveErr)
		}
	}

	fmt.Println("Shutting down...")
	if err := server.Stop(); err != nil {
		logger.Error("error stopping server", "error", err)
	}
	return serveErr
}

func newLoader(path string) (*config.Loader, error) {
	if path != "" {
		return config.NewLoaderFrom(path)
	}
	return config.NewLoader()
}
