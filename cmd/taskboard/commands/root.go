package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskboard/cmd/taskboard/output"
	"taskboard/internal/di"
	"taskboard/internal/domain/entity"
	"taskboard/internal/infrastructure/config"
)

// skipContainer marks commands that only need the config
const skipContainer = "skip-container"

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	// Global flags
	outputFormat string
	configPath   string
	quiet        bool

	// Shared instances
	cfg       *config.Config
	loader    *config.Loader
	container *di.Container
	cleanup   = func() {}
	printer   *output.Printer
	formatter *output.Formatter

	// detaches the printer from notifications
	unsubscribePrinter = func() {}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Personal task board with kanban, table and calendar views",
	Long: `taskboard keeps a signed-in user's tasks in step with a document store
and shows them as a kanban board, a sortable table or a month calendar.

Examples:
  # Sign in and launch the interactive TUI
  taskboard login alice
  taskboard

  # Create a task
  taskboard task create --title "Write report" --priority high --category work

  # Show the board
  taskboard board

  # Move a task to a column
  taskboard task move <task-id> done`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			loader, err = config.NewLoaderFrom(configPath)
		} else {
			loader, err = config.NewLoader()
		}
		if err != nil {
			return fmt.Errorf("failed to create config loader: %w", err)
		}

		cfg, err = loader.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, os.Stdout)
		printer = output.DefaultPrinter()

		if cmd.Annotations[skipContainer] == "true" {
			return nil
		}

		container, cleanup, err = di.InitializeContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}

		// structured output must stay parseable
		if !quiet && !formatter.Structured() {
			unsubscribePrinter = container.Notifications.Subscribe(printer)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	cleanup()
	if err != nil {
		output.NewPrinter(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			printVersion()
			return nil
		}

		if len(args) == 0 {
			return tuiCmd.RunE(cmd, args)
		}
		return cmd.Help()
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("taskboard version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Built:      %s\n", BuildDate)
}

// requestContext bounds one command's remote calls by the configured timeout
func requestContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Sync.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// signIn loads the current identity into the sync service and fetches its tasks
func signIn(ctx context.Context) error {
	owner, err := container.Identity.Current()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if owner == "" {
		return fmt.Errorf("%w: run 'taskboard login <user-id>' first", entity.ErrNotAuthenticated)
	}

	return container.Sync.SetIdentity(ctx, owner)
}
