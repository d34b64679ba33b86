package commands

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskboard/internal/application/notify"
	"taskboard/internal/domain/valueobject"
	"taskboard/tui"
	"taskboard/tui/style"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive board",
	Long: `Launch the interactive terminal UI with the board, table and calendar views.

Running taskboard without a subcommand does the same.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		err := signIn(ctx)
		cancel()
		if err != nil {
			return err
		}

		style.InitStyles(cfg)
		tui.InitKeybindings(cfg)

		// the status line replaces printed notifications
		unsubscribePrinter()
		notifications := make(chan notify.Notification, 16)
		unsubscribe := container.Notifications.Subscribe(notify.Func(func(n notify.Notification) {
			select {
			case notifications <- n:
			default:
			}
		}))
		defer unsubscribe()

		timeout := time.Duration(cfg.Sync.RequestTimeoutSeconds) * time.Second
		model := tui.NewModel(container.Sync, notifications, valueobject.DateOf(time.Now()), timeout)

		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
