package commands

import (
	"github.com/spf13/cobra"
)

type whoamiResult struct {
	UserID     string `json:"user_id" yaml:"user_id"`
	SignedInAt string `json:"signed_in_at,omitempty" yaml:"signed_in_at,omitempty"`
	Backend    string `json:"backend" yaml:"backend"`
}

var loginCmd = &cobra.Command{
	Use:   "login <user-id>",
	Short: "Sign in as a user",
	Long: `Record the user whose tasks the other commands operate on.

Examples:
  taskboard login alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := container.Identity.Login(args[0]); err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()
		if err := signIn(ctx); err != nil {
			return err
		}

		if !quiet {
			n := len(container.TaskStore.Tasks())
			printer.Success("Signed in as %s (%d tasks)", args[0], n)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := container.Identity.Logout(); err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()
		if err := container.Sync.SetIdentity(ctx, ""); err != nil {
			return err
		}

		if !quiet {
			printer.Success("Signed out")
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := container.Identity.Info()
		if err != nil {
			return err
		}

		result := whoamiResult{Backend: cfg.Storage.Backend}
		if info != nil {
			result.UserID = info.UserID
			result.SignedInAt = info.SignedInAt.Format("2006-01-02 15:04")
		}

		if formatter.Structured() {
			return formatter.Print(result)
		}

		if result.UserID == "" {
			printer.Warning("Not signed in")
			return nil
		}
		printer.Println("%s", result.UserID)
		if !quiet {
			printer.Subtle("signed in %s, backend %s", result.SignedInAt, result.Backend)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
