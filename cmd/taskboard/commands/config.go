package commands

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"taskboard/cmd/taskboard/output"
	"taskboard/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage taskboard configuration settings.

Configuration is stored in YAML format at:
  ~/.config/taskboard/config.yml

TASKBOARD_* environment variables (also read from a .env file in the
working directory) override values from the file.`,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the effective configuration",
	Annotations: map[string]string{skipContainer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.Storage.Redis.Password != "" {
			shown.Storage.Redis.Password = "********"
		}

		if formatter.Structured() {
			return formatter.Print(shown)
		}
		return output.NewFormatter(output.FormatYAML, os.Stdout).Print(shown)
	},
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Show config file location",
	Annotations: map[string]string{skipContainer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(loader.GetConfigPath())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit config in editor",
	Long: `Open the configuration file in your default editor.

The editor is determined by the EDITOR environment variable (default: vi).`,
	Annotations: map[string]string{skipContainer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		editorCmd := exec.Command(editor, loader.GetConfigPath())
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr

		if err := editorCmd.Run(); err != nil {
			return fmt.Errorf("failed to run editor: %w", err)
		}

		printer.Success("Config file edited")
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Reset config to defaults",
	Annotations: map[string]string{skipContainer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		configFile := loader.GetConfigPath()

		if !force {
			printer.Warning("About to reset configuration to defaults")
			printer.Warning("Current config: %s", configFile)
			fmt.Print("\nType 'yes' to confirm: ")

			var confirmation string
			fmt.Scanln(&confirmation)

			if confirmation != "yes" {
				printer.Info("Reset cancelled")
				return nil
			}
		}

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		if err := loader.Save(config.DefaultConfig(homeDir)); err != nil {
			return err
		}

		printer.Success("Config reset: %s", configFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().Bool("force", false, "Reset without confirmation")
}
