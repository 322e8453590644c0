// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/launchkit/launchkit/internal/config"
	"github.com/launchkit/launchkit/internal/issue"
)

// newConfigCommand creates the `launchkit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage launchkit configuration",
		Long: `Manage launchkit configuration.

Configuration is stored in:
  - Linux: ~/.config/launchkit/config.cue
  - macOS: ~/Library/Application Support/launchkit/config.cue
  - Windows: %APPDATA%\launchkit\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration and the settings it yields",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.flags.configFile})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	opts := config.LoadOptions{ConfigFilePath: app.flags.configFile}
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		renderServiceError(app.stderr, newServiceError(err, issue.ConfigLoadFailedId, ""))
		return err
	}

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, pathErr := config.ResolvedPath(opts)
	switch {
	case pathErr != nil:
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), WarningStyle.Render(pathErr.Error()))
	case path == "":
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	default:
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	writeList := func(name string, values []string) {
		fmt.Fprintf(w, "%s:", KeyStyle.Render(name))
		if len(values) == 0 {
			fmt.Fprintf(w, " %s\n", SubtitleStyle.Render("(none)"))
			return
		}
		fmt.Fprintln(w)
		for _, v := range values {
			fmt.Fprintf(w, "  - %s\n", SuccessStyle.Render(v))
		}
	}
	writeList("library_order", cfg.LibraryOrder)
	writeList("external_roots", cfg.ExternalRoots)
	writeList("disable", cfg.Disable)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("log_level"), SuccessStyle.Render(cfg.LogLevel.String()))

	settings := config.NewSettings(cfg)
	keys := settings.Keys()
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Settings"))
	if len(keys) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, key := range keys {
		value, _ := settings.Lookup(key)
		fmt.Fprintf(w, "  %s=%s\n", KeyStyle.Render(key), strings.TrimSpace(value))
	}

	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	path, err := config.ResolvedPath(config.LoadOptions{ConfigFilePath: app.flags.configFile})
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintf(app.stdout, "Config file: %s\n", SubtitleStyle.Render("(none, using defaults)"))
		return nil
	}
	fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	return nil
}
