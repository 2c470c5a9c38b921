package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/vmunix/vaultimg/internal/config"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(
		newConfigInitCmd(root),
		newConfigShowCmd(root),
		newConfigValidateCmd(root),
	)
	return cmd
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var (
		force       bool
		fromCurrent bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Long: `Write a commented starter config to path (default: the user config location).

With --from-current the effective configuration is validated and written
instead. Environment references are written out with their resolved values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if fromCurrent {
				src, err := root.resolveConfigPath()
				if err != nil {
					return err
				}
				cfg, err := config.Load(src)
				if err != nil {
					return fmt.Errorf("config: %w", err)
				}
				if err := cfg.Write(path); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (from %s)\n", path, src)
				return nil
			}

			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&fromCurrent, "from-current", false, "Write the current effective configuration instead of the starter file")
	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := root.resolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := config.LoadWithoutValidation(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return printJSON(out, cfg)
			}
			_, _ = fmt.Fprintf(out, "# %s\n", path)
			return toml.NewEncoder(out).Encode(cfg)
		},
	}
}

func newConfigValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate configuration file",
		Long:  "Validates config syntax, required fields, and environment variable substitution without importing anything.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			} else {
				p, err := root.resolveConfigPath()
				if err != nil {
					return err
				}
				path = p
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Validating %s...\n\n", path)

			cfg, err := config.Load(path)
			if err != nil {
				var configErr *config.ConfigError
				if errors.As(err, &configErr) {
					printConfigErrors(out, configErr)
					return errors.New("configuration invalid")
				}
				return fmt.Errorf("failed to load config: %w", err)
			}

			printConfigSummary(out, cfg)
			_, _ = fmt.Fprintln(out, "\nConfiguration valid!")
			return nil
		},
	}
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		_, _ = fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			_, _ = fmt.Fprintf(w, "  - %s\n", m)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		_, _ = fmt.Fprintln(w, "Validation errors:")
		bySection := e.BySection()
		for _, section := range e.Sections() {
			_, _ = fmt.Fprintf(w, "  [%s]\n", section)
			for _, msg := range bySection[section] {
				_, _ = fmt.Fprintf(w, "    - %s\n", msg)
			}
		}
		_, _ = fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	_, _ = fmt.Fprintln(w, "Configuration Summary:")
	_, _ = fmt.Fprintf(w, "  Vault:      %s\n", cfg.Vault.Root)
	_, _ = fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)
	_, _ = fmt.Fprintf(w, "  Defaults:   %s, %s on conflict, %s local files\n",
		cfg.Defaults.Extension, cfg.Defaults.Conflict, cfg.Defaults.ImportBehavior)

	mode := cfg.Defaults.FolderMode
	if mode == "predefined" {
		mode += " (" + cfg.Defaults.PredefinedFolder + ")"
	}
	_, _ = fmt.Fprintf(w, "  Folders:    %d predefined, mode %s\n", len(cfg.Folders), mode)

	if cfg.Watch.Enabled {
		_, _ = fmt.Fprintf(w, "  Watch:      %s -> %s\n", cfg.Watch.Dir, cfg.Watch.Folder)
	} else {
		_, _ = fmt.Fprintln(w, "  Watch:      disabled")
	}
	_, _ = fmt.Fprintf(w, "  Server:     %s:%d\n", cfg.Server.Host, cfg.Server.Port)
}
