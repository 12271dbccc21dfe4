package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robleto/MeepleGo-sub002/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the meeplego configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath, overwrite)
			if err != nil {
				return err
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set [store] or MEEPLEGO_STORE_DSN before the first rebuild.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

// initTarget resolves where init writes and creates the parent directory.
// An existing file is an error unless overwrite is set.
func initTarget(raw string, overwrite bool) (string, error) {
	resolve := config.ExpandPath
	if strings.TrimSpace(raw) == "" {
		resolve = func(string) (string, error) { return config.DefaultConfigPath() }
	}
	target, err := resolve(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	if !overwrite {
		_, statErr := os.Stat(target)
		switch {
		case statErr == nil:
			return "", fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		case !errors.Is(statErr, fs.ErrNotExist):
			return "", fmt.Errorf("check config path: %w", statErr)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and print the effective settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file not found; built-in defaults apply")
			}
			fmt.Fprintf(out, "Store backend: %s\n", cfg.Store.Backend)
			printTable(out, []column{{"Setting", false}, {"Value", false}}, effectiveSettings(cfg))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func effectiveSettings(cfg *config.Config) [][]string {
	rulesDir := cfg.Paths.RulesDir
	if rulesDir == "" {
		rulesDir = "(built-in rules)"
	}
	return [][]string{
		{"Data dir", cfg.Paths.DataDir},
		{"Rules dir", rulesDir},
		{"Workers", strconv.Itoa(cfg.Pipeline.Workers)},
		{"Retry attempts", strconv.Itoa(cfg.Pipeline.RetryAttempts)},
		{"Years", fmt.Sprintf("%d-%d", cfg.Pipeline.MinYear, cfg.Pipeline.MaxYear)},
		{"Create missing games", yesNo(cfg.Pipeline.CreateMissingGames)},
		{"Log level", cfg.Logging.Level},
	}
}
