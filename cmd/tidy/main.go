package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/justinmstuart/tidy/internal/app"
	"github.com/justinmstuart/tidy/internal/config"
	"github.com/justinmstuart/tidy/internal/tidy"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file over the built-in defaults, so a
// partial config only overrides the keys it sets. The tools must run
// without `tidy config init`.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	base := config.NewConfig(defaults["base_dir"])
	cfg, err := config.ReadFromFile(defaults["config_path"], base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaults["log_dir"]
	}
	return cfg, nil
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "TrimFilenames").
func newApp(operation string) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// failedErr turns a nonzero failure count into a command error so the
// process exits non-zero after the summary has been printed.
func failedErr(stats *tidy.RunStats) error {
	if stats.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", stats.Failed)
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:          "tidy",
	Short:        "Local file maintenance utilities",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Log Dir:            %s\n", cfg.LogDir)
		fmt.Printf("Trim Chars:         %d\n", cfg.Trim.Chars)
		fmt.Printf("Archive Quality:    %d\n", cfg.Archive.Quality)
		fmt.Printf("Archive Max Height: %d\n", cfg.Archive.MaxHeight)
		fmt.Printf("Archive Backup:     %t\n", cfg.Archive.Backup)
		fmt.Printf("Ignore Patterns:    %v\n", cfg.Filesystem.Ignore)
		return nil
	},
}

// trim command
var trimCmd = &cobra.Command{
	Use:   "trim [DIR]",
	Short: "Remove leading characters from filenames",
	Long: `Recursively rename every file under DIR by removing the first N
characters of its name. Files whose name is too short or whose trimmed
name already exists are skipped. Running trim twice removes 2*N characters.

DIR falls back to the TIDY_TRIM_DIR environment variable, then to an
interactive prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flagChars, _ := cmd.Flags().GetInt("chars")

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		dir, err := app.ResolveDirectory(arg, "TIDY_TRIM_DIR")
		if err != nil {
			return err
		}

		a, err := newApp("TrimFilenames")
		if err != nil {
			return err
		}
		defer a.Close()

		chars, err := app.ResolveChars(flagChars, a.Config().Trim.Chars)
		if err != nil {
			return err
		}

		stats, err := a.TrimFilenames(dir, chars)
		if err != nil {
			return fmt.Errorf("trimming filenames: %w", err)
		}

		fmt.Printf("Renamed %d file(s), skipped %d, failed %d\n",
			stats.Processed, stats.Skipped, stats.Failed)
		return failedErr(stats)
	},
}

// strip command
var stripCmd = &cobra.Command{
	Use:   "strip [DIR]",
	Short: "Remove metadata tags from audio files",
	Long: `Recursively clear embedded metadata from recognized audio files
(.mp3, .flac) under DIR, rewriting each file in place. The audio payload
is never modified.

DIR falls back to the TIDY_STRIP_DIR environment variable, then to an
interactive prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		dir, err := app.ResolveDirectory(arg, "TIDY_STRIP_DIR")
		if err != nil {
			return err
		}

		a, err := newApp("StripMetadata")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.StripMetadata(dir)
		if err != nil {
			return fmt.Errorf("stripping metadata: %w", err)
		}

		fmt.Printf("Stripped metadata from %d file(s), skipped %d, failed %d\n",
			stats.Processed, stats.Skipped, stats.Failed)
		return failedErr(stats)
	},
}

// cbz command
var cbzCmd = &cobra.Command{
	Use:   "cbz [DIR]",
	Short: "Recompress comic archives",
	Long: `Recursively repack .cbz archives under DIR: images are re-encoded
(and downscaled past the height limit), other entries are copied as-is.
The original is replaced only when the repacked archive is smaller; by
default a <name>_original.cbz backup is kept.

DIR falls back to the TIDY_CBZ_DIR environment variable, then to an
interactive prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		dir, err := app.ResolveDirectory(arg, "TIDY_CBZ_DIR")
		if err != nil {
			return err
		}

		a, err := newApp("OptimizeArchives")
		if err != nil {
			return err
		}
		defer a.Close()

		// Flags override config only when set explicitly.
		opts := tidy.ArchiveOptions{
			Quality:   a.Config().Archive.Quality,
			MaxHeight: a.Config().Archive.MaxHeight,
			Backup:    a.Config().Archive.Backup,
		}
		if cmd.Flags().Changed("quality") {
			opts.Quality, _ = cmd.Flags().GetInt("quality")
		}
		if cmd.Flags().Changed("max-height") {
			opts.MaxHeight, _ = cmd.Flags().GetInt("max-height")
		}
		if cmd.Flags().Changed("backup") {
			opts.Backup, _ = cmd.Flags().GetBool("backup")
		}

		stats, err := a.OptimizeArchives(dir, opts)
		if err != nil {
			return fmt.Errorf("optimizing archives: %w", err)
		}

		fmt.Printf("Optimized %d archive(s), skipped %d, failed %d\n",
			stats.Processed, stats.Skipped, stats.Failed)
		if stats.Processed > 0 {
			fmt.Printf("Space saved: %.2f MB\n", float64(stats.SpaceSaved())/(1024*1024))
		}
		return failedErr(stats)
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().IntP("chars", "n", 0, "Number of leading characters to remove")
	rootCmd.AddCommand(stripCmd)
	rootCmd.AddCommand(cbzCmd)
	cbzCmd.Flags().Int("quality", config.DefaultArchiveQuality, "JPEG quality (1-100)")
	cbzCmd.Flags().Int("max-height", config.DefaultArchiveMaxHeight, "Maximum image height in pixels (0 disables downscaling)")
	cbzCmd.Flags().Bool("backup", config.DefaultArchiveBackup, "Keep a <name>_original.cbz copy before replacing")
}
