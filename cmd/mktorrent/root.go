package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/WendelHime/mktorrent/internal/config"
	"github.com/WendelHime/mktorrent/internal/logic"
	"github.com/WendelHime/mktorrent/internal/output"
	"github.com/WendelHime/mktorrent/internal/walker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Version is set via ldflags during build.
var Version = "dev"

var (
	configPath string
	verbose    bool

	announce        string
	createdBy       string
	name            string
	outputDir       string
	exclude         []string
	excludePatterns []string
	noMD5           bool
	force           bool
	quiet           bool
)

var rootCmd = &cobra.Command{
	Use:          "mktorrent <file-or-directory>",
	Short:        "Create a .torrent file for a file or directory",
	Version:      Version,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		result, err := createTorrent(ctx, cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log build steps to stderr")

	addCreateFlags(rootCmd)
	addCreateFlags(uploadCmd)
	rootCmd.AddCommand(uploadCmd)
}

func addCreateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&announce, "announce", "a", "", "tracker announce URL (default from settings)")
	cmd.Flags().StringVarP(&createdBy, "created-by", "c", "", "value of the 'created by' field")
	cmd.Flags().StringVarP(&name, "name", "n", "", "torrent name (default: base name of the input)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory the .torrent is written to")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "path to leave out (repeatable)")
	cmd.Flags().StringSliceVar(&excludePatterns, "exclude-pattern", nil, "regexp matched against absolute paths to leave out (repeatable)")
	cmd.Flags().BoolVar(&noMD5, "no-md5", false, "do not store md5 sums")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing .torrent")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
}

func newLogger() *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// options merges the settings file with the flags that were set.
func options(cmd *cobra.Command, settings config.Settings) (logic.Options, error) {
	if cmd.Flags().Changed("announce") {
		settings.Announce = announce
	}
	if cmd.Flags().Changed("created-by") {
		settings.CreatedBy = createdBy
	}
	if noMD5 {
		settings.IncludeMD5 = false
	}
	settings.Exclude = append(settings.Exclude, exclude...)
	settings.ExcludePatterns = append(settings.ExcludePatterns, excludePatterns...)

	patterns, err := settings.Patterns()
	if err != nil {
		return logic.Options{}, err
	}

	return logic.Options{
		Announce:         settings.Announce,
		CreatedBy:        settings.CreatedBy,
		IncludeMD5:       settings.IncludeMD5,
		Name:             name,
		ExcludedPaths:    settings.Exclude,
		ExcludedPatterns: patterns,
	}, nil
}

func createTorrent(ctx context.Context, cmd *cobra.Command, path string) (logic.Result, error) {
	logger := newLogger()

	settings, err := config.Load(configPath)
	if err != nil {
		return logic.Result{}, err
	}
	opts, err := options(cmd, settings)
	if err != nil {
		return logic.Result{}, err
	}

	dir := settings.OutputDir
	if cmd.Flags().Changed("output") {
		dir = outputDir
	}

	if !quiet {
		bar := progressbar.DefaultBytes(-1, "hashing")
		defer bar.Finish()
		opts.Progress = func(n int64) {
			bar.Add64(n)
		}
	}

	creator := logic.NewCreator(walker.New(logger), logger)
	result, err := creator.CreateFile(ctx, path, opts, output.NewWriter(dir, force || settings.Overwrite, logger))
	if err != nil {
		logger.Error("failed to create torrent", slog.String("path", path), slog.Any("error", err))
		return logic.Result{}, err
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", w)
	}
	return result, nil
}
