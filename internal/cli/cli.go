// Package cli wires configuration, hooks, Git and watch mode around the
// converter engine for the enum-converter command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/stackvity/enum-converter/internal/cli/config"
	"github.com/stackvity/enum-converter/internal/cli/git"
	"github.com/stackvity/enum-converter/internal/cli/hooks"
	"github.com/stackvity/enum-converter/internal/cli/ui"
	"github.com/stackvity/enum-converter/internal/cli/watch"
	"github.com/stackvity/enum-converter/pkg/converter"
	"github.com/stackvity/enum-converter/pkg/converter/language"
)

// RunConfig carries everything the generate command resolved before
// handing over to Run.
type RunConfig struct {
	Options  converter.Options
	Settings *config.Settings
	Logger   *slog.Logger
	Verbose  bool
	Watch    bool
	Out      io.Writer
}

// Run converts once, or keeps converting on changes when Watch is set.
// Only fatal errors are returned; per-file problems are part of the printed
// report.
func Run(ctx context.Context, cfg RunConfig) error {
	opts := cfg.Options
	cliHooks := hooks.NewCLIHooks(cfg.Logger, cfg.Verbose)
	opts.EventHooks = cliHooks
	printer := ui.NewPrinter(cfg.Out)

	once := func(ctx context.Context, opts converter.Options) error {
		cliHooks.Reset()
		// changedOnly may be switched on by a reloaded config file.
		if opts.ChangedOnly && opts.GitClient == nil {
			opts.GitClient = git.NewGoGitClient(opts.Logger)
		}
		engine, err := converter.NewEngine(opts)
		if err != nil {
			return err
		}
		report, err := engine.Run(ctx)
		if err != nil {
			cfg.Logger.Error("Conversion failed", slog.Any("error", err))
			return err
		}
		if err := printer.PrintReport(report, opts.OutputFormat); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
		return nil
	}

	if !cfg.Watch {
		return once(ctx, opts)
	}

	// A broken configuration is reported up front rather than on the first
	// change.
	if err := once(ctx, opts); err != nil {
		return err
	}
	return runWatch(ctx, cfg, opts, once)
}

func runWatch(ctx context.Context, cfg RunConfig, opts converter.Options, once func(context.Context, converter.Options) error) error {
	sourceCfg, err := language.Lookup(opts.SourceLanguage)
	if err != nil {
		return fmt.Errorf("%w: %w", converter.ErrUnsupportedSourceLanguage, err)
	}
	sourcePath, err := filepath.Abs(opts.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to resolve source path %q: %w", opts.SourcePath, err)
	}
	targetPath, err := filepath.Abs(opts.TargetPath)
	if err != nil {
		return fmt.Errorf("failed to resolve target path %q: %w", opts.TargetPath, err)
	}

	watchOpts := watch.Options{
		SourcePath: sourcePath,
		TargetPath: targetPath,
		Extension:  sourceCfg.FileExtension,
		Debounce:   converter.DefaultWatchDebounceDuration,
	}
	if cfg.Settings != nil {
		if used := cfg.Settings.ConfigFileUsed(); used != "" {
			if watchOpts.ConfigFile, err = filepath.Abs(used); err != nil {
				return fmt.Errorf("failed to resolve config path %q: %w", used, err)
			}
		}
		watchOpts.Debounce = cfg.Settings.WatchDebounce()
	}

	w, err := watch.New(watchOpts, opts.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	// Paths and languages stay fixed for the life of the watch; every other
	// setting follows the config file.
	return w.Run(ctx, func(ctx context.Context) error {
		if cfg.Settings != nil {
			if err := cfg.Settings.Reload(); err != nil {
				cfg.Logger.Warn("Keeping previous configuration", slog.Any("error", err))
			} else if err := cfg.Settings.Apply(&opts); err != nil {
				cfg.Logger.Warn("Keeping previous configuration", slog.Any("error", err))
			}
		}
		return once(ctx, opts)
	})
}
