package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stackvity/enum-converter/internal/cli"
	"github.com/stackvity/enum-converter/internal/cli/config"
	"github.com/stackvity/enum-converter/internal/cli/ui"
	"github.com/stackvity/enum-converter/pkg/converter"
	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stackvity/enum-converter/pkg/converter/language"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. Flag state lives in closures so tests
// can build a fresh tree per case.
func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "enum-converter",
		Short: "Translates enum declarations between programming languages.",
		Long: `enum-converter scans a source directory for enum declarations in one
language and generates equivalent declarations in another.

Supported languages: ` + fmt.Sprint(language.IDs()) + `

Enums whose shape the target cannot express natively are reported as
unsupported, or generated through a fallback when experimentalEnumGeneration
is enabled.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search ., $HOME/.config/enum-converter/)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", converter.DefaultVerbose, "Enable verbose (debug) logging output")

	rootCmd.AddCommand(
		newGenerateCmd(&cfgFile, &verbose),
		newLanguagesCmd(),
		newConfigCmd(&cfgFile, &verbose),
	)
	return rootCmd
}

func newGenerateCmd(cfgFile *string, verbose *bool) *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:     "generate -s <sourceDir> -t <targetDir>",
		Aliases: []string{"gen"},
		Short:   "Converts every enum found under the source directory.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts, settings, logger, err := config.LoadAndValidate(*cfgFile, *verbose, cmd.Flags())
			if err != nil {
				return err
			}
			return cli.Run(ctx, cli.RunConfig{
				Options:  opts,
				Settings: settings,
				Logger:   logger,
				Verbose:  *verbose,
				Watch:    watchMode,
				Out:      cmd.OutOrStdout(),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringP("source", "s", "", "Required. Directory scanned for source files")
	flags.StringP("target", "t", "", "Required. Directory receiving generated files")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	flags.String("source-language", "", "Language of the source files (default from defaultSourceLanguage)")
	flags.String("target-language", "", "Language to generate (default from defaultTargetLanguage)")

	flags.Bool("separate", converter.DefaultSeparateFileForEachType, "Write one file per enum instead of one per source file")
	flags.Bool("experimental", converter.DefaultExperimentalEnumGeneration, "Generate a fallback for enum shapes the target does not support")
	flags.Int("concurrency", converter.DefaultConcurrency, "Number of parallel workers (0 for auto-detect CPU cores)")
	flags.StringArray("ignore", []string{}, "Gitignore-style pattern for files to skip (repeatable)")
	flags.Bool("changed-only", converter.DefaultChangedOnly, "Only convert files Git reports as changed")
	flags.String("output-format", string(converter.DefaultOutputFormat), `Final report format ("text", "json")`)
	flags.String("default-encoding", "", "Encoding assumed when detection is uncertain (e.g. windows-1252)")

	flags.BoolVar(&watchMode, "watch", false, "Re-run on source or config file changes")
	flags.String("watch-debounce", converter.DefaultWatchDebounceString, "Watch debounce duration (e.g. '300ms', '1s')")
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	var shapeName string
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "Lists supported languages and the enum shapes they accept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs := language.All()
			if shapeName != "" {
				shape, ok := enum.ParseShape(shapeName)
				if !ok {
					return fmt.Errorf("unknown enum shape %q. Allowed: %v", shapeName, enum.AllShapes)
				}
				configs = slices.DeleteFunc(configs, func(c language.Configuration) bool { return !c.Supports(shape) })
			}
			ui.NewPrinter(cmd.OutOrStdout()).PrintLanguages(configs)
			return nil
		},
	}
	cmd.Flags().StringVar(&shapeName, "shape", "", "only list languages that express this enum shape natively (general, numeric, string, heterogeneous)")
	return cmd
}

func newConfigCmd(cfgFile *string, verbose *bool) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Shows or changes persistent settings.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Prints the effective value of every setting.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, _, err := config.LoadAndValidate(*cfgFile, *verbose, nil)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(config.Keys))
			for _, k := range config.Keys {
				names = append(names, k.Name)
			}
			sort.Strings(names)
			ui.NewPrinter(cmd.OutOrStdout()).PrintSettings(names, settings.AllSettings(), settings.ConfigFileUsed())
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Writes a setting to the configuration file.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Set(*cfgFile, args[0], args[1])
			if err != nil {
				return err
			}
			ui.NewPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("%s = %s written to %s", args[0], args[1], path))
			return nil
		},
	}

	configCmd.AddCommand(listCmd, setCmd)
	return configCmd
}

// Execute builds the command tree and runs it. Cobra prints returned errors;
// the exit code is non-zero for fatal failures only.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
