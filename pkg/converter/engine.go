package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/stackvity/enum-converter/pkg/converter/encoding"
	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stackvity/enum-converter/pkg/converter/generator"
	"github.com/stackvity/enum-converter/pkg/converter/language"
	"github.com/stackvity/enum-converter/pkg/converter/parser"
	"github.com/stackvity/enum-converter/pkg/converter/tracker"
	"golang.org/x/sync/errgroup"
)

// Engine orchestrates a conversion run: discover, process, write, report.
// An Engine may be Run repeatedly (watch mode); every run gets its own
// tracker, parser and converter.
type Engine struct {
	opts        *Options
	logger      *slog.Logger
	source      language.Configuration
	target      language.Configuration
	concurrency int
}

// NewEngine validates opts and resolves defaults. Every error it returns is
// fatal for the run and wraps ErrConfigValidation.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	source, target, err := validateLanguages(opts.SourceLanguage, opts.TargetLanguage)
	if err != nil {
		logger.Error("Invalid language selection", slog.String("error", err.Error()))
		return nil, err
	}
	if err := validateDirectories(&opts); err != nil {
		logger.Error("Invalid directories", slog.String("error", err.Error()))
		return nil, err
	}
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency cannot be negative", ErrConfigValidation)
	}
	if opts.ChangedOnly && opts.GitClient == nil {
		return nil, fmt.Errorf("%w: GitClient required when ChangedOnly is set", ErrConfigValidation)
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = DefaultOutputFormat
	}
	if !opts.OutputFormat.IsValid() {
		return nil, fmt.Errorf("%w: unknown output format %q", ErrConfigValidation, opts.OutputFormat)
	}

	if opts.FeatureToggle == nil {
		opts.FeatureToggle = generator.StaticToggle(DefaultExperimentalEnumGeneration)
	}
	if opts.LanguageDetector == nil {
		opts.LanguageDetector = language.NewEnryDetector()
		logger.Debug("LanguageDetector not provided, using default go-enry detector.")
	}
	if opts.EncodingHandler == nil {
		handler, err := encoding.NewCharsetHandler(opts.DefaultEncoding)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
		}
		opts.EncodingHandler = handler
		logger.Debug("EncodingHandler not provided, using default charset handler.")
	}

	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = runtime.NumCPU()
		logger.Debug("Concurrency auto-detected", slog.Int("count", concurrency))
	}

	return &Engine{
		opts:        &opts,
		logger:      logger,
		source:      source,
		target:      target,
		concurrency: concurrency,
	}, nil
}

// validateLanguages resolves both languages and checks a parser and a
// converter exist for them.
func validateLanguages(sourceID, targetID string) (language.Configuration, language.Configuration, error) {
	var none language.Configuration
	if strings.TrimSpace(sourceID) == "" {
		return none, none, fmt.Errorf("%w: %w", ErrConfigValidation, ErrSourceLanguageRequired)
	}
	if strings.TrimSpace(targetID) == "" {
		return none, none, fmt.Errorf("%w: %w", ErrConfigValidation, ErrTargetLanguageRequired)
	}
	source, err := language.Lookup(sourceID)
	if err != nil {
		return none, none, fmt.Errorf("%w: %w: %w", ErrConfigValidation, ErrUnsupportedSourceLanguage, err)
	}
	target, err := language.Lookup(targetID)
	if err != nil {
		return none, none, fmt.Errorf("%w: %w: %w", ErrConfigValidation, ErrUnsupportedTargetLanguage, err)
	}
	if source.ID == target.ID {
		return none, none, fmt.Errorf("%w: %w: %s", ErrConfigValidation, ErrSameSourceAndTargetLanguage, source.DisplayName)
	}

	// Resolve throwaway instances purely to surface missing implementations
	// before any file is touched.
	scratch := tracker.New()
	if _, err := parser.For(string(source.ID), scratch); err != nil {
		return none, none, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	if _, err := generator.For(string(target.ID), scratch, nil); err != nil {
		return none, none, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return source, target, nil
}

// validateDirectories makes both paths absolute and checks the source is a
// readable directory distinct from the target.
func validateDirectories(opts *Options) error {
	if opts.SourcePath == "" {
		return fmt.Errorf("%w: %w: path is empty", ErrConfigValidation, ErrInvalidSourceDirectory)
	}
	if opts.TargetPath == "" {
		return fmt.Errorf("%w: target path cannot be empty", ErrConfigValidation)
	}
	sourceAbs, err := filepath.Abs(opts.SourcePath)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", ErrConfigValidation, ErrInvalidSourceDirectory, err)
	}
	targetAbs, err := filepath.Abs(opts.TargetPath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve target path %q: %w", ErrConfigValidation, opts.TargetPath, err)
	}

	info, err := os.Stat(sourceAbs)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", ErrConfigValidation, ErrInvalidSourceDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %w: %s is not a directory", ErrConfigValidation, ErrInvalidSourceDirectory, sourceAbs)
	}
	if sourceAbs == targetAbs {
		return fmt.Errorf("%w: %w: %s", ErrConfigValidation, ErrSameSourceAndTargetDirectory, sourceAbs)
	}

	opts.SourcePath = sourceAbs
	opts.TargetPath = targetAbs
	return nil
}

// Run performs one conversion run. The returned error is non-nil only for
// fatal conditions (cancellation, an unreadable source tree, a failed Git
// query); per-file problems are recorded in the Report.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	tr := tracker.New()
	agg := &runAggregator{}
	e.logger.Info("Starting enum conversion run",
		slog.String("source", e.source.DisplayName),
		slog.String("target", e.target.DisplayName),
		slog.Int("concurrency", e.concurrency))

	err := e.run(ctx, tr, agg)
	report := e.buildReport(tr, agg, startTime)

	e.logger.Info("Enum conversion run finished",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("generated", len(report.Generation.GeneratedFiles)),
		slog.Int("skipped", report.Summary.SkippedCount),
		slog.Int("errors", report.Summary.ErrorCount))

	if hookErr := e.opts.EventHooks.OnRunComplete(report); hookErr != nil {
		e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
	return report, err
}

func (e *Engine) run(ctx context.Context, tr *tracker.Tracker, agg *runAggregator) error {
	var changed map[string]struct{}
	if e.opts.ChangedOnly {
		files, err := e.opts.GitClient.ChangedFiles(e.opts.SourcePath)
		if err != nil {
			e.logger.Error("Failed to list changed files", slog.String("error", err.Error()))
			return fmt.Errorf("%w: %w", ErrGitOperation, err)
		}
		changed = make(map[string]struct{}, len(files))
		for _, f := range files {
			changed[filepath.Clean(f)] = struct{}{}
		}
		e.logger.Debug("Git changed-files filter active", slog.Int("changed", len(changed)))
	}

	walker, err := NewWalker(e.opts, e.source.FileExtension, changed, e.opts.Logger)
	if err != nil {
		return fmt.Errorf("walker initialization failed: %w", err)
	}
	candidates, skipped, err := walker.Discover(ctx)
	if err != nil {
		return err
	}
	agg.scanned = len(candidates) + len(skipped)
	agg.skipped = append(agg.skipped, skipped...)

	p, err := parser.For(string(e.source.ID), tr)
	if err != nil {
		return err
	}
	c, err := generator.For(string(e.target.ID), tr, e.opts.FeatureToggle)
	if err != nil {
		return err
	}
	processor := NewFileProcessor(e.opts, e.opts.Logger, e.source, e.target, p, c, e.opts.LanguageDetector, e.opts.EncodingHandler)

	// Results are addressed by discovery index so output order never depends
	// on which worker finishes first.
	results := make([]fileResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, path := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processor.ProcessFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Info("Processing run cancelled", slog.String("reason", err.Error()))
		agg.collect(results)
		return err
	}
	agg.collect(results)

	e.writeAll(results, tr, agg)
	return nil
}

// writeAll writes every generated file sequentially in discovery order.
// A later file with the same name overwrites an earlier one.
func (e *Engine) writeAll(results []fileResult, tr *tracker.Tracker, agg *runAggregator) {
	var pending []enum.CodeFile
	for _, r := range results {
		pending = append(pending, r.files...)
	}
	if len(pending) == 0 {
		e.logger.Info("No enum files to write")
		return
	}

	mkdirErr := os.MkdirAll(e.opts.TargetPath, 0o755)
	if mkdirErr != nil {
		e.logger.Error("Cannot create target directory", slog.String("path", e.opts.TargetPath), slog.String("error", mkdirErr.Error()))
	}

	for _, file := range pending {
		err := mkdirErr
		if err == nil {
			err = writeCodeFile(e.opts.TargetPath, file)
		}
		if err != nil {
			e.logger.Warn("Failed to write generated file", slog.String("file", file.FileName), slog.String("error", err.Error()))
			tr.AddGenerationFailedFile(file.FileName)
			agg.errors = append(agg.errors, ErrorInfo{Path: file.FileName, Error: fmt.Errorf("%w: %w", ErrWriteFailed, err).Error()})
			continue
		}
		e.logger.Debug("Generated file written", slog.String("file", file.FileName))
		tr.AddGeneratedFile(file.FileName)
	}
}

func writeCodeFile(dir string, file enum.CodeFile) error {
	content := file.FileContent
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(filepath.Join(dir, file.FileName), []byte(content), 0o644)
}

func (e *Engine) buildReport(tr *tracker.Tracker, agg *runAggregator, startTime time.Time) Report {
	return Report{
		Summary: ReportSummary{
			SourcePath:        e.opts.SourcePath,
			TargetPath:        e.opts.TargetPath,
			SourceLanguage:    string(e.source.ID),
			TargetLanguage:    string(e.target.ID),
			ConfigFilePath:    e.opts.ConfigFilePath,
			TotalFilesScanned: agg.scanned,
			ProcessedCount:    agg.processed,
			EnumCount:         agg.enums,
			SkippedCount:      len(agg.skipped),
			ErrorCount:        len(agg.errors),
			DurationSeconds:   time.Since(startTime).Seconds(),
			Concurrency:       e.concurrency,
			Timestamp:         time.Now().UTC(),
			SchemaVersion:     ReportSchemaVersion,
		},
		Generation:   tr.Report(),
		SkippedFiles: nonNil(agg.skipped),
		Errors:       nonNil(agg.errors),
	}
}

// --- runAggregator ---

// runAggregator collects per-file outcomes. It is only touched from the
// goroutine running Engine.Run.
type runAggregator struct {
	scanned   int
	processed int
	enums     int
	skipped   []SkippedInfo
	errors    []ErrorInfo
}

func (a *runAggregator) collect(results []fileResult) {
	for _, r := range results {
		if r.relPath == "" {
			// Slot never filled because the run was cancelled.
			continue
		}
		switch {
		case r.skipped != nil:
			a.skipped = append(a.skipped, *r.skipped)
		case r.err != nil:
			a.errors = append(a.errors, *r.err)
			a.enums += r.enums
		default:
			a.processed++
			a.enums += r.enums
		}
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
