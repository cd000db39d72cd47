package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stackvity/enum-converter/pkg/converter/encoding"
	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stackvity/enum-converter/pkg/converter/generator"
	"github.com/stackvity/enum-converter/pkg/converter/language"
	"github.com/stackvity/enum-converter/pkg/converter/parser"
)

// --- FileProcessor ---

// FileProcessor runs the read, decode, parse and convert pipeline for one
// source file. Writing is left to the engine so output order stays fixed.
type FileProcessor struct {
	opts      *Options
	logger    *slog.Logger
	hooks     Hooks
	source    language.Configuration
	target    language.Configuration
	parser    parser.Parser
	converter generator.Converter
	detector  language.Detector
	encoding  encoding.Handler
}

// fileResult is the outcome of processing one source file.
type fileResult struct {
	relPath string
	files   []enum.CodeFile
	enums   int
	skipped *SkippedInfo
	err     *ErrorInfo
}

// NewFileProcessor creates a new FileProcessor.
func NewFileProcessor(
	opts *Options,
	loggerHandler slog.Handler,
	source, target language.Configuration,
	p parser.Parser,
	c generator.Converter,
	detector language.Detector,
	enc encoding.Handler,
) *FileProcessor {
	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	return &FileProcessor{
		opts:      opts,
		logger:    slog.New(loggerHandler).With(slog.String("component", "processor")),
		hooks:     hooks,
		source:    source,
		target:    target,
		parser:    p,
		converter: c,
		detector:  detector,
		encoding:  enc,
	}
}

// ProcessFile handles one source file. It never returns an error: failures
// are reported in the result so sibling files keep going.
func (p *FileProcessor) ProcessFile(ctx context.Context, absFilePath string) fileResult {
	startTime := time.Now()
	relPath, err := filepath.Rel(p.opts.SourcePath, absFilePath)
	if err != nil {
		relPath = filepath.Base(absFilePath)
	}
	relPath = filepath.ToSlash(relPath)
	result := fileResult{relPath: relPath}
	logger := p.logger.With(slog.String("path", relPath))

	p.status(relPath, StatusProcessing, "", 0)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return p.fail(result, ctxErr, startTime)
	}

	raw, err := os.ReadFile(absFilePath)
	if err != nil {
		logger.Warn("Failed to read source file", slog.String("error", err.Error()))
		return p.fail(result, fmt.Errorf("%w: %w", ErrReadFailed, err), startTime)
	}

	if p.encoding.IsBinary(raw) {
		logger.Debug("Skipping binary file")
		return p.skip(result, SkipReasonBinary, "Binary content", startTime)
	}

	text, encodingName, err := p.encoding.Decode(raw)
	if err != nil {
		logger.Warn("Failed to decode source file", slog.String("encoding", encodingName), slog.String("error", err.Error()))
		return p.fail(result, fmt.Errorf("%w: %w", ErrDecodeFailed, err), startTime)
	}

	if !p.detector.Matches(p.source, absFilePath, []byte(text)) {
		detected := p.detector.Detect(absFilePath, []byte(text))
		logger.Debug("Skipping file detected as another language", slog.String("detected", detected))
		return p.skip(result, SkipReasonLanguage, fmt.Sprintf("Detected as %s, not %s", detected, p.source.DisplayName), startTime)
	}

	enums := p.parser.ParseFileContent(text)
	result.enums = len(enums)
	logger.Debug("Parsed source file", slog.String("encoding", encodingName), slog.Int("enums", len(enums)))

	if len(enums) > 0 {
		files, convErr := p.convert(relPath, enums)
		result.files = files
		if convErr != nil {
			logger.Error("Failed to convert enums", slog.String("error", convErr.Error()))
			return p.fail(result, fmt.Errorf("%w: %w", ErrConvertFailed, convErr), startTime)
		}
	}

	p.status(relPath, StatusSuccess, fmt.Sprintf("%d enum(s), %d file(s)", len(enums), len(result.files)), time.Since(startTime))
	return result
}

// convert renders the enums of one source file as either one CodeFile per enum
// or one CodeFile named after the source file.
func (p *FileProcessor) convert(relPath string, enums []enum.GenericEnum) ([]enum.CodeFile, error) {
	if p.opts.SeparateFileForEachType {
		return p.converter.ConvertEnumsToFiles(enums)
	}

	content, err := p.converter.ConvertEnumsToString(enums)
	if content == "" {
		return nil, err
	}
	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	return []enum.CodeFile{{FileName: p.target.FileName(base), FileContent: content}}, err
}

func (p *FileProcessor) fail(result fileResult, err error, startTime time.Time) fileResult {
	result.err = &ErrorInfo{Path: result.relPath, Error: err.Error()}
	p.status(result.relPath, StatusFailed, err.Error(), time.Since(startTime))
	return result
}

func (p *FileProcessor) skip(result fileResult, reason, details string, startTime time.Time) fileResult {
	result.skipped = &SkippedInfo{Path: result.relPath, Reason: reason, Details: details}
	p.status(result.relPath, StatusSkipped, details, time.Since(startTime))
	return result
}

func (p *FileProcessor) status(relPath string, status Status, message string, duration time.Duration) {
	if hookErr := p.hooks.OnFileStatusUpdate(relPath, status, message, duration); hookErr != nil {
		p.logger.Warn("Event hook OnFileStatusUpdate failed", slog.String("path", relPath), slog.String("status", string(status)), slog.String("error", hookErr.Error()))
	}
}
