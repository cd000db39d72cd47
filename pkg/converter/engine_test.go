package converter_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stackvity/enum-converter/internal/testutil"
	"github.com/stackvity/enum-converter/pkg/converter"
	"github.com/stackvity/enum-converter/pkg/converter/generator"
	"github.com/stackvity/enum-converter/pkg/converter/language"
	"github.com/stackvity/enum-converter/pkg/converter/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const colorTS = `export enum Color {
	Red = "Red",
	Green = 2,
	Blue = "Blue",
}
`

// newOptions returns options for a run over fresh temp directories.
func newOptions(t *testing.T, source, target string) converter.Options {
	t.Helper()
	root := t.TempDir()
	handler, _ := testutil.NewTestLogger()
	srcDir := filepath.Join(root, "src")
	testutil.CreateDummyDir(t, srcDir)
	return converter.Options{
		SourcePath:              srcDir,
		TargetPath:              filepath.Join(root, "out"),
		SourceLanguage:          source,
		TargetLanguage:          target,
		SeparateFileForEachType: true,
		Logger:                  handler,
		LanguageDetector:        language.ExtensionDetector{},
	}
}

func runEngine(t *testing.T, opts converter.Options) converter.Report {
	t.Helper()
	engine, err := converter.NewEngine(opts)
	require.NoError(t, err)
	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestRun_NumericEnumToTypeScript(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "TestEnum.cs"), "namespace Demo {\n    public enum TestEnum { Item1 = 1, Item2 = 2 }\n}\n")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"test-enum.ts"}, report.Generation.GeneratedFiles)
	assert.Equal(t, "export enum TestEnum {\n\tItem1 = 1,\n\tItem2 = 2,\n}\n", testutil.ReadFile(t, filepath.Join(opts.TargetPath, "test-enum.ts")))
	assert.Equal(t, 1, report.Summary.TotalFilesScanned)
	assert.Equal(t, 1, report.Summary.ProcessedCount)
	assert.Equal(t, 1, report.Summary.EnumCount)
	assert.False(t, report.HasProblems())
}

func TestRun_HeterogeneousExperimental(t *testing.T) {
	opts := newOptions(t, "typescript", "dart")
	opts.FeatureToggle = generator.StaticToggle(true)
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "color.ts"), colorTS)

	report := runEngine(t, opts)

	assert.Equal(t, []string{"Color"}, report.Generation.ExperimentalEnums)
	assert.Empty(t, report.Generation.UnsupportedEnums)
	require.Equal(t, []string{"color.dart"}, report.Generation.GeneratedFiles)

	content := testutil.ReadFile(t, filepath.Join(opts.TargetPath, "color.dart"))
	assert.Contains(t, content, "abstract class Color {")
	assert.Contains(t, content, `static String get Red => "Red";`)
	assert.Contains(t, content, "static int get Green => 2;")
	assert.Contains(t, content, `static String get Blue => "Blue";`)
}

func TestRun_HeterogeneousUnsupportedWithoutToggle(t *testing.T) {
	opts := newOptions(t, "typescript", "dart")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "color.ts"), colorTS)

	report := runEngine(t, opts)

	assert.Equal(t, []string{"Color"}, report.Generation.UnsupportedEnums)
	assert.Empty(t, report.Generation.ExperimentalEnums)
	assert.Empty(t, report.Generation.GeneratedFiles)
	assert.Empty(t, testutil.ListFiles(t, opts.TargetPath))
	assert.True(t, report.HasProblems())
}

func TestRun_NoEnums(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Plain.cs"), "public class Plain { }\n")

	report := runEngine(t, opts)

	assert.True(t, report.Generation.IsEmpty())
	assert.Equal(t, 1, report.Summary.ProcessedCount)
	assert.Zero(t, report.Summary.EnumCount)
	_, err := os.Stat(opts.TargetPath)
	assert.True(t, os.IsNotExist(err), "target directory must not be created without output")
}

func TestRun_JoinedFilePerSource(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	opts.SeparateFileForEachType = false
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Enums.cs"), "enum A { X = 1 }\nenum B { Y = 2 }\n")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"enums.ts"}, report.Generation.GeneratedFiles)
	assert.Equal(t,
		"export enum A {\n\tX = 1,\n}\n\nexport enum B {\n\tY = 2,\n}\n",
		testutil.ReadFile(t, filepath.Join(opts.TargetPath, "enums.ts")))
}

func TestRun_OutputOrderFollowsDiscovery(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	opts.Concurrency = 4
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "b", "Beta.cs"), "enum Beta { A }")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "a", "Alpha.cs"), "enum Alpha { A }\nenum Gamma { G }")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Delta.cs"), "enum Delta { D }")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"delta.ts", "alpha.ts", "gamma.ts", "beta.ts"}, report.Generation.GeneratedFiles)
}

func TestRun_InvalidEnumTracked(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Bad.cs"), "enum Broken { 1, 2 }\nenum Good { A }")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"Broken"}, report.Generation.InvalidEnums)
	assert.Equal(t, []string{"good.ts"}, report.Generation.GeneratedFiles)
	assert.Equal(t, 1, report.Summary.EnumCount)
}

func TestRun_IgnorePatternsAndOtherExtensions(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	opts.IgnorePatterns = []string{"Legacy*.cs", "generated/"}
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Keep.cs"), "enum Keep { A }")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "LegacyStatus.cs"), "enum LegacyStatus { A }")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "generated", "Gen.cs"), "enum Gen { A }")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "notes.txt"), "enum Notes { A }")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"keep.ts"}, report.Generation.GeneratedFiles)
	require.Len(t, report.SkippedFiles, 1)
	assert.Equal(t, "LegacyStatus.cs", report.SkippedFiles[0].Path)
	assert.Equal(t, converter.SkipReasonIgnored, report.SkippedFiles[0].Reason)
	assert.Equal(t, 2, report.Summary.TotalFilesScanned)
}

func TestRun_TargetInsideSourceIsNotRescanned(t *testing.T) {
	opts := newOptions(t, "csharp", "javascript")
	opts.TargetPath = filepath.Join(opts.SourcePath, "generated")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Color.cs"), "enum Color { Red }")
	testutil.CreateDummyFile(t, filepath.Join(opts.TargetPath, "Stale.cs"), "enum Stale { A }")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"color.js"}, report.Generation.GeneratedFiles)
	assert.Equal(t, 1, report.Summary.TotalFilesScanned)
}

func TestRun_ChangedOnly(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	changed := filepath.Join(opts.SourcePath, "Changed.cs")
	testutil.CreateDummyFile(t, changed, "enum Changed { A }")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Same.cs"), "enum Same { A }")

	git := &testutil.MockGitClient{}
	git.On("ChangedFiles", mock.Anything).Return([]string{changed}, nil).Once()
	opts.ChangedOnly = true
	opts.GitClient = git

	report := runEngine(t, opts)

	assert.Equal(t, []string{"changed.ts"}, report.Generation.GeneratedFiles)
	require.Len(t, report.SkippedFiles, 1)
	assert.Equal(t, converter.SkipReasonGitExclude, report.SkippedFiles[0].Reason)
	git.AssertExpectations(t)
}

func TestRun_ChangedOnlyGitFailureIsFatal(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	git := &testutil.MockGitClient{}
	git.On("ChangedFiles", mock.Anything).Return(nil, errors.New("not a repository"))
	opts.ChangedOnly = true
	opts.GitClient = git

	engine, err := converter.NewEngine(opts)
	require.NoError(t, err)
	_, err = engine.Run(context.Background())

	assert.ErrorIs(t, err, converter.ErrGitOperation)
}

func TestRun_WriteFailureTracked(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Color.cs"), "enum Color { Red }")
	// A regular file where the target directory should be.
	testutil.CreateDummyFile(t, opts.TargetPath, "occupied")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"color.ts"}, report.Generation.GenerationFailedFiles)
	assert.Empty(t, report.Generation.GeneratedFiles)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Error, converter.ErrWriteFailed.Error())
}

func TestRun_ReportsAreIndependentAcrossRuns(t *testing.T) {
	opts := newOptions(t, "typescript", "dart")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "color.ts"), colorTS)
	engine, err := converter.NewEngine(opts)
	require.NoError(t, err)

	first, err := engine.Run(context.Background())
	require.NoError(t, err)
	second, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Color"}, first.Generation.UnsupportedEnums)
	assert.Equal(t, []string{"Color"}, second.Generation.UnsupportedEnums)
}

func TestRun_HooksReceiveStatuses(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	hooks := testutil.NewRecordingHooks()
	opts.EventHooks = hooks
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Color.cs"), "enum Color { Red }")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Blob.cs"), "\x00\x01\x02\x03\x00\x00\x00\x00")

	report := runEngine(t, opts)

	assert.ElementsMatch(t, []string{"Blob.cs", "Color.cs"}, hooks.Discovered)
	assert.Equal(t, converter.StatusSuccess, hooks.FinalStatus("Color.cs"))
	assert.Equal(t, converter.StatusSkipped, hooks.FinalStatus("Blob.cs"))
	require.Len(t, hooks.Reports, 1)
	assert.Equal(t, report.Summary.SkippedCount, hooks.Reports[0].Summary.SkippedCount)
	require.Len(t, report.SkippedFiles, 1)
	assert.Equal(t, converter.SkipReasonBinary, report.SkippedFiles[0].Reason)
}

func TestRun_DetectorRejectsForeignContent(t *testing.T) {
	opts := newOptions(t, "typescript", "dart")
	qtPath := filepath.Join(opts.SourcePath, "app_de.ts")
	detector := new(testutil.MockLanguageDetector)
	detector.On("Matches", mock.Anything, qtPath, mock.Anything).Return(false)
	detector.On("Detect", qtPath, mock.Anything).Return("XML")
	detector.On("Matches", mock.Anything, mock.Anything, mock.Anything).Return(true)
	opts.LanguageDetector = detector
	testutil.CreateDummyFile(t, qtPath, "<TS version=\"2.1\"></TS>\n")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "size.ts"), "enum Size { Small, Large }\n")

	report := runEngine(t, opts)

	assert.Equal(t, []string{"size.dart"}, report.Generation.GeneratedFiles)
	require.Len(t, report.SkippedFiles, 1)
	assert.Equal(t, "app_de.ts", report.SkippedFiles[0].Path)
	assert.Equal(t, converter.SkipReasonLanguage, report.SkippedFiles[0].Reason)
	assert.Contains(t, report.SkippedFiles[0].Details, "XML")
	detector.AssertCalled(t, "Detect", qtPath, mock.Anything)
}

func TestRun_Cancelled(t *testing.T) {
	opts := newOptions(t, "csharp", "typescript")
	testutil.CreateDummyFile(t, filepath.Join(opts.SourcePath, "Color.cs"), "enum Color { Red }")
	engine, err := converter.NewEngine(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, testutil.ListFiles(t, opts.TargetPath))
}

func TestNewEngine_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(o *converter.Options)
		expected error
	}{
		{"missing source language", func(o *converter.Options) { o.SourceLanguage = " " }, converter.ErrSourceLanguageRequired},
		{"missing target language", func(o *converter.Options) { o.TargetLanguage = "" }, converter.ErrTargetLanguageRequired},
		{"unknown source language", func(o *converter.Options) { o.SourceLanguage = "cobol" }, converter.ErrUnsupportedSourceLanguage},
		{"unknown target language", func(o *converter.Options) { o.TargetLanguage = "cobol" }, converter.ErrUnsupportedTargetLanguage},
		{"same language via alias", func(o *converter.Options) { o.TargetLanguage = "c#" }, converter.ErrSameSourceAndTargetLanguage},
		{"target-only language as source", func(o *converter.Options) { o.SourceLanguage = "python" }, parser.ErrMissingParser},
		{"missing source dir", func(o *converter.Options) { o.SourcePath = filepath.Join(o.SourcePath, "nope") }, converter.ErrInvalidSourceDirectory},
		{"same directories", func(o *converter.Options) { o.TargetPath = o.SourcePath }, converter.ErrSameSourceAndTargetDirectory},
		{"negative concurrency", func(o *converter.Options) { o.Concurrency = -1 }, converter.ErrConfigValidation},
		{"changed only without git", func(o *converter.Options) { o.ChangedOnly = true }, converter.ErrConfigValidation},
		{"bad output format", func(o *converter.Options) { o.OutputFormat = "yaml" }, converter.ErrConfigValidation},
		{"bad default encoding", func(o *converter.Options) { o.EncodingHandler = nil; o.DefaultEncoding = "klingon-8" }, converter.ErrConfigValidation},
		{"nil logger", func(o *converter.Options) { o.Logger = nil }, converter.ErrConfigValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := newOptions(t, "csharp", "typescript")
			tc.mutate(&opts)

			_, err := converter.NewEngine(opts)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
			assert.ErrorIs(t, err, converter.ErrConfigValidation)
		})
	}
}
