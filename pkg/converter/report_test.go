package converter_test

import (
	"encoding/json"
	"testing"

	"github.com/stackvity/enum-converter/pkg/converter"
	"github.com/stackvity/enum-converter/pkg/converter/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_HasProblems(t *testing.T) {
	testCases := []struct {
		name     string
		report   converter.Report
		expected bool
	}{
		{"clean", converter.Report{Generation: tracker.GenerationReport{GeneratedFiles: []string{"a.ts"}}}, false},
		{"experimental only", converter.Report{Generation: tracker.GenerationReport{ExperimentalEnums: []string{"Color"}}}, false},
		{"skipped only", converter.Report{SkippedFiles: []converter.SkippedInfo{{Path: "x.cs", Reason: converter.SkipReasonIgnored}}}, false},
		{"file error", converter.Report{Errors: []converter.ErrorInfo{{Path: "x.cs", Error: "boom"}}}, true},
		{"write failure", converter.Report{Generation: tracker.GenerationReport{GenerationFailedFiles: []string{"a.ts"}}}, true},
		{"invalid enum", converter.Report{Generation: tracker.GenerationReport{InvalidEnums: []string{"Broken"}}}, true},
		{"unsupported enum", converter.Report{Generation: tracker.GenerationReport{UnsupportedEnums: []string{"Color"}}}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.report.HasProblems())
		})
	}
}

func TestReport_JSONFieldNames(t *testing.T) {
	report := converter.Report{
		Summary:    converter.ReportSummary{SourceLanguage: "csharp", SchemaVersion: converter.ReportSchemaVersion},
		Generation: tracker.New().Report(),
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]map[string]any
	// skippedFiles and errors are nil here and decode as null.
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "csharp", decoded["summary"]["sourceLanguage"])
	assert.Equal(t, "1.0", decoded["summary"]["schemaVersion"])
	assert.Contains(t, decoded["generation"], "unsupportedEnums")
	assert.Contains(t, decoded["generation"], "experimentalEnums")
}

func TestOutputFormat_IsValid(t *testing.T) {
	assert.True(t, converter.OutputFormatText.IsValid())
	assert.True(t, converter.OutputFormatJSON.IsValid())
	assert.False(t, converter.OutputFormat("yaml").IsValid())
	assert.False(t, converter.OutputFormat("").IsValid())
}
