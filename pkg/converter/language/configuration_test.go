package language_test

import (
	"strings"
	"testing"

	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stackvity/enum-converter/pkg/converter/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	testCases := []struct {
		input    string
		expected language.ID
	}{
		{"csharp", language.CSharp},
		{"CSharp", language.CSharp},
		{"cs", language.CSharp},
		{"C#", language.CSharp},
		{" ts ", language.TypeScript},
		{"javascript", language.JavaScript},
		{"dart", language.Dart},
		{"java", language.Java},
		{"py", language.Python},
		{"golang", language.Go},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			cfg, err := language.Lookup(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg.ID)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := language.Lookup("cobol")
	require.Error(t, err)
	assert.ErrorIs(t, err, language.ErrUnknownLanguage)
	assert.Contains(t, err.Error(), "cobol")

	_, ok := language.Normalize("")
	assert.False(t, ok)
}

func TestConfiguration_Supports(t *testing.T) {
	cs := language.MustLookup(language.CSharp)
	assert.True(t, cs.Supports(enum.General))
	assert.True(t, cs.Supports(enum.Numeric))
	assert.False(t, cs.Supports(enum.String))
	assert.False(t, cs.Supports(enum.Heterogeneous))

	ts := language.MustLookup(language.TypeScript)
	for _, shape := range enum.AllShapes {
		assert.True(t, ts.Supports(shape), "TypeScript should support %s", shape)
	}
}

func TestConfiguration_FileName(t *testing.T) {
	assert.Equal(t, "OrderStatus.cs", language.MustLookup(language.CSharp).FileName("orderStatus"))
	assert.Equal(t, "order-status.ts", language.MustLookup(language.TypeScript).FileName("OrderStatus"))
	assert.Equal(t, "orderStatus.js", language.MustLookup(language.JavaScript).FileName("OrderStatus"))
	assert.Equal(t, "order_status.dart", language.MustLookup(language.Dart).FileName("OrderStatus"))
	assert.Equal(t, "order_status.py", language.MustLookup(language.Python).FileName("OrderStatus"))
}

func TestConfiguration_CanParse(t *testing.T) {
	for _, cfg := range language.All() {
		switch cfg.ID {
		case language.Python, language.Go:
			assert.False(t, cfg.CanParse(), "%s is target-only", cfg.ID)
		default:
			assert.True(t, cfg.CanParse(), "%s should carry extraction patterns", cfg.ID)
		}
	}
}

func TestConfiguration_Indent(t *testing.T) {
	assert.Equal(t, "\t", language.MustLookup(language.Java).Indent())
	assert.Equal(t, "    ", language.MustLookup(language.Python).Indent())
}

func TestAllAndIDs_StableOrder(t *testing.T) {
	ids := language.IDs()
	require.Len(t, language.All(), len(ids))
	assert.Equal(t, "csharp", ids[0])
	assert.Equal(t, ids, language.IDs())
	for i, cfg := range language.All() {
		assert.Equal(t, ids[i], string(cfg.ID))
	}
}

// TestEnumPatterns exercises the outer and inner patterns on representative
// declarations for each parseable language.
func TestEnumPatterns(t *testing.T) {
	testCases := []struct {
		name     string
		id       language.ID
		source   string
		enumName string
		items    [][2]string
	}{
		{
			name:     "csharp with base type",
			id:       language.CSharp,
			source:   "public enum Level : byte { Low = 1, High = 2 }",
			enumName: "Level",
			items:    [][2]string{{"Low", "1"}, {"High", "2"}},
		},
		{
			name:     "typescript const enum",
			id:       language.TypeScript,
			source:   "export const enum Mode { Read = \"r,w\", Write = 'w' }",
			enumName: "Mode",
			items:    [][2]string{{"Read", "\"r,w\""}, {"Write", "'w'"}},
		},
		{
			name:     "dart enhanced enum",
			id:       language.Dart,
			source:   "enum Planet { mercury(1), venus(2); final int v; }",
			enumName: "Planet",
			items:    [][2]string{{"mercury", "1"}, {"venus", "2"}},
		},
		{
			name:     "java enum with implements",
			id:       language.Java,
			source:   "public enum Op implements Runnable { ADD(\"+\"), SUB(\"-\"); }",
			enumName: "Op",
			items:    [][2]string{{"ADD", "\"+\""}, {"SUB", "\"-\""}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := language.MustLookup(tc.id)
			match := cfg.EnumPattern.FindStringSubmatch(tc.source)
			require.Len(t, match, 3)
			assert.Equal(t, tc.enumName, match[1])

			var got [][2]string
			for _, m := range cfg.EnumBodyPattern.FindAllStringSubmatch(match[2], -1) {
				got = append(got, [2]string{m[1], strings.TrimSpace(m[2])})
			}
			assert.Equal(t, tc.items, got)
		})
	}
}
