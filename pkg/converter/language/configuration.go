package language

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/stackvity/enum-converter/pkg/converter/enum"
)

// ErrUnknownLanguage indicates a language identifier with no registered configuration.
// Reported before any parsing starts; fatal for the run.
var ErrUnknownLanguage = errors.New("unknown language")

// ID identifies a registered language.
type ID string

// Identifiers of the registered languages.
const (
	CSharp     ID = "csharp"
	TypeScript ID = "typescript"
	JavaScript ID = "javascript"
	Dart       ID = "dart"
	Java       ID = "java"
	Python     ID = "python"
	Go         ID = "go"
)

// Configuration is the static, immutable metadata of one language.
//
// EnumPattern must capture the enum name in group 1 and the raw body in
// group 2. EnumBodyPattern must capture an item name in group 1 and an
// optional value in group 2. Target-only languages leave both patterns nil.
type Configuration struct {
	ID           ID
	DisplayName  string
	LinguistName string // Language name as reported by go-enry (GitHub Linguist).

	FileNameCasing enum.Casing
	NameCasing     enum.Casing
	ItemCasing     enum.Casing
	FileExtension  string
	IndentUnit     string

	SupportedEnumTypes []enum.Shape

	EnumPattern     *regexp.Regexp
	EnumBodyPattern *regexp.Regexp
}

// Indent returns the indentation unit used inside generated blocks.
func (c Configuration) Indent() string {
	if c.IndentUnit == "" {
		return "\t"
	}
	return c.IndentUnit
}

// Supports reports whether the language natively expresses the given shape.
func (c Configuration) Supports(shape enum.Shape) bool {
	return slices.Contains(c.SupportedEnumTypes, shape)
}

// CanParse reports whether the configuration carries extraction patterns.
func (c Configuration) CanParse() bool {
	return c.EnumPattern != nil && c.EnumBodyPattern != nil
}

// FileName derives an output file name from a base name using the
// configured file-name casing and extension.
func (c Configuration) FileName(base string) string {
	return enum.ApplyCasing(c.FileNameCasing, base) + "." + c.FileExtension
}

// --- Registry ---

// quotedLiteral keeps commas and parentheses inside string values from
// splitting an item.
const quotedLiteral = `"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'|` + "`[^`]*`"

// assignmentBody matches "Name" or "Name = value" items. A value runs to the
// next comma outside quotes, so "a" + "b" stays one expression value.
var assignmentBody = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*(?:=\s*((?:` + quotedLiteral + "|[^,\"'`])+))?")

// constructorBody matches "NAME" or "NAME(value)" items as used by Java and
// Dart enhanced enums.
var constructorBody = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*(?:\(\s*(` + quotedLiteral + `|[^)]*?)\s*\))?`)

var registry = map[ID]Configuration{
	CSharp: {
		ID:                 CSharp,
		DisplayName:        "C#",
		LinguistName:       "C#",
		FileNameCasing:     enum.PascalCase,
		NameCasing:         enum.PascalCase,
		ItemCasing:         enum.PascalCase,
		FileExtension:      "cs",
		SupportedEnumTypes: []enum.Shape{enum.General, enum.Numeric},
		EnumPattern:        regexp.MustCompile(`enum\s+(\w+)\s*(?::\s*[\w.]+\s*)?\{([^}]*)\}`),
		EnumBodyPattern:    assignmentBody,
	},
	TypeScript: {
		ID:                 TypeScript,
		DisplayName:        "TypeScript",
		LinguistName:       "TypeScript",
		FileNameCasing:     enum.KebabCase,
		NameCasing:         enum.PascalCase,
		ItemCasing:         enum.PascalCase,
		FileExtension:      "ts",
		SupportedEnumTypes: []enum.Shape{enum.General, enum.Numeric, enum.String, enum.Heterogeneous},
		EnumPattern:        regexp.MustCompile(`(?:export\s+)?(?:declare\s+)?(?:const\s+)?enum\s+(\w+)\s*\{([^}]*)\}`),
		EnumBodyPattern:    assignmentBody,
	},
	JavaScript: {
		ID:                 JavaScript,
		DisplayName:        "JavaScript",
		LinguistName:       "JavaScript",
		FileNameCasing:     enum.CamelCase,
		NameCasing:         enum.PascalCase,
		ItemCasing:         enum.PascalCase,
		FileExtension:      "js",
		SupportedEnumTypes: []enum.Shape{enum.General, enum.Numeric, enum.String, enum.Heterogeneous},
		EnumPattern:        regexp.MustCompile(`(?:export\s+)?enum\s+(\w+)\s*\{([^}]*)\}\s*;?`),
		EnumBodyPattern:    assignmentBody,
	},
	Dart: {
		ID:                 Dart,
		DisplayName:        "Dart",
		LinguistName:       "Dart",
		FileNameCasing:     enum.SnakeCase,
		NameCasing:         enum.PascalCase,
		ItemCasing:         enum.PascalCase,
		FileExtension:      "dart",
		SupportedEnumTypes: []enum.Shape{enum.General, enum.Numeric, enum.String},
		EnumPattern:        regexp.MustCompile(`enum\s+(\w+)\s*\{([^;}]*)`),
		EnumBodyPattern:    constructorBody,
	},
	Java: {
		ID:                 Java,
		DisplayName:        "Java",
		LinguistName:       "Java",
		FileNameCasing:     enum.PascalCase,
		NameCasing:         enum.PascalCase,
		ItemCasing:         enum.ScreamingSnakeCase,
		FileExtension:      "java",
		SupportedEnumTypes: []enum.Shape{enum.General, enum.Numeric, enum.String},
		EnumPattern:        regexp.MustCompile(`enum\s+(\w+)\s*(?:implements\s+[\w.,\s]+)?\{([^;}]*)`),
		EnumBodyPattern:    constructorBody,
	},
	Python: {
		ID:                 Python,
		DisplayName:        "Python",
		LinguistName:       "Python",
		FileNameCasing:     enum.SnakeCase,
		NameCasing:         enum.PascalCase,
		ItemCasing:         enum.ScreamingSnakeCase,
		FileExtension:      "py",
		IndentUnit:         "    ",
		SupportedEnumTypes: []enum.Shape{enum.General, enum.Numeric, enum.String, enum.Heterogeneous},
	},
	Go: {
		ID:                 Go,
		DisplayName:        "Go",
		LinguistName:       "Go",
		FileNameCasing:     enum.SnakeCase,
		NameCasing:         enum.PascalCase,
		ItemCasing:         enum.PascalCase,
		FileExtension:      "go",
		SupportedEnumTypes: []enum.Shape{enum.General, enum.Numeric, enum.String},
	},
}

// order fixes the listing order of All.
var order = []ID{CSharp, TypeScript, JavaScript, Dart, Java, Python, Go}

var aliases = map[string]ID{
	"cs":     CSharp,
	"c#":     CSharp,
	"ts":     TypeScript,
	"js":     JavaScript,
	"py":     Python,
	"golang": Go,
}

// Normalize maps a user-supplied identifier or alias to a registered ID.
func Normalize(id string) (ID, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	if alias, ok := aliases[key]; ok {
		return alias, true
	}
	if _, ok := registry[ID(key)]; ok {
		return ID(key), true
	}
	return "", false
}

// Lookup returns the configuration registered for id.
func Lookup(id string) (Configuration, error) {
	normalized, ok := Normalize(id)
	if !ok {
		return Configuration{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
	}
	return registry[normalized], nil
}

// MustLookup is Lookup for identifiers known at compile time.
func MustLookup(id ID) Configuration {
	cfg, err := Lookup(string(id))
	if err != nil {
		panic(err)
	}
	return cfg
}

// All returns every registered configuration in a stable order.
func All() []Configuration {
	configs := make([]Configuration, 0, len(order))
	for _, id := range order {
		configs = append(configs, registry[id])
	}
	return configs
}

// IDs returns every registered identifier in a stable order.
func IDs() []string {
	ids := make([]string, len(order))
	for i, id := range order {
		ids[i] = string(id)
	}
	return ids
}
