package enum

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casing names an identifier casing convention.
type Casing string

// Constants representing the supported casing conventions.
const (
	PascalCase         Casing = "pascal"
	CamelCase          Casing = "camel"
	SnakeCase          Casing = "snake"
	ScreamingSnakeCase Casing = "screamingSnake"
	KebabCase          Casing = "kebab"
	// AsIs keeps the identifier untouched.
	AsIs Casing = "asIs"
)

// ApplyCasing rewrites an identifier into the requested convention.
// Word boundaries are found at separators ('_', '-', spaces), lower-to-upper
// transitions and acronym ends ("HTTPServer" splits as HTTP|Server). Digits
// stay attached to the word they follow.
func ApplyCasing(c Casing, identifier string) string {
	if c == AsIs || c == "" {
		return identifier
	}
	words := SplitWords(identifier)
	if len(words) == 0 {
		return identifier
	}

	// cases.Caser is stateful; build fresh ones per call so conversions
	// can run from concurrent goroutines.
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)

	switch c {
	case PascalCase:
		for i, w := range words {
			words[i] = title.String(w)
		}
		return strings.Join(words, "")
	case CamelCase:
		for i, w := range words {
			if i == 0 {
				words[i] = lower.String(w)
				continue
			}
			words[i] = title.String(w)
		}
		return strings.Join(words, "")
	case SnakeCase:
		for i, w := range words {
			words[i] = lower.String(w)
		}
		return strings.Join(words, "_")
	case ScreamingSnakeCase:
		for i, w := range words {
			words[i] = upper.String(w)
		}
		return strings.Join(words, "_")
	case KebabCase:
		for i, w := range words {
			words[i] = lower.String(w)
		}
		return strings.Join(words, "-")
	default:
		return identifier
	}
}

// SplitWords breaks an identifier into its words.
func SplitWords(identifier string) []string {
	runes := []rune(identifier)
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(current) > 0 {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}
