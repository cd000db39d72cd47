package enum

import (
	"regexp"
	"strconv"
	"strings"
)

// ValueKind is the literal kind inferred from a raw value token.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueNumeric
	ValueString
	ValueOther
)

// String returns a readable name for the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "none"
	case ValueNumeric:
		return "numeric"
	case ValueString:
		return "string"
	default:
		return "other"
	}
}

// numericLiteral accepts signed decimal, float, exponent and 0x/0o/0b
// integer literals with optional '_' digit separators. Type suffixes such
// as 1L or 2u are not numeric for our purposes.
var numericLiteral = regexp.MustCompile(
	`^[+-]?(?:0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+|\d[\d_]*(?:\.\d[\d_]*)?(?:[eE][+-]?\d+)?|\.\d[\d_]*(?:[eE][+-]?\d+)?)$`,
)

// KindOf infers the literal kind of a raw value token.
func KindOf(raw string) ValueKind {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ValueNone
	case numericLiteral.MatchString(raw):
		return ValueNumeric
	case isQuoted(raw):
		return ValueString
	default:
		return ValueOther
	}
}

// ItemKind is KindOf applied to the item's value, ValueNone if it has none.
func ItemKind(item Item) ValueKind {
	if item.Value == nil {
		return ValueNone
	}
	return KindOf(*item.Value)
}

func isQuoted(raw string) bool {
	if len(raw) < 2 {
		return false
	}
	q := raw[0]
	if q != '"' && q != '\'' && q != '`' {
		return false
	}
	// The first unescaped closing quote must end the token, so "a" + "b" is
	// an expression rather than a string.
	for i := 1; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case q:
			return i == len(raw)-1
		}
	}
	return false
}

// IsFloat reports whether a numeric token is a non-integral literal.
func IsFloat(raw string) bool {
	raw = strings.TrimLeft(strings.TrimSpace(raw), "+-")
	if len(raw) > 1 && raw[0] == '0' && strings.ContainsAny(raw[1:2], "xXoObB") {
		return false
	}
	return strings.ContainsAny(raw, ".eE")
}

// StringContent decodes a quoted string literal into its text, resolving
// the common escape sequences. Unquoted input is returned unchanged.
func StringContent(raw string) string {
	raw = strings.TrimSpace(raw)
	if !isQuoted(raw) {
		return raw
	}
	if raw[0] == '"' {
		if s, err := strconv.Unquote(raw); err == nil {
			return s
		}
		return raw[1 : len(raw)-1]
	}

	inner := raw[1 : len(raw)-1]
	inner = strings.ReplaceAll(inner, `\'`, `'`)
	inner = strings.ReplaceAll(inner, "\\`", "`")
	// Re-read through the double-quote decoder so \n, \t and \u escapes resolve.
	escaped := strings.ReplaceAll(inner, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, `\\"`, `\"`)
	if s, err := strconv.Unquote(`"` + escaped + `"`); err == nil {
		return s
	}
	return inner
}

// DoubleQuote renders text as a double-quoted literal understood by the
// C-family targets.
func DoubleQuote(text string) string {
	return strconv.Quote(text)
}
