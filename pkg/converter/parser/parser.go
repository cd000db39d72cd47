// Package parser extracts enum declarations from source text.
//
// Extraction is regex driven: the language's outer pattern finds each enum
// block, and its inner pattern finds the items inside the block body. No
// syntax tree of the surrounding file is ever built. Comments, nested braces
// and multi-line string literals inside a body are not handled.
//
// Values are literal tokens. An expression such as "a" + "b" is kept whole as
// raw text and makes its enum Heterogeneous; a comma inside an unquoted
// expression, e.g. a call with two arguments, still splits the item.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stackvity/enum-converter/pkg/converter/language"
	"github.com/stackvity/enum-converter/pkg/converter/tracker"
)

// ErrMissingParser indicates a registered language that cannot be used as a
// conversion source. Fatal for the run.
var ErrMissingParser = errors.New("no parser implemented for language")

// Parser turns the text of one source file into generic enum records.
// Implementations MUST be safe for concurrent use.
type Parser interface {
	// ParseFileContent returns the enums declared in text, in declaration
	// order. Malformed enums are reported to the tracker and left out.
	ParseFileContent(text string) []enum.GenericEnum
}

// RegexParser implements Parser with a language's two extraction patterns.
type RegexParser struct {
	config  language.Configuration
	tracker *tracker.Tracker
}

// Compile-time check that RegexParser implements Parser.
var _ Parser = (*RegexParser)(nil)

// New creates a RegexParser for cfg reporting into tr.
func New(cfg language.Configuration, tr *tracker.Tracker) *RegexParser {
	return &RegexParser{config: cfg, tracker: tr}
}

// For resolves a language identifier to its parser.
// Unknown identifiers wrap language.ErrUnknownLanguage; target-only languages
// wrap ErrMissingParser.
func For(id string, tr *tracker.Tracker) (Parser, error) {
	cfg, err := language.Lookup(id)
	if err != nil {
		return nil, err
	}
	if !cfg.CanParse() {
		return nil, fmt.Errorf("%w: %s", ErrMissingParser, cfg.DisplayName)
	}
	return New(cfg, tr), nil
}

// ParseFileContent implements Parser.
func (p *RegexParser) ParseFileContent(text string) []enum.GenericEnum {
	matches := p.config.EnumPattern.FindAllStringSubmatch(text, -1)
	enums := make([]enum.GenericEnum, 0, len(matches))

	for _, match := range matches {
		name := strings.TrimSpace(match[1])
		body := match[2]

		items := p.parseBody(body)
		if len(items) == 0 && strings.TrimSpace(body) != "" {
			p.tracker.AddInvalidEnum(name)
			continue
		}
		enums = append(enums, enum.New(name, items))
	}
	return enums
}

func (p *RegexParser) parseBody(body string) []enum.Item {
	var items []enum.Item
	for _, m := range p.config.EnumBodyPattern.FindAllStringSubmatchIndex(body, -1) {
		name := strings.TrimSpace(body[m[2]:m[3]])
		if name == "" {
			continue
		}
		// Group 2 did not participate: the item has no explicit value.
		if m[4] < 0 {
			items = append(items, enum.NewBareItem(name))
			continue
		}
		value := strings.TrimSpace(body[m[4]:m[5]])
		if value == "" {
			items = append(items, enum.NewBareItem(name))
			continue
		}
		items = append(items, enum.NewItem(name, value))
	}
	return items
}
