// Package generator renders generic enum records as target-language source.
//
// Each target language owns one embedded text/template file defining an
// "enum" block for shapes the language expresses natively and, where the
// language lacks native support for some shape, an "experimental" block that
// approximates the enum with typed named constants.
package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"text/template"

	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stackvity/enum-converter/pkg/converter/language"
	"github.com/stackvity/enum-converter/pkg/converter/tracker"
	"golang.org/x/sync/errgroup"
)

// ErrMissingConverter indicates a registered language that cannot be used as
// a conversion target. Fatal for the run.
var ErrMissingConverter = errors.New("no converter implemented for language")

// ErrRender indicates a template failed to execute for one enum.
var ErrRender = errors.New("failed to render enum")

//go:embed templates/*.tmpl
var templateFS embed.FS

// Converter turns generic enum records into target-language source text.
// Implementations MUST be safe for concurrent use.
type Converter interface {
	// ConvertEnum renders one enum. It returns "" when the enum's shape is
	// unsupported by the target and experimental generation is off.
	ConvertEnum(e enum.GenericEnum) (string, error)

	// ConvertEnumsToString renders a batch and joins the non-empty outputs
	// with a blank line, in input order.
	ConvertEnumsToString(enums []enum.GenericEnum) (string, error)

	// ConvertEnumsToFiles renders a batch into one CodeFile per enum that
	// produced output, in input order.
	ConvertEnumsToFiles(enums []enum.GenericEnum) ([]enum.CodeFile, error)
}

// FeatureToggle exposes the experimental generation switch. It is queried on
// every unsupported enum, so implementations backed by live configuration see
// changes between conversions.
type FeatureToggle interface {
	ExperimentalEnumGeneration() bool
}

// StaticToggle is a FeatureToggle with a fixed value.
type StaticToggle bool

// ExperimentalEnumGeneration implements FeatureToggle.
func (s StaticToggle) ExperimentalEnumGeneration() bool { return bool(s) }

// TemplateConverter implements Converter with a language's embedded template.
type TemplateConverter struct {
	config  language.Configuration
	dialect dialect
	tmpl    *template.Template
	tracker *tracker.Tracker
	toggle  FeatureToggle
	limit   int
}

// Compile-time check that TemplateConverter implements Converter.
var _ Converter = (*TemplateConverter)(nil)

// For resolves a language identifier to its converter.
// Unknown identifiers wrap language.ErrUnknownLanguage. A nil toggle behaves
// as StaticToggle(false).
func For(id string, tr *tracker.Tracker, toggle FeatureToggle) (*TemplateConverter, error) {
	cfg, err := language.Lookup(id)
	if err != nil {
		return nil, err
	}
	d, ok := dialects[cfg.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingConverter, cfg.DisplayName)
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	tmpl, ok := templates[cfg.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s (no template)", ErrMissingConverter, cfg.DisplayName)
	}
	if toggle == nil {
		toggle = StaticToggle(false)
	}
	return &TemplateConverter{
		config:  cfg,
		dialect: d,
		tmpl:    tmpl,
		tracker: tr,
		toggle:  toggle,
		limit:   runtime.NumCPU(),
	}, nil
}

// Language returns the target language configuration.
func (c *TemplateConverter) Language() language.Configuration { return c.config }

// outcome is what a conversion reports to the tracker.
type outcome int

const (
	outcomeNone outcome = iota
	outcomeUnsupported
	outcomeExperimental
)

// ConvertEnum implements Converter.
func (c *TemplateConverter) ConvertEnum(e enum.GenericEnum) (string, error) {
	out, result, err := c.convert(e)
	c.record(e.Name, result)
	return out, err
}

// convert renders e without touching the tracker.
func (c *TemplateConverter) convert(e enum.GenericEnum) (string, outcome, error) {
	if c.native(e) {
		out, err := c.render("enum", c.view(e, e.Type == enum.Heterogeneous))
		return out, outcomeNone, err
	}

	if c.tmpl.Lookup("experimental") == nil || !c.toggle.ExperimentalEnumGeneration() {
		return "", outcomeUnsupported, nil
	}

	out, err := c.render("experimental", c.view(e, true))
	if err != nil {
		return "", outcomeNone, err
	}
	return out, outcomeExperimental, nil
}

func (c *TemplateConverter) record(name string, result outcome) {
	switch result {
	case outcomeUnsupported:
		c.tracker.AddUnsupportedEnum(name)
	case outcomeExperimental:
		c.tracker.AddExperimentalEnum(name)
	}
}

// ConvertEnumsToString implements Converter.
func (c *TemplateConverter) ConvertEnumsToString(enums []enum.GenericEnum) (string, error) {
	outputs, err := c.convertAll(enums)
	parts := make([]string, 0, len(outputs))
	for _, out := range outputs {
		if out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n"), err
}

// ConvertEnumsToFiles implements Converter.
func (c *TemplateConverter) ConvertEnumsToFiles(enums []enum.GenericEnum) ([]enum.CodeFile, error) {
	outputs, err := c.convertAll(enums)
	files := make([]enum.CodeFile, 0, len(outputs))
	for i, out := range outputs {
		if out == "" {
			continue
		}
		files = append(files, enum.CodeFile{
			FileName:    c.config.FileName(enums[i].Name),
			FileContent: out,
		})
	}
	return files, err
}

// convertAll converts every enum concurrently. Outputs and tracker outcomes
// are stored by input position and recorded after the batch, so completion
// order never reorders either. A failing enum leaves an empty slot and does
// not stop its siblings.
func (c *TemplateConverter) convertAll(enums []enum.GenericEnum) ([]string, error) {
	outputs := make([]string, len(enums))
	outcomes := make([]outcome, len(enums))
	errs := make([]error, len(enums))

	var g errgroup.Group
	g.SetLimit(c.limit)
	for i := range enums {
		g.Go(func() error {
			outputs[i], outcomes[i], errs[i] = c.convert(enums[i])
			return nil
		})
	}
	_ = g.Wait()

	for i, result := range outcomes {
		c.record(enums[i].Name, result)
	}

	return outputs, errors.Join(errs...)
}

// native reports whether e renders with the target's native enum block.
func (c *TemplateConverter) native(e enum.GenericEnum) bool {
	if !c.config.Supports(e.Type) {
		return false
	}
	if c.dialect.native != nil {
		return c.dialect.native(e)
	}
	return true
}

func (c *TemplateConverter) render(block string, data enumView) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return "", fmt.Errorf("%w %s as %s %s: %w", ErrRender, data.Name, c.config.DisplayName, block, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// loadTemplates parses every embedded template once per process.
var loadTemplates = sync.OnceValues(func() (map[language.ID]*template.Template, error) {
	templates := make(map[language.ID]*template.Template, len(dialects))
	for id := range dialects {
		name := string(id) + ".tmpl"
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded template %s: %w", name, err)
		}
		templates[id] = tmpl
	}
	return templates, nil
})
