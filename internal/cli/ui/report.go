// Package ui renders run reports and the language listing for the terminal.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/stackvity/enum-converter/pkg/converter"
	"github.com/stackvity/enum-converter/pkg/converter/language"
)

const (
	ColorSuccess = lipgloss.Color("40")  // Green
	ColorWarning = lipgloss.Color("214") // Orange/Yellow
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("244") // Dim gray
	ColorHeader  = lipgloss.Color("62")  // Purple
)

// Printer writes report output. Styles are only applied when the writer is
// a terminal, so redirected output and pipes stay plain text.
type Printer struct {
	out    io.Writer
	styled bool

	header  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter creates a Printer for w, styled when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return newPrinter(w, IsTerminal(w))
}

func newPrinter(w io.Writer, styled bool) *Printer {
	r := lipgloss.NewRenderer(w)
	p := &Printer{
		out:     w,
		styled:  styled,
		header:  r.NewStyle(),
		success: r.NewStyle(),
		warning: r.NewStyle(),
		failure: r.NewStyle(),
		muted:   r.NewStyle(),
	}
	if !styled {
		return p
	}
	p.header = p.header.Bold(true).Foreground(ColorHeader)
	p.success = p.success.Foreground(ColorSuccess)
	p.warning = p.warning.Foreground(ColorWarning)
	p.failure = p.failure.Foreground(ColorError).Bold(true)
	p.muted = p.muted.Foreground(ColorMuted)
	return p
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Messages printed at the end of a run, one per non-empty outcome list.
func generatedMessage(names []string) string {
	return "Generated file(s): " + strings.Join(names, ", ")
}

func experimentalMessage(names []string) string {
	return "Experimentally generated enum(s): " + strings.Join(names, ", ")
}

func failedMessage(names []string) string {
	return "File(s) failed to generate: " + strings.Join(names, ", ")
}

func invalidMessage(names []string) string {
	return "Invalid enum(s), no items could be read: " + strings.Join(names, ", ")
}

func unsupportedMessage(names []string) string {
	return "Unsupported enum(s) for the target language (enable experimentalEnumGeneration for a fallback): " + strings.Join(names, ", ")
}

// PrintReport writes report in the requested format.
func (p *Printer) PrintReport(report converter.Report, format converter.OutputFormat) error {
	if format == converter.OutputFormatJSON {
		return p.printJSON(report)
	}
	p.printText(report)
	return nil
}

func (p *Printer) printJSON(report converter.Report) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (p *Printer) printText(report converter.Report) {
	g := report.Generation
	s := report.Summary

	p.line(p.header.Render(fmt.Sprintf("%s → %s", displayName(s.SourceLanguage), displayName(s.TargetLanguage))))

	if len(g.GeneratedFiles) > 0 {
		p.line(p.success.Render(generatedMessage(g.GeneratedFiles)))
	}
	if len(g.ExperimentalEnums) > 0 {
		p.line(p.warning.Render(experimentalMessage(g.ExperimentalEnums)))
	}
	if len(g.GenerationFailedFiles) > 0 {
		p.line(p.failure.Render(failedMessage(g.GenerationFailedFiles)))
	}
	if len(g.InvalidEnums) > 0 {
		p.line(p.failure.Render(invalidMessage(g.InvalidEnums)))
	}
	if len(g.UnsupportedEnums) > 0 {
		p.line(p.failure.Render(unsupportedMessage(g.UnsupportedEnums)))
	}
	for _, e := range report.Errors {
		p.line(p.failure.Render(fmt.Sprintf("  %s: %s", e.Path, e.Error)))
	}
	for _, sk := range report.SkippedFiles {
		detail := sk.Reason
		if sk.Details != "" {
			detail += ", " + sk.Details
		}
		p.line(p.muted.Render(fmt.Sprintf("  skipped %s (%s)", sk.Path, detail)))
	}
	if g.IsEmpty() && len(report.Errors) == 0 {
		p.line(p.muted.Render("No enums found."))
	}

	p.line(p.muted.Render(fmt.Sprintf("%d file(s) scanned, %d enum(s), %d skipped, %d error(s) in %.2fs",
		s.TotalFilesScanned, s.EnumCount, s.SkippedCount, s.ErrorCount, s.DurationSeconds)))
}

// PrintLanguages lists the registered languages with their capabilities.
func (p *Printer) PrintLanguages(configs []language.Configuration) {
	rows := make([][]string, 0, len(configs)+1)
	rows = append(rows, []string{"ID", "NAME", "EXT", "SOURCE", "NATIVE SHAPES"})
	for _, cfg := range configs {
		source := "no"
		if cfg.CanParse() {
			source = "yes"
		}
		shapes := make([]string, 0, len(cfg.SupportedEnumTypes))
		for _, shape := range cfg.SupportedEnumTypes {
			shapes = append(shapes, string(shape))
		}
		rows = append(rows, []string{string(cfg.ID), cfg.DisplayName, "." + cfg.FileExtension, source, strings.Join(shapes, ", ")})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell + strings.Repeat(" ", widths[j]-lipgloss.Width(cell))
		}
		text := strings.TrimRight(strings.Join(cells, "  "), " ")
		if i == 0 {
			text = p.header.Render(text)
		}
		p.line(text)
	}
}

// PrintSettings lists configuration values as "key = value" lines.
func (p *Printer) PrintSettings(names []string, values map[string]any, source string) {
	if source != "" {
		p.line(p.muted.Render("# " + source))
	}
	for _, name := range names {
		p.line(fmt.Sprintf("%s = %v", name, values[name]))
	}
}

// Success prints a one-line success message.
func (p *Printer) Success(msg string) { p.line(p.success.Render(msg)) }

// Warning prints a one-line warning message.
func (p *Printer) Warning(msg string) { p.line(p.warning.Render(msg)) }

func (p *Printer) line(text string) {
	_, _ = fmt.Fprintln(p.out, text)
}

func displayName(id string) string {
	if cfg, err := language.Lookup(id); err == nil {
		return cfg.DisplayName
	}
	return id
}
