// Package output provides consistent CLI output formatting with status glyphs.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/deploycheck/internal/ui"
)

// Status glyphs used for report line items.
const (
	GlyphPass = "✓"
	GlyphWarn = "⚠"
	GlyphFail = "✗"
	GlyphInfo = "ℹ"
)

// RuleWidth is the width of the "=====" separators.
const RuleWidth = 40

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles ui.Styles
}

// New creates a new output Writer without color.
func New(out io.Writer) *Writer {
	return NewStyled(out, ui.NoColorStyles())
}

// NewStyled creates a Writer that renders glyphs and headers with styles.
func NewStyled(out io.Writer, styles ui.Styles) *Writer {
	return &Writer{
		out:    out,
		styles: styles,
	}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// item prints an indented line item prefixed with a styled glyph.
func (w *Writer) item(glyph string, msg string) {
	_, _ = fmt.Fprintf(w.out, "  %s %s\n", glyph, msg)
}

// Pass prints a passed line item.
func (w *Writer) Pass(msg string) {
	w.item(w.styles.Pass.Render(GlyphPass), msg)
}

// Warn prints a warning line item.
func (w *Writer) Warn(msg string) {
	w.item(w.styles.Warn.Render(GlyphWarn), msg)
}

// Fail prints a failed line item.
func (w *Writer) Fail(msg string) {
	w.item(w.styles.Fail.Render(GlyphFail), msg)
}

// Info prints an informational line item.
func (w *Writer) Info(msg string) {
	w.item(w.styles.Info.Render(GlyphInfo), msg)
}

// Detail prints a dimmed detail line below an item.
func (w *Writer) Detail(msg string) {
	_, _ = fmt.Fprintf(w.out, "      %s\n", w.styles.Dim.Render(msg))
}

// Header prints a section header.
func (w *Writer) Header(msg string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(msg))
}

// Rule prints a separator line.
func (w *Writer) Rule() {
	_, _ = fmt.Fprintln(w.out, w.styles.Rule.Render(strings.Repeat("=", RuleWidth)))
}

// Banner prints a title framed by separator lines.
func (w *Writer) Banner(title string) {
	w.Rule()
	w.Header(title)
	w.Rule()
}

// Counter prints a summary counter such as "✓ Passed: 12".
func (w *Writer) Counter(glyph, label string, n int) {
	if glyph == "" {
		_, _ = fmt.Fprintf(w.out, "%-10s%d\n", label+":", n)
		return
	}
	_, _ = fmt.Fprintf(w.out, "%s %s %d\n", w.styleGlyph(glyph), label+":", n)
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", w.styles.Summary.Render(msg))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", w.styles.Summary.Render(msg))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

func (w *Writer) styleGlyph(glyph string) string {
	switch glyph {
	case GlyphPass:
		return w.styles.Pass.Render(glyph)
	case GlyphWarn:
		return w.styles.Warn.Render(glyph)
	case GlyphFail:
		return w.styles.Fail.Render(glyph)
	case GlyphInfo:
		return w.styles.Info.Render(glyph)
	default:
		return glyph
	}
}
