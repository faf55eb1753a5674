// Package render formats notebook cells and fields for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Defaults for the source highlighter
const (
	DefaultLanguage  = "python"
	DefaultStyle     = "monokai"
	DefaultFormatter = "terminal256"
)

// Renderer formats cells. The zero value renders plain text.
type Renderer struct {
	// Color enables ANSI styling and syntax highlighting
	Color bool

	// Language, Style and Formatter select the chroma lexer, style and
	// formatter; empty values use the defaults
	Language  string
	Style     string
	Formatter string
}

// New returns a renderer with the default highlighter settings.
func New(color bool) *Renderer {
	return &Renderer{
		Color:     color,
		Language:  DefaultLanguage,
		Style:     DefaultStyle,
		Formatter: DefaultFormatter,
	}
}

// Highlight returns source with syntax highlighting. Without color, or
// when highlighting fails, source is returned unchanged.
func (r *Renderer) Highlight(source string) string {
	if !r.Color || source == "" {
		return source
	}

	lexer := lexers.Get(orDefault(r.Language, DefaultLanguage))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(orDefault(r.Style, DefaultStyle))
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get(orDefault(r.Formatter, DefaultFormatter))
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return source
	}
	return b.String()
}

// Header renders the line above a cell.
func (r *Renderer) Header(index int) string {
	header := fmt.Sprintf("[%d]", index)
	if !r.Color {
		return header
	}
	return headerStyle.Render(header)
}

// Cell renders a header, the highlighted source and, when present, the
// output.
func (r *Renderer) Cell(index int, source, output string) string {
	var b strings.Builder
	b.WriteString(r.Header(index))
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(r.Highlight(source), "\n"))
	b.WriteByte('\n')

	output = strings.TrimRight(output, "\n")
	if output != "" {
		b.WriteString(r.Output(output))
		b.WriteByte('\n')
	}
	return b.String()
}

// Output renders cell output, set off from the source by a left rule.
func (r *Renderer) Output(output string) string {
	if !r.Color {
		lines := strings.Split(output, "\n")
		for i, line := range lines {
			lines[i] = "| " + line
		}
		return strings.Join(lines, "\n")
	}
	return outputStyle.Render(output)
}

// Field renders one form field as "name (kind): value".
func (r *Renderer) Field(name, kind, value string) string {
	if !r.Color {
		return fmt.Sprintf("%s (%s): %s", name, kind, value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		fieldNameStyle.Render(name), " ",
		fieldKindStyle.Render("("+kind+")"), ": ",
		value,
	)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
