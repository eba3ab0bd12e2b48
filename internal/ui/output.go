package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))

	// Accent highlights paths and component ids.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
	// Muted is for secondary info.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	// Bold is for emphasis.
	Bold = lipgloss.NewStyle().Bold(true)
)

// Output handles styled terminal output.
type Output struct {
	out     io.Writer
	errOut  io.Writer
	noColor bool
	tty     bool
}

// NewOutput writes to stdout and stderr. Colour is off when stdout is not
// a terminal or NO_COLOR is set.
func NewOutput() *Output {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return &Output{
		out:     os.Stdout,
		errOut:  os.Stderr,
		noColor: !tty || os.Getenv("NO_COLOR") != "",
		tty:     tty,
	}
}

// NewOutputTo writes plain text to the given writers.
func NewOutputTo(out, errOut io.Writer) *Output {
	return &Output{out: out, errOut: errOut, noColor: true}
}

// SetNoColor disables colored output.
func (o *Output) SetNoColor(v bool) {
	o.noColor = v || o.noColor
}

// Writer returns the stdout writer.
func (o *Output) Writer() io.Writer {
	return o.out
}

func (o *Output) style(s lipgloss.Style, text string) string {
	if o.noColor {
		return text
	}
	return s.Render(text)
}

// Success prints a success message with a green checkmark.
func (o *Output) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.out, "OK %s\n", msg)
		return
	}
	fmt.Fprintf(o.out, "%s %s\n", successStyle.Render("✓"), msg)
}

// Error prints an error message with a red X.
func (o *Output) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.errOut, "FAIL %s\n", msg)
		return
	}
	fmt.Fprintf(o.errOut, "%s %s\n", errorStyle.Render("✗"), msg)
}

// Warning prints a warning message with a yellow exclamation.
func (o *Output) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.errOut, "WARN %s\n", msg)
		return
	}
	fmt.Fprintf(o.errOut, "%s %s\n", warnStyle.Render("!"), msg)
}

// Info prints an informational message.
func (o *Output) Info(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Println prints a line to stdout.
func (o *Output) Println(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Debug prints a debug message to stderr.
func (o *Output) Debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.errOut, "DEBUG %s\n", msg)
		return
	}
	fmt.Fprintf(o.errOut, "%s %s\n", debugStyle.Render("[debug]"), msg)
}

// Highlight renders s in the accent colour.
func (o *Output) Highlight(s string) string {
	return o.style(Accent, s)
}

// Dim renders s in the muted colour.
func (o *Output) Dim(s string) string {
	return o.style(Muted, s)
}

// Markdown renders md for the terminal, or prints it verbatim when colour
// is off.
func (o *Output) Markdown(md string) {
	if o.noColor || !o.tty {
		fmt.Fprintln(o.out, strings.TrimRight(md, "\n"))
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			fmt.Fprint(o.out, strings.TrimRight(rendered, "\n")+"\n")
			return
		}
	}
	fmt.Fprintln(o.out, strings.TrimRight(md, "\n"))
}

// Table prints a simple aligned table.
func (o *Output) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
		fmt.Fprintln(o.out, strings.TrimRight(b.String(), " "))
	}

	writeRow(headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
}
