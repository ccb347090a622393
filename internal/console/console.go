// Package console prints status banners and raw payloads for the docqa CLI.
package console

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

const defaultWidth = 80

// Kind is the severity of a status banner.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Printer writes status banners to one writer.
type Printer struct {
	w      io.Writer
	width  int
	styles map[Kind]lipgloss.Style
}

// New returns a Printer for w. Colours are used only when w is a terminal
// that supports them.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		width: Width(w, defaultWidth),
		styles: map[Kind]lipgloss.Style{
			Info:    r.NewStyle().Foreground(lipgloss.Color("#1d4ed8")),
			Success: r.NewStyle().Foreground(lipgloss.Color("#15803d")).Bold(true),
			Error:   r.NewStyle().Foreground(lipgloss.Color("#b91c1c")).Bold(true),
		},
	}
}

// Status prints msg as a banner of the given kind, wrapped to the terminal
// width.
func (p *Printer) Status(kind Kind, msg string) {
	text := wordwrap.String(strings.TrimSpace(msg), p.width)
	fmt.Fprintln(p.w, p.styles[kind].Render(text))
}

// Statusf formats and prints a banner.
func (p *Printer) Statusf(kind Kind, format string, args ...any) {
	p.Status(kind, fmt.Sprintf(format, args...))
}

// Raw prints a payload unchanged.
func (p *Printer) Raw(text string) {
	if strings.HasSuffix(text, "\n") {
		fmt.Fprint(p.w, text)
		return
	}
	fmt.Fprintln(p.w, text)
}

// Width returns the terminal width of w, the COLUMNS variable, or fallback.
func Width(w io.Writer, fallback int) int {
	if IsTerminal(w) {
		if width, _, err := term.GetSize(int(w.(*os.File).Fd())); err == nil && width > 0 {
			return width
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if width, err := strconv.Atoi(value); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
