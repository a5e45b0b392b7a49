// Package display writes everything the user sees: replies, errors, the
// models table, the waiting spinner and the interactive banner.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/quocvuong92/nimbuscode/internal/api"
)

var (
	colorError   = lipgloss.Color("#f7768e")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorAccent  = lipgloss.Color("#7aa2f7")
	colorMuted   = lipgloss.Color("#565f89")

	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	titleStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or fallback when it is not a terminal
func TerminalWidth(f *os.File, fallback int) int {
	if f == nil {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// ShowError prints a one-line error
func ShowError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: ")+firstLine(msg))
}

// ShowSuccess prints a confirmation line
func ShowSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// ShowInfo prints a dimmed informational line
func ShowInfo(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}

// ShowContent prints a reply as plain text
func ShowContent(w io.Writer, content string) {
	fmt.Fprintln(w, strings.TrimRight(content, "\n"))
}

// ShowModels prints the free models as a table, marking current
func ShowModels(w io.Writer, models []api.ModelDescriptor, current string) {
	if len(models) == 0 {
		fmt.Fprintln(w, "No free models available.")
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Free models (%d):", len(models))))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tNAME\tCONTEXT")
	for _, m := range models {
		marker := " "
		if m.ID == current {
			marker = "*"
		}
		context := "-"
		if m.ContextLength > 0 {
			context = fmt.Sprintf("%d", m.ContextLength)
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, m.ID, m.Name, context)
	}
	_ = tw.Flush()
}

// ShowBanner prints the interactive session header
func ShowBanner(w io.Writer, model, sessionID string) {
	fmt.Fprintln(w, titleStyle.Render("NimbusCode interactive mode"))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Model: %s  Session: %s", model, sessionID)))
	fmt.Fprintln(w, mutedStyle.Render("Type /help for commands, 'exit' to quit. End a line with \\ to continue it."))
	fmt.Fprintln(w)
}

// ShowSettings prints the stored configuration
func ShowSettings(w io.Writer, path string, settings [][2]string) {
	fmt.Fprintln(w, titleStyle.Render("Configuration"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, kv := range settings {
		fmt.Fprintf(tw, "  %s:\t%s\n", kv[0], kv[1])
	}
	_ = tw.Flush()
	fmt.Fprintln(w, mutedStyle.Render("File: "+path))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
