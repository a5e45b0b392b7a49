package display

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	defaultRenderWidth = 80
	maxRenderWidth     = 120
)

// RenderMarkdown formats markdown for the terminal. style is a glamour
// standard style name ("dark", "light", "notty"); empty picks one from
// the terminal background.
func RenderMarkdown(content, style string, width int) (string, error) {
	if width <= 0 {
		width = defaultRenderWidth
	}
	if width > maxRenderWidth {
		width = maxRenderWidth
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
