package repl

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to the diagnostic writer, so a writer that is not a
// terminal gets plain text.
type styles struct {
	prompt lipgloss.Style
	title  lipgloss.Style
	dim    lipgloss.Style
	box    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		// bold red prompt
		prompt: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160")),

		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160")),

		// muted metadata text
		dim: r.NewStyle().
			Foreground(lipgloss.Color("240")),

		// banner with rounded border
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1),
	}
}

// writeBanner renders the banner box. The first line of text is the title.
func (s styles) writeBanner(w io.Writer, title, detail string) {
	content := s.title.Render(title)
	if detail != "" {
		content += "\n" + s.dim.Render(detail)
	}
	fmt.Fprintln(w, s.box.Render(content))
}

func (s styles) writePrompt(w io.Writer, prompt string) {
	fmt.Fprint(w, s.prompt.Render(prompt))
}
