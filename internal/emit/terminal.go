package emit

import "github.com/charmbracelet/glamour"

// RenderTerminal styles a markdown report for an ANSI terminal. The style
// follows the terminal background; piped output degrades to plain text.
func RenderTerminal(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}
