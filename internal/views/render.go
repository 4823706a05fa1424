package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Frame is one full screen of the list view.
type Frame struct {
	Summary   string
	Tasks     string
	Side      string
	Status    string
	StatusErr bool
	Keys      string
	PaneWidth int
}

const defaultPaneWidth = 58

var (
	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	keysStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderFrame lays out the task pane, the optional side pane and the
// status and key lines beneath them.
func RenderFrame(f Frame) string {
	width := f.PaneWidth
	if width <= 0 {
		width = defaultPaneWidth
	}
	panes := paneStyle.Width(width).Render(f.Tasks)
	if strings.TrimSpace(f.Side) != "" {
		panes = lipgloss.JoinHorizontal(lipgloss.Top, panes, paneStyle.Width(width).Render(f.Side))
	}

	out := []string{summaryStyle.Render(f.Summary), panes}
	if line := statusLine(f.Status, f.StatusErr); line != "" {
		out = append(out, line)
	}
	if f.Keys != "" {
		out = append(out, keysStyle.Render(f.Keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func statusLine(text string, isErr bool) string {
	switch {
	case text == "":
		return ""
	case isErr:
		return failStyle.Render("status: error: " + text)
	default:
		return okStyle.Render("status: " + text)
	}
}

// RenderMarkdown renders md wrapped to width columns. Rendering errors
// fall back to the raw text.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
