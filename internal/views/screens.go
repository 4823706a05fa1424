package views

import (
	"fmt"
	"strings"
)

type TaskPanelData struct {
	Count    int
	ListView string
}

type PromptPanelData struct {
	Title     string
	Message   string
	InputView string
	ErrorText string
}

type TaskDetailData struct {
	ID           string
	Title        string
	CreatedAt    string
	UpdatedAt    string
	MarkdownView string
}

type HelpPanelData struct {
	Context  string
	Bindings []string
	HelpView string
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks (%d):\n", data.Count))
	b.WriteString("actions: [a]add [enter]edit [d]delete [r]reload\n")
	if data.Count == 0 {
		b.WriteString("(no tasks yet, press [a] to add one)")
		return b.String()
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

// RenderPromptPanel draws the modal title entry used for add and edit.
func RenderPromptPanel(data PromptPanelData) string {
	var b strings.Builder
	b.WriteString(data.Title + "\n")
	if data.Message != "" {
		b.WriteString(data.Message + "\n")
	}
	b.WriteString("\n" + data.InputView + "\n\n")
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText + "\n")
	}
	b.WriteString("[enter] save  [esc] cancel")
	return b.String()
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	return fmt.Sprintf("details:\nid: %s\ncreated: %s\nupdated: %s\n\n%s",
		data.ID,
		data.CreatedAt,
		data.UpdatedAt,
		data.MarkdownView,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s\n", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("\nhelp (%s):\n%s\n%s",
		strings.ToLower(data.Context),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
