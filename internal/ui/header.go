package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one key/value line of a header or result box. Fields render in the
// order given.
type Field struct {
	Key   string
	Value string
}

// Header is the banner printed before a command runs.
type Header struct {
	Title   string  // e.g. "Create core file"
	Command string  // e.g. "espcoredump create"
	Params  []Field // e.g. {"Core", "dump.b64"}, {"Chip", "esp32"}
	Width   int
}

// NewHeader creates a header sized to the terminal.
func NewHeader(title, command string, params []Field) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the render width.
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header.
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)

	content := top
	if params := h.renderParams(); params != "" {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		content = lipgloss.JoinVertical(lipgloss.Left,
			top,
			RenderHorizontalDivider(dividerWidth, "─"),
			params,
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

// renderParams aligns values on the longest key. Empty values are skipped.
func (h *Header) renderParams() string {
	keyWidth := 0
	for _, p := range h.Params {
		if p.Value != "" && len(p.Key) > keyWidth {
			keyWidth = len(p.Key)
		}
	}

	var lines []string
	for _, p := range h.Params {
		if p.Value == "" {
			continue
		}
		key := p.Key + ":" + strings.Repeat(" ", keyWidth-len(p.Key))
		lines = append(lines, HeaderParamKeyStyle.Render(key)+" "+HeaderParamValueStyle.Render(p.Value))
	}
	return strings.Join(lines, "\n")
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
