package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OutputSection is the output of one gdb command.
type OutputSection struct {
	Command string
	Lines   []string
}

// ToolOutput is a box around captured debugger output.
type ToolOutput struct {
	Title    string
	Sections []OutputSection
	Width    int
	// MaxLines caps the lines shown per section. Zero means no cap.
	MaxLines int
}

// NewToolOutput splits gdb batch output into sections at "==== <command> ====" markers.
// Text before the first marker forms an untitled section.
func NewToolOutput(title, content string) *ToolOutput {
	return &ToolOutput{
		Title:    title,
		Sections: SplitSections(content),
		Width:    GetTerminalWidth(),
	}
}

// SplitSections parses batch output into sections. Empty untitled sections are dropped.
func SplitSections(content string) []OutputSection {
	var (
		sections []OutputSection
		current  OutputSection
	)
	flush := func() {
		for len(current.Lines) > 0 && strings.TrimSpace(current.Lines[len(current.Lines)-1]) == "" {
			current.Lines = current.Lines[:len(current.Lines)-1]
		}
		if current.Command != "" || len(current.Lines) > 0 {
			sections = append(sections, current)
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "==== ") && strings.HasSuffix(trimmed, " ====") && len(trimmed) > 10 {
			flush()
			current = OutputSection{Command: strings.TrimSpace(trimmed[5 : len(trimmed)-5])}
			continue
		}
		if len(current.Lines) == 0 && trimmed == "" {
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	flush()
	return sections
}

// SetWidth sets the render width.
func (o *ToolOutput) SetWidth(width int) *ToolOutput {
	o.Width = width
	return o
}

// SetMaxLines caps the lines shown per section.
func (o *ToolOutput) SetMaxLines(n int) *ToolOutput {
	o.MaxLines = n
	return o
}

// Section returns the section for command, if present.
func (o *ToolOutput) Section(command string) (OutputSection, bool) {
	for _, s := range o.Sections {
		if s.Command == command {
			return s, true
		}
	}
	return OutputSection{}, false
}

// Render returns the styled box.
func (o *ToolOutput) Render() string {
	width := o.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	parts := []string{OutputTitleStyle.Render(o.Title)}
	for _, s := range o.Sections {
		lines := s.Lines
		if o.MaxLines > 0 && len(lines) > o.MaxLines {
			lines = append(lines[:o.MaxLines:o.MaxLines], "... (output truncated)")
		}
		parts = append(parts, "")
		if s.Command != "" {
			parts = append(parts, OutputSectionStyle.Render("(gdb) "+s.Command))
		}
		parts = append(parts, OutputContentStyle.Render(strings.Join(lines, "\n")))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(width - 4).
		Padding(0, 1).
		MarginLeft(2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// String implements fmt.Stringer
func (o *ToolOutput) String() string {
	return o.Render()
}
