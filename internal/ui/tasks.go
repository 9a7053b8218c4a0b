package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TaskRow is one task of a produced core file.
type TaskRow struct {
	Index      uint32
	TCB        uint32
	StackStart uint32
	StackLen   uint32
	// Status is "ok" or a comma separated list of corruption flags
	Status  string
	Crashed bool
}

// TaskTable lists the tasks of a core file.
type TaskTable struct {
	Rows []TaskRow
}

// NewTaskTable creates a table over rows.
func NewTaskTable(rows []TaskRow) *TaskTable {
	return &TaskTable{Rows: rows}
}

// Render returns the table, or a muted placeholder when there are no tasks.
func (t *TaskTable) Render() string {
	if len(t.Rows) == 0 {
		return StepPendingStyle.PaddingLeft(2).Render("no tasks")
	}

	cells := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		mark := ""
		if r.Crashed {
			mark = FailureMarker
		}
		cells = append(cells, []string{
			fmt.Sprintf("%d", r.Index),
			fmt.Sprintf("0x%08x", r.TCB),
			fmt.Sprintf("0x%08x", r.StackStart),
			fmt.Sprintf("%d", r.StackLen),
			r.Status,
			mark,
		})
	}

	rows := t.Rows
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers("#", "TCB", "STACK", "LEN", "STATUS", "CRASHED").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if row < 0 || row >= len(rows) {
				return TableCellStyle
			}
			switch {
			case rows[row].Crashed:
				return TableCellStyle.Foreground(ErrorColor)
			case rows[row].Status != "ok":
				return TableCellStyle.Foreground(WarningColor)
			}
			return TableCellStyle
		})

	return lipgloss.NewStyle().MarginLeft(2).Render(tbl.Render())
}

// String implements fmt.Stringer
func (t *TaskTable) String() string {
	return t.Render()
}
