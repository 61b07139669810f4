package repl

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/pennwright/inkwell/internal/story"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99")).
				Bold(true).
				Align(lipgloss.Center).
				Padding(0, 1)
	tableOddStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
	tableEvenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case row%2 == 0:
				return tableEvenStyle
			default:
				return tableOddStyle
			}
		}).
		Headers(headers...)
}

func storiesTable(stories []*story.Story) string {
	if len(stories) == 0 {
		return "No stories found"
	}

	t := newTable("ID", "Name", "Passages", "Words", "Broken Links")
	for _, s := range stories {
		stats := s.Stats()
		t.Row(
			truncate(s.ID, 12),
			truncate(s.Name, 30),
			fmt.Sprintf("%d", stats.Passages),
			fmt.Sprintf("%d", stats.Words),
			fmt.Sprintf("%d", stats.BrokenLinks),
		)
	}
	return t.String()
}

func passagesTable(s *story.Story) string {
	if len(s.Passages) == 0 {
		return "No passages found"
	}

	t := newTable("Name", "Tags", "Links", "Preview")
	for _, p := range s.Passages {
		marker := ""
		if p.ID == s.StartPassage {
			marker = " *"
		}
		t.Row(
			truncate(p.Name, 25)+marker,
			truncate(strings.Join(p.Tags, ", "), 20),
			fmt.Sprintf("%d", len(story.Links(p.Text))),
			truncate(preview(p.Text), 40),
		)
	}
	return t.String()
}

func preview(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return line
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
