package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trans/internal/ui/theme"
)

// Choices renders numbered multiple-choice options. Before an answer the
// cursor row is highlighted; afterwards the expected option is marked
// correct and a wrong pick is marked incorrect.
type Choices struct {
	Options  []string
	Cursor   int
	Answered bool
	Expected string
	Picked   string
}

// View renders the option list.
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if !c.Answered && i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case c.Answered && opt == c.Expected:
			style = theme.Correct
			line += "  ✓"
		case c.Answered && opt == c.Picked:
			style = theme.Incorrect
			line += "  ✗"
		case c.Answered:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
