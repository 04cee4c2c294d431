package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trans/internal/ui/components"
	"github.com/abhisek/trans/internal/ui/theme"
)

const bannerFull = `████████╗██████╗  █████╗ ███╗   ██╗███████╗
╚══██╔══╝██╔══██╗██╔══██╗████╗  ██║██╔════╝
   ██║   ██████╔╝███████║██╔██╗ ██║███████╗
   ██║   ██╔══██╗██╔══██║██║╚██╗██║╚════██║
   ██║   ██║  ██║██║  ██║██║ ╚████║███████║
   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝`

const bannerCompact = "T · R · A · N · S"

const buttonWidth = 22

func renderBanner(cw int, compact bool) string {
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(art))
}

// renderStats shows the pair in use and saved counts in a bordered bar.
func renderStats(st stats, pair string, cw int, compact bool) string {
	pairStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	favStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	quizStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			pairStyle.Render(pair),
			favStyle.Render(fmt.Sprintf("★%d", st.favorites)),
			quizStyle.Render(fmt.Sprintf("✎%d", st.quizzes)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			pairStyle.Render(pair),
			favStyle.Render(fmt.Sprintf("★ %d FAVORITES", st.favorites)),
			quizStyle.Render(fmt.Sprintf("✎ %d QUIZZES", st.quizzes)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

func renderMenu(m components.Menu, cw int, compact bool) string {
	var rows []string
	for i, item := range m.Items {
		selected := i == m.Selected
		if compact {
			style := theme.Unselected
			prefix := "   "
			if selected {
				style = theme.Selected
				prefix = " ▸ "
			}
			rows = append(rows, style.Render(prefix+item.Label))
			continue
		}
		rows = append(rows, components.MenuButton(item.Label, selected, buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}
