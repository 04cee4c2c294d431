package translate

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	trans "github.com/abhisek/trans/internal/translate"
	"github.com/abhisek/trans/internal/ui/components"
	"github.com/abhisek/trans/internal/ui/layout"
	"github.com/abhisek/trans/internal/ui/theme"
)

func (s *TranslateScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.input.SetWidth(cw - 8)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderSelectors()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(s.input.View(), cw, true)))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(layout.Centered("Translating...", width, theme.TextDim))
	case s.errMsg != "":
		b.WriteString(layout.Centered(s.errMsg, width, theme.Error))
	case s.result != nil:
		b.WriteString(s.renderResult(width, cw))
	default:
		b.WriteString(layout.Centered("Press Enter to translate", width, theme.TextDim))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(s.notice, width, theme.Accent))
	}
	return b.String()
}

func (s *TranslateScreen) renderSelectors() string {
	from := trans.LanguageLabel(s.source)
	to := trans.LanguageLabel(s.target)
	arrow := lipgloss.NewStyle().Foreground(theme.TextDim).Render("  →  ")
	style := lipgloss.NewStyle().Foreground(theme.TextDim).Render("   style ")
	return theme.Chip.Render(from) + arrow + theme.ActiveChip.Render(to) + style + theme.Chip.Render(s.style)
}

func (s *TranslateScreen) renderResult(width, cw int) string {
	t := s.result
	var b strings.Builder

	out := theme.Phrase.Render(t.Output)
	if t.Transliteration != "" {
		out += "\n" + theme.Transliteration.Render(t.Transliteration)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(out, cw, false)))
	b.WriteString("\n")

	meta := fmt.Sprintf("via %s", t.Backend)
	if t.Source == trans.Auto && t.Detected != "" {
		meta = fmt.Sprintf("detected %s · %s", trans.LanguageLabel(t.Detected), meta)
	}
	b.WriteString(layout.Centered(meta, width, theme.TextDim))
	b.WriteString("\n")

	if len(t.Segments) > 1 {
		b.WriteString("\n")
		b.WriteString(layout.Divider(width))
		b.WriteString("\n")
		var rows []string
		for _, seg := range t.Segments {
			if !seg.Eligible() {
				continue
			}
			row := lipgloss.NewStyle().Foreground(theme.Text).Render(seg.Original) +
				lipgloss.NewStyle().Foreground(theme.TextDim).Render("  →  ") +
				lipgloss.NewStyle().Foreground(theme.Secondary).Render(seg.Translated)
			rows = append(rows, row)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}
