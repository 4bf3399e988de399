package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	HugCount   lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	Body       lipgloss.Style

	TitleHugged lipgloss.Style
	TitlePlain  lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpPink := lipgloss.Color("#f5c2e7")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		HugCount:    lipgloss.NewStyle().Foreground(cpPink).Bold(true),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		Body:        lipgloss.NewStyle().Foreground(cpText),
		TitleHugged: lipgloss.NewStyle().Bold(true).Italic(true).Foreground(cpRosewater),
		TitlePlain:  lipgloss.NewStyle().Bold(true).Foreground(cpText),
	}
}

// StylePostTitle highlights posts the viewer already hugged.
func (t Theme) StylePostTitle(post lumen.Post, title string) string {
	if title == "" {
		return title
	}
	if post.IsHugged {
		return t.TitleHugged.Render(title)
	}
	return t.TitlePlain.Render(title)
}

// CategoryTag renders a category label in the category's own color.
func (t Theme) CategoryTag(categoryID string) string {
	info := lumen.CategoryInfo(categoryID)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color)).Render(info.Emoji + " " + info.Name)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
