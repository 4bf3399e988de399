package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/lumen-cli/internal/tui/theme"
)

func Toolbar(inDetail bool) string {
	if inDetail {
		return "j/k scroll | h hug post | H hug comment | [ ] select comment | S sort comments | n more comments | o open image | y copy image | esc back | q quit"
	}
	return "j/k move | enter open | h hug | c category | s sort | t range | / search | n more | r refresh | q quit"
}

type FooterInfo struct {
	Category  string
	Sort      string
	TimeRange string
	Search    string
	Shown     int
	HasMore   bool
}

func CompactFooter(info FooterInfo, th tuitheme.Theme) string {
	category := info.Category
	if category == "" {
		category = "All"
	}
	parts := []string{
		th.MetaLabel.Render("category") + " " + th.MetaValue.Render(category),
		th.MetaLabel.Render("sort") + " " + th.MetaValue.Render(info.Sort),
	}
	if info.TimeRange != "" {
		parts = append(parts, th.MetaLabel.Render("range")+" "+th.MetaValue.Render(info.TimeRange))
	}
	if info.Search != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(info.Search))
	}
	shown := fmt.Sprintf("%d shown", info.Shown)
	if info.HasMore {
		shown += "+"
	}
	parts = append(parts, th.MetaValue.Render(shown))
	return strings.Join(parts, " • ")
}

func CompactMessage(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
