package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pterm/pterm"
	"github.com/stockhop/cli/internal/lookup"
	"github.com/stockhop/cli/pkg/stockcode"
)

var (
	historyTitleStyle = lipgloss.NewStyle().Bold(true)
	historyCodeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1a73e8"))
	historyEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f6368")).Italic(true)
	historyBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#dadce0")).Padding(0, 1)
)

// historyPanel renders the history list the way the popup shows it.
func historyPanel(list []stockcode.Code) string {
	var b strings.Builder
	b.WriteString(historyTitleStyle.Render("最近查詢"))
	b.WriteString("\n")
	if len(list) == 0 {
		b.WriteString(historyEmptyStyle.Render(lookup.MsgEmptyHistory))
	} else {
		for i, code := range list {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%d. %s", i+1, historyCodeStyle.Render(string(code)))
		}
	}
	return historyBoxStyle.Render(b.String())
}

func renderHistory(list []stockcode.Code) {
	pterm.Println(historyPanel(list))
}
