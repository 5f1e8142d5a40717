package console

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// clearStatusCmd clears a temporary status after d.
func clearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearTempStatusMsg{}
	})
}
