package console

import "github.com/charmbracelet/lipgloss"

var (
	// Review
	ContentBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	TitleStyle      = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	HeaderKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	HeaderValStyle  = lipgloss.NewStyle()
	BodyStyle       = lipgloss.NewStyle().MarginTop(1)

	// Sentiment labels
	SentimentStyles = map[string]lipgloss.Style{
		"positive": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"negative": lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		"urgent":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"neutral":  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"}),
	}

	// Progress and outcome lines
	NoticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	ProcessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	FailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	PromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)

	// Editor
	EditorStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("99")).Padding(0, 1)
	CursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	// Status Bar
	StatusBarSuccessStyle = lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	StatusBarNormalStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")).Padding(0, 1)
	StatusBarErrorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("196")).Foreground(lipgloss.Color("255")).Padding(0, 1)
)

const (
	Separator = "─"
	Cursor    = "█"
)
