package console

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bassamadnan/inboxpilot/pipeline"
)

type viewState int

const (
	viewChoosing viewState = iota
	viewEditing
	viewDone
)

// decisionModel is a single-key picker with an inline editor for one draft.
type decisionModel struct {
	review pipeline.Review

	currentView viewState
	editor      []rune

	decision pipeline.Decision
	quit     bool

	width         int
	statusBarText string
	statusIsError bool
	statusIsTemp  bool
}

func newDecisionModel(review pipeline.Review) decisionModel {
	m := decisionModel{review: review, currentView: viewChoosing}
	m.setStandardStatus()
	return m
}

func (m decisionModel) Init() tea.Cmd {
	return nil
}

func (m decisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case clearTempStatusMsg:
		if m.statusIsTemp {
			m.statusIsTemp = false
			m.setStandardStatus()
		}

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quit = true
			m.currentView = viewDone
			return m, tea.Quit
		}
		switch m.currentView {
		case viewChoosing:
			return m.updateChoosing(msg)
		case viewEditing:
			return m.updateEditing(msg)
		}
	}
	return m, nil
}

func (m decisionModel) updateChoosing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		return m.finish(pipeline.Decision{Action: pipeline.Send})
	case "n":
		return m.finish(pipeline.Decision{Action: pipeline.Discard})
	case "s":
		return m.finish(pipeline.Decision{Action: pipeline.Skip})
	case "e":
		m.currentView = viewEditing
		m.editor = nil
		m.setStandardStatus()
		return m, nil
	default:
		return m, m.showTemporaryStatus(choiceHelp, 3*time.Second)
	}
}

func (m decisionModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlD:
		return m.finish(pipeline.Decision{Action: pipeline.Edit, Text: string(m.editor)})
	case tea.KeyEsc:
		m.currentView = viewChoosing
		m.editor = nil
		m.setStandardStatus()
	case tea.KeyEnter:
		m.editor = append(m.editor, '\n')
	case tea.KeyBackspace:
		if len(m.editor) > 0 {
			m.editor = m.editor[:len(m.editor)-1]
		}
	case tea.KeySpace:
		m.editor = append(m.editor, ' ')
	case tea.KeyTab:
		m.editor = append(m.editor, '\t')
	case tea.KeyRunes:
		m.editor = append(m.editor, msg.Runes...)
	}
	return m, nil
}

func (m decisionModel) finish(d pipeline.Decision) (tea.Model, tea.Cmd) {
	m.decision = d
	m.currentView = viewDone
	m.updateStatusBar("Decision: " + d.Action.String())
	return m, tea.Quit
}

func (m *decisionModel) showTemporaryStatus(text string, duration time.Duration) tea.Cmd {
	m.statusBarText = text
	m.statusIsError = true
	m.statusIsTemp = true
	return clearStatusCmd(duration)
}

func (m *decisionModel) updateStatusBar(text string) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = false
}

func (m *decisionModel) setStandardStatus() {
	if m.statusIsTemp {
		return
	}
	switch m.currentView {
	case viewChoosing:
		m.updateStatusBar("[y]:Send | [n]:Discard | [e]:Edit | [s]:Skip | [Ctrl+C]:Quit")
	case viewEditing:
		m.updateStatusBar("[Ctrl+D]:Done | [Esc]:Cancel edit | [Ctrl+C]:Quit")
	}
}

func (m decisionModel) View() string {
	var b strings.Builder
	b.WriteString(renderReview(m.review, m.width))

	switch m.currentView {
	case viewChoosing:
		b.WriteString("\n" + PromptStyle.Render(choicePrompt) + "\n")
	case viewEditing:
		b.WriteString("\n" + PromptStyle.Render("New reply:") + "\n")
		editor := EditorStyle
		if m.width > 0 {
			editor = editor.Width(m.width - EditorStyle.GetHorizontalBorderSize())
		}
		b.WriteString(editor.Render(string(m.editor)+CursorStyle.Render(Cursor)) + "\n")
	case viewDone:
		if m.quit {
			return b.String() + WarnStyle.Render("Stopping...") + "\n"
		}
	}

	b.WriteString(m.renderStatusBar())
	return b.String() + "\n"
}

func (m decisionModel) renderStatusBar() string {
	styleToUse := StatusBarNormalStyle
	if m.statusIsError {
		styleToUse = StatusBarErrorStyle
	} else if m.currentView == viewDone {
		styleToUse = StatusBarSuccessStyle
	}
	if m.width > 0 {
		return styleToUse.Width(m.width).Render(truncate(m.statusBarText, m.width-styleToUse.GetHorizontalPadding()))
	}
	return styleToUse.Render(m.statusBarText)
}
