package console

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nalgeon/be"

	"github.com/bassamadnan/inboxpilot/pipeline"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m decisionModel, msgs ...tea.Msg) (decisionModel, tea.Cmd) {
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.Update(msg)
	}
	return next.(decisionModel), cmd
}

func TestPickerKeys(t *testing.T) {
	tests := []struct {
		key  string
		want pipeline.Action
	}{
		{"y", pipeline.Send},
		{"N", pipeline.Discard},
		{"s", pipeline.Skip},
	}
	for _, tt := range tests {
		m, cmd := press(newDecisionModel(review()), runes(tt.key))
		be.Equal(t, m.decision.Action, tt.want)
		be.Equal(t, m.currentView, viewDone)
		be.True(t, cmd != nil)
		be.True(t, !m.quit)
	}
}

func TestPickerUnknownKey(t *testing.T) {
	m, cmd := press(newDecisionModel(review()), runes("x"))
	be.Equal(t, m.currentView, viewChoosing)
	be.True(t, m.statusIsTemp)
	be.Equal(t, m.statusBarText, choiceHelp)
	be.True(t, cmd != nil)

	m, _ = press(m, clearTempStatusMsg{})
	be.True(t, !m.statusIsTemp)
	be.True(t, strings.Contains(m.statusBarText, "[y]:Send"))
}

func TestEditorFlow(t *testing.T) {
	m, _ := press(newDecisionModel(review()),
		runes("e"),
		runes("Hi"),
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		runes("Bob"),
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("Thanks!x"),
		tea.KeyMsg{Type: tea.KeyBackspace},
	)
	be.Equal(t, m.currentView, viewEditing)
	be.True(t, strings.Contains(m.View(), "New reply:"))

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	be.Equal(t, m.decision, pipeline.Decision{Action: pipeline.Edit, Text: "Hi Bob\nThanks!"})
	be.Equal(t, m.currentView, viewDone)
	be.True(t, cmd != nil)
}

func TestEditorEscReturnsToPicker(t *testing.T) {
	m, _ := press(newDecisionModel(review()), runes("e"), runes("draft"), tea.KeyMsg{Type: tea.KeyEsc})
	be.Equal(t, m.currentView, viewChoosing)
	be.Equal(t, len(m.editor), 0)

	m, _ = press(m, runes("y"))
	be.Equal(t, m.decision.Action, pipeline.Send)
}

func TestCtrlCQuits(t *testing.T) {
	m, cmd := press(newDecisionModel(review()), tea.KeyMsg{Type: tea.KeyCtrlC})
	be.True(t, m.quit)
	be.True(t, cmd != nil)
	be.True(t, strings.Contains(m.View(), "Stopping..."))

	m, _ = press(newDecisionModel(review()), runes("e"), tea.KeyMsg{Type: tea.KeyCtrlC})
	be.True(t, m.quit)
}

func TestViewShowsReview(t *testing.T) {
	m, _ := press(newDecisionModel(review()), tea.WindowSizeMsg{Width: 80, Height: 24})
	v := m.View()
	be.True(t, strings.Contains(v, "Generated Response"))
	be.True(t, strings.Contains(v, "Sure, click the reset link."))
	be.True(t, strings.Contains(v, "Send this response?"))
}
