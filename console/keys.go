package console

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bassamadnan/inboxpilot/pipeline"
)

// Keys asks for decisions with single key presses and edits drafts inline.
// It needs a terminal on in.
type Keys struct {
	printer
	in io.Reader
}

// NewKeys creates a key prompter reading from in and drawing on out.
func NewKeys(in io.Reader, out io.Writer) *Keys {
	return &Keys{printer: printer{out: out}, in: in}
}

// Decide runs one picker program for review. Ctrl+C stops the session, as
// does a program that cannot run on in.
func (k *Keys) Decide(_ context.Context, review pipeline.Review) (pipeline.Decision, error) {
	p := tea.NewProgram(newDecisionModel(review),
		tea.WithInput(k.in),
		tea.WithOutput(k.out),
	)
	final, err := p.Run()
	if err != nil {
		return pipeline.Decision{}, fmt.Errorf("%w: running decision prompt: %w", pipeline.ErrOperatorStopped, err)
	}
	m, ok := final.(decisionModel)
	if !ok || m.quit {
		return pipeline.Decision{}, pipeline.ErrOperatorStopped
	}
	return m.decision, nil
}
