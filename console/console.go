package console

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bassamadnan/inboxpilot/config"
	"github.com/bassamadnan/inboxpilot/pipeline"
)

// Operator is a pipeline.Operator that also reports polling progress.
type Operator interface {
	pipeline.Operator
	pipeline.CycleObserver
}

// New picks the console for mode. Keys needs a terminal on in, so every
// mode other than line uses Keys only when in is one, and Line otherwise.
func New(mode string, in *os.File, out io.Writer) Operator {
	if mode != config.ConsoleLine && term.IsTerminal(int(in.Fd())) {
		return NewKeys(in, out)
	}
	return NewLine(in, out)
}
