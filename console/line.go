package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bassamadnan/inboxpilot/pipeline"
)

// ErrInputClosed is returned when the operator's input reaches end of file
// at the confirmation prompt.
var ErrInputClosed = errors.New("operator input closed")

const (
	choicePrompt = "Send this response? (y/n/e/s): "
	choiceHelp   = "Please enter 'y' (yes), 'n' (no), 'e' (edit), or 's' (skip)"
	editHelp     = "Enter your custom response (Ctrl+D or a line with a single '.' when done):"
	editEnd      = "."
)

// Line asks for decisions one line at a time. It works with any reader,
// including pipes.
type Line struct {
	printer
	in *bufio.Reader
}

// NewLine creates a line prompter reading from in and writing to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{printer: printer{out: out}, in: bufio.NewReader(in)}
}

// Decide shows the review and reads y, n, e or s. Anything else reprompts.
func (l *Line) Decide(_ context.Context, review pipeline.Review) (pipeline.Decision, error) {
	fmt.Fprint(l.out, "\n"+renderReview(review, 0))

	for {
		fmt.Fprint(l.out, "\n"+PromptStyle.Render(choicePrompt))
		answer, err := l.readLine()
		if err != nil {
			fmt.Fprintln(l.out)
			return pipeline.Decision{}, fmt.Errorf("%w: %w", pipeline.ErrOperatorStopped, ErrInputClosed)
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y":
			return pipeline.Decision{Action: pipeline.Send}, nil
		case "n":
			return pipeline.Decision{Action: pipeline.Discard}, nil
		case "s":
			return pipeline.Decision{Action: pipeline.Skip}, nil
		case "e":
			return pipeline.Decision{Action: pipeline.Edit, Text: l.readEdit()}, nil
		default:
			fmt.Fprintln(l.out, choiceHelp)
		}
	}
}

// readLine returns one line without its terminator. A final line without a
// newline is returned before io.EOF.
func (l *Line) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readEdit collects lines until end of input or a lone ".".
func (l *Line) readEdit() string {
	fmt.Fprintln(l.out, editHelp)
	var lines []string
	for {
		line, err := l.readLine()
		if err != nil || line == editEnd {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
