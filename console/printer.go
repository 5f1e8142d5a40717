package console

import (
	"fmt"
	"io"
	"time"

	"github.com/bassamadnan/inboxpilot/mailbox"
	"github.com/bassamadnan/inboxpilot/pipeline"
)

// printer writes the non-interactive lines shared by every console mode.
type printer struct {
	out io.Writer
}

func (p printer) Announce(msg mailbox.Message) {
	subject := msg.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	fmt.Fprintf(p.out, "\n%s\nFrom: %s\nSubject: %s\n", ProcessStyle.Render("Processing email:"), msg.Sender, subject)
}

func (p printer) Outcome(res pipeline.Result) {
	fmt.Fprintln(p.out, outcomeLine(res))
}

func (p printer) CycleStarted(found int) {
	fmt.Fprintf(p.out, "\n%s\n", NoticeStyle.Render(fmt.Sprintf("Found %d unread email(s)", found)))
}

func (p printer) Waiting(d time.Duration) {
	fmt.Fprintf(p.out, "\n%s\n", NoticeStyle.Render(fmt.Sprintf("Waiting %d seconds until next check...", int(d.Seconds()))))
}
