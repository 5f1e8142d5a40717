package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/bassamadnan/inboxpilot/journal"
)

const (
	PageDashboard = "dashboard"
	PageFocused   = "focusedEntry"
)

// dispositionColors are tview color tags per terminal disposition.
var dispositionColors = map[string]string{
	"MarkedReadSent":    "green",
	"MarkedReadSkipped": "gray",
	"SkippedUnread":     "yellow",
	"Undeliverable":     "orange",
	"Failed":            "red",
}

type EntryListView struct {
	*tview.List
	app     *App
	entries []journal.Entry
}

func NewEntryListView(app *App, entries []journal.Entry) *EntryListView {
	list := tview.NewList().
		ShowSecondaryText(true).
		SetSecondaryTextColor(tcell.ColorDimGray)
	list.SetBackgroundColor(tcell.ColorDefault)
	list.SetSelectedStyle(tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(tcell.ColorSteelBlue).
		Attributes(tcell.AttrBold))
	list.SetBorder(true).SetTitle("Journal")

	elv := &EntryListView{List: list, app: app, entries: entries}
	for _, e := range entries {
		main, secondary := listItemText(e, time.Now())
		list.AddItem(main, secondary, 0, nil)
	}

	list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		if index >= 0 && index < len(elv.entries) {
			elv.app.UpdatePreviewPane(elv.entries[index])
		}
	})
	list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if index >= 0 && index < len(elv.entries) {
			elv.app.ShowFocusedView(elv.entries[index])
		}
	})
	return elv
}

// listItemText renders the two list lines for e: subject, then sender,
// disposition and a short timestamp relative to now.
func listItemText(e journal.Entry, now time.Time) (string, string) {
	subject := truncate(e.Subject, 25)
	if subject == "" {
		subject = "(No Subject)"
	}

	when := "???"
	if !e.RecordedAt.IsZero() {
		local := e.RecordedAt.Local()
		if y, m, d := local.Date(); y == now.Year() && m == now.Month() && d == now.Day() {
			when = local.Format("15:04")
		} else {
			when = local.Format("Jan02")
		}
	}

	from := e.Sender
	if idx := strings.Index(from, "<"); idx > 0 {
		from = strings.TrimSpace(from[:idx])
	}
	from = truncate(from, 15)

	color, ok := dispositionColors[e.Disposition]
	if !ok {
		color = "white"
	}
	return fmt.Sprintf("[white]%s", tview.Escape(subject)),
		fmt.Sprintf("[::d]%s · %s · [%s]%s", tview.Escape(from), when, color, e.Disposition)
}

// detailText renders every recorded field of e.
func detailText(e journal.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]From:[::-] %s\n", tview.Escape(e.Sender))
	fmt.Fprintf(&b, "[::b]Subject:[::-] %s\n", tview.Escape(e.Subject))
	fmt.Fprintf(&b, "[::b]Recorded:[::-] %s\n", e.RecordedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(&b, "[::b]Disposition:[::-] %s\n", e.Disposition)
	if e.Sentiment != "" {
		fmt.Fprintf(&b, "[::b]Sentiment:[::-] %s\n", e.Sentiment)
	}
	fmt.Fprintf(&b, "[::b]Message:[::-] %s  [::b]Cycle:[::-] %s\n", e.MessageID, e.RunID)
	if e.Error != "" {
		fmt.Fprintf(&b, "[red::b]Error:[-::-] %s\n", tview.Escape(e.Error))
	}
	b.WriteString("\n" + strings.Repeat("─", 60) + "\n\n")
	if e.Draft == "" {
		b.WriteString("[::d](no draft)[::-]")
	} else {
		b.WriteString(tview.Escape(strings.ReplaceAll(e.Draft, "\r\n", "\n")))
	}
	return b.String()
}

type PreviewPane struct {
	*tview.TextView
}

func NewPreviewPane() *PreviewPane {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	tv.SetBackgroundColor(tcell.ColorDefault)
	tv.SetBorder(true).SetTitle("Preview")
	return &PreviewPane{TextView: tv}
}

func (pp *PreviewPane) SetEntry(e journal.Entry) {
	pp.SetText(detailText(e)).ScrollToBeginning()
	pp.SetTitle(fmt.Sprintf("Preview: %s", truncate(e.Subject, 40)))
}

func (pp *PreviewPane) SetWelcomeMessage() {
	pp.SetText("\n[lightblue::b]inboxpilot[-::-]\n\nThe journal is empty.\n\n[::d]Press Q or Ctrl+C to quit.[::-]").
		ScrollToBeginning()
	pp.SetTitle("Home")
}

type FocusedEntryView struct {
	*tview.Frame
	textView *tview.TextView
}

func NewFocusedEntryView() *FocusedEntryView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	textView.SetBackgroundColor(tcell.ColorDefault)

	frame := tview.NewFrame(textView)
	frame.SetBorder(true).SetBackgroundColor(tcell.ColorDefault)
	return &FocusedEntryView{Frame: frame, textView: textView}
}

func (fv *FocusedEntryView) SetEntry(e journal.Entry) {
	fv.textView.SetText(detailText(e)).ScrollToBeginning()
	fv.Frame.Clear().
		AddText(fmt.Sprintf("Subject: %s", truncate(e.Subject, 60)), true, tview.AlignCenter, tcell.ColorYellow).
		AddText("Press Esc to go back", false, tview.AlignCenter, tcell.ColorDimGray)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
