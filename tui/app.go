// Package tui is a read-only terminal browser for the reply journal.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/bassamadnan/inboxpilot/journal"
)

type App struct {
	*tview.Application
	rootPages   *tview.Pages
	entryList   *EntryListView
	previewPane *PreviewPane
	focusedView *FocusedEntryView
	statusBar   *tview.TextView
}

// NewApp builds the browser over entries, newest first.
func NewApp(entries []journal.Entry) *App {
	a := &App{Application: tview.NewApplication()}

	a.previewPane = NewPreviewPane()
	a.focusedView = NewFocusedEntryView()
	a.entryList = NewEntryListView(a, entries)

	dashboard := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.entryList.List, 0, 1, true).
		AddItem(a.previewPane, 0, 3, false)
	dashboard.SetBackgroundColor(tcell.ColorDefault)

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText(statusText(len(entries))).
		SetTextAlign(tview.AlignLeft)
	a.statusBar.SetBackgroundColor(tcell.ColorDefault)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(dashboard, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)
	layout.SetBackgroundColor(tcell.ColorDefault)

	a.rootPages = tview.NewPages().
		AddPage(PageDashboard, layout, true, true).
		AddPage(PageFocused, a.focusedView, true, false)

	a.Application.SetRoot(a.rootPages, true).EnableMouse(true)
	a.Application.SetInputCapture(a.handleKey)

	if len(entries) > 0 {
		a.UpdatePreviewPane(entries[0])
	} else {
		a.previewPane.SetWelcomeMessage()
	}
	a.Application.SetFocus(a.entryList.List)
	return a
}

func statusText(count int) string {
	return fmt.Sprintf(" [::d]%d entries | [::b]Q/Ctrl+C[::-]:Quit [::b]Ent[::-]:Full [::b]Esc[::-]:Back", count)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' || event.Rune() == 'Q' {
		a.Stop()
		return nil
	}
	if page, _ := a.rootPages.GetFrontPage(); page == PageFocused && event.Key() == tcell.KeyEscape {
		a.ShowDashboardView()
		return nil
	}
	return event
}

func (a *App) UpdatePreviewPane(e journal.Entry) {
	a.previewPane.SetEntry(e)
}

func (a *App) ShowFocusedView(e journal.Entry) {
	a.focusedView.SetEntry(e)
	a.rootPages.SwitchToPage(PageFocused)
	a.Application.SetFocus(a.focusedView.textView)
}

func (a *App) ShowDashboardView() {
	a.rootPages.SwitchToPage(PageDashboard)
	a.Application.SetFocus(a.entryList.List)
}
