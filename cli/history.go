package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bassamadnan/inboxpilot/config"
	"github.com/bassamadnan/inboxpilot/journal"
	"github.com/bassamadnan/inboxpilot/tui"
)

const subjectWidth = 40

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		browse bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent message dispositions from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, opts.envPath)
			if err != nil {
				return err
			}
			if cfg.JournalPath == "" {
				return errors.New("journal is disabled (JOURNAL_PATH is empty)")
			}

			store, err := journal.Open(cfg.JournalPath, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if browse {
				return tui.NewApp(entries).Run()
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No messages recorded yet.")
				return nil
			}
			fmt.Fprintln(out, historyTable(entries))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show")
	cmd.Flags().BoolVar(&browse, "browse", false, "open the entries in an interactive browser")
	return cmd
}

func historyTable(entries []journal.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "SENDER", "SUBJECT", "SENTIMENT", "DISPOSITION")
	for _, e := range entries {
		t.Row(
			e.RecordedAt.Local().Format("2006-01-02 15:04"),
			e.Sender,
			clip(e.Subject, subjectWidth),
			e.Sentiment,
			e.Disposition,
		)
	}
	return t.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
