package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bassamadnan/inboxpilot/console"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print it without secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			safe := cfg.Safe()
			keys := make([]string, 0, len(safe))
			for k := range safe {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			out := cmd.OutOrStdout()
			for _, k := range keys {
				fmt.Fprintf(out, "%-16s %v\n", k+":", safe[k])
			}
			fmt.Fprintln(out, console.SuccessStyle.Render("Configuration OK"))
			return nil
		},
	}
}
