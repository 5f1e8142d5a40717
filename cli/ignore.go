package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bassamadnan/inboxpilot/config"
)

func newIgnoreCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ignore",
		Short: "Add operator ignore rules",
	}
	cmd.AddCommand(
		newIgnoreRuleCmd(opts, "sender", "Never answer mail whose sender contains TEXT",
			(*config.FilterManager).AddIgnoreSender),
		newIgnoreRuleCmd(opts, "subject", "Never answer mail whose subject contains TEXT",
			(*config.FilterManager).AddIgnoreKeywordInSubject),
	)
	return cmd
}

func newIgnoreRuleCmd(opts *rootOptions, use, short string, add func(*config.FilterManager, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TEXT",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, opts.envPath)
			if err != nil {
				return err
			}
			fm, err := config.NewFilterManager(cfg.FiltersFile)
			if err != nil {
				return fmt.Errorf("failed to load filters: %w", err)
			}
			if err := add(fm, args[0]); err != nil {
				return fmt.Errorf("failed to save filters: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ignoring %s containing %q\n", use, args[0])
			return nil
		},
	}
}
