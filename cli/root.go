package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bassamadnan/inboxpilot/config"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

type rootOptions struct {
	configPath string
	envPath    string
}

// NewRootCmd builds the inboxpilot command tree. Without a subcommand it
// behaves like "run".
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "inboxpilot",
		Short: "Interactive AI auto-reply assistant for a single mailbox",
		Long: `inboxpilot polls a mailbox for unread mail, drafts a reply with a language
model and asks you to send, edit, discard or skip each one.

Examples:
  inboxpilot                       # poll until interrupted
  inboxpilot run --once            # process one batch and exit
  inboxpilot check                 # validate configuration
  inboxpilot history --limit 50    # show recent dispositions
  inboxpilot history --browse      # browse the journal interactively
  inboxpilot ignore sender news@x.com`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, false)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigFile, "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.envPath, "env-file", config.DefaultEnvFile, "dotenv file loaded before the environment")

	root.AddCommand(
		newRunCmd(opts),
		newCheckCmd(opts),
		newHistoryCmd(opts),
		newIgnoreCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads and validates the configuration.
func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.envPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inboxpilot %s\n", Version)
		},
	}
}
