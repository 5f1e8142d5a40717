package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bassamadnan/inboxpilot/config"
	"github.com/bassamadnan/inboxpilot/console"
	"github.com/bassamadnan/inboxpilot/gmail"
	"github.com/bassamadnan/inboxpilot/imapmail"
	"github.com/bassamadnan/inboxpilot/journal"
	"github.com/bassamadnan/inboxpilot/llm"
	"github.com/bassamadnan/inboxpilot/mailbox"
	"github.com/bassamadnan/inboxpilot/pipeline"
	"github.com/bassamadnan/inboxpilot/responder"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the mailbox and answer unread mail interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, opts, once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "process a single batch and exit")
	return cmd
}

func runPipeline(cmd *cobra.Command, opts *rootOptions, once bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()
	logger.WithFields(logrus.Fields(cfg.Safe())).Info("Application starting")

	ctx, stop := withShutdown(cmd.Context(), logger)
	defer stop()

	filters, err := config.NewFilterManager(cfg.FiltersFile)
	if err != nil {
		return fmt.Errorf("failed to load filters: %w", err)
	}

	provider, err := newProvider(ctx, cfg, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if c, ok := provider.(io.Closer); ok {
		defer c.Close()
	}

	operator := console.New(cfg.ConsoleMode, os.Stdin, cmd.OutOrStdout())
	drafter := responder.New(llm.NewClient(cfg.Generator, logger), responder.OptionsFrom(cfg), logger)
	filter := responder.NewFilter(cfg.Mailbox.Address, filters)

	pl := pipeline.New(provider, filter, drafter, operator, logger)
	poller := pipeline.NewPoller(provider, pl, cfg.CheckInterval(), cfg.Poll.MaxEmails, logger)

	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		poller.SetRecorder(store)
	}

	if once {
		_, err = poller.Cycle(ctx)
		if errors.Is(err, pipeline.ErrOperatorStopped) {
			err = nil
		}
	} else {
		err = poller.Run(ctx)
	}
	logger.Info("Application stopped")
	return err
}

func newProvider(ctx context.Context, cfg config.Config, out io.Writer, logger *logrus.Logger) (mailbox.Provider, error) {
	switch cfg.Mailbox.Provider {
	case config.ProviderIMAP:
		return imapmail.NewProvider(cfg.IMAP, cfg.Mailbox.Address, logger), nil
	default:
		auth := gmail.Authenticator{
			CredentialsFile: cfg.Gmail.CredentialsFile,
			TokenFile:       cfg.Gmail.TokenFile,
			In:              os.Stdin,
			Out:             out,
		}
		p, err := gmail.NewProvider(ctx, auth, cfg.Mailbox.Address, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gmail client: %w", err)
		}
		return p, nil
	}
}
