package imapmail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/sirupsen/logrus"

	"github.com/bassamadnan/inboxpilot/config"
	"github.com/bassamadnan/inboxpilot/mailbox"
)

const (
	inbox       = "INBOX"
	smtpTimeout = 30 * time.Second
)

// Provider is a mailbox.Provider over IMAP for reading and SMTP for sending,
// authenticated with an app password. Message ids are INBOX UIDs.
type Provider struct {
	cfg     config.IMAPConfig
	address string
	logger  *logrus.Logger

	// dial opens an unauthenticated IMAP connection.
	dial func() (*client.Client, error)

	mu   sync.Mutex
	imap *client.Client
}

// NewProvider creates a Provider. The IMAP connection is opened on first use.
func NewProvider(cfg config.IMAPConfig, address string, logger *logrus.Logger) *Provider {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	p := &Provider{cfg: cfg, address: address, logger: logger}
	p.dial = func() (*client.Client, error) {
		return client.DialTLS(cfg.IMAPAddress, &tls.Config{
			ServerName: serverName(cfg.IMAPAddress),
			MinVersion: tls.VersionTLS12,
		})
	}
	return p
}

func serverName(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// connect returns a logged-in client with INBOX selected. Callers hold mu.
func (p *Provider) connect() (*client.Client, error) {
	if p.imap != nil {
		return p.imap, nil
	}

	c, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	if err := c.Login(p.address, p.cfg.AppPassword); err != nil {
		c.Logout() //nolint:errcheck
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}
	if _, err := c.Select(inbox, false); err != nil {
		c.Logout() //nolint:errcheck
		return nil, fmt.Errorf("failed to select %s: %w", inbox, err)
	}

	p.imap = c
	p.logger.WithField("server", p.cfg.IMAPAddress).Info("Connected to IMAP server")
	return c, nil
}

// drop forgets a connection after a failed command so the next call
// reconnects. Callers hold mu.
func (p *Provider) drop() {
	if p.imap != nil {
		p.imap.Logout() //nolint:errcheck
		p.imap = nil
	}
}

// ListUnread returns up to max unseen UIDs, newest first.
func (p *Provider) ListUnread(ctx context.Context, max int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.connect()
	if err != nil {
		return nil, err
	}
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := c.UidSearch(criteria)
	if err != nil {
		p.drop()
		return nil, fmt.Errorf("failed to search unread emails: %w", err)
	}
	return newestFirst(uids, max), nil
}

func newestFirst(uids []uint32, max int) []string {
	sorted := append([]uint32(nil), uids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	if max > 0 && len(sorted) > max {
		sorted = sorted[:max]
	}
	ids := make([]string, len(sorted))
	for i, uid := range sorted {
		ids[i] = strconv.FormatUint(uint64(uid), 10)
	}
	return ids
}

func parseUID(id string) (uint32, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil || uid == 0 {
		return 0, fmt.Errorf("invalid message id %q", id)
	}
	return uint32(uid), nil
}

// FetchDetail downloads one message without setting \Seen.
func (p *Provider) FetchDetail(ctx context.Context, id string) (*mailbox.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	uid, err := parseUID(id)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.connect()
	if err != nil {
		return nil, err
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqSet, items, messages)
	}()

	var raw []byte
	for m := range messages {
		if literal := m.GetBody(section); literal != nil && raw == nil {
			if raw, err = io.ReadAll(literal); err != nil {
				raw = nil
			}
		}
	}
	if err := <-done; err != nil {
		p.drop()
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("message %s not found", id)
	}

	msg, err := parseRaw(id, raw)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead sets \Seen on the message.
func (p *Provider) MarkRead(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	uid, err := parseUID(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.connect()
	if err != nil {
		return err
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)
	storeItem := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.UidStore(seqSet, storeItem, []interface{}{imap.SeenFlag}, nil); err != nil {
		p.drop()
		return fmt.Errorf("failed to mark %s as read: %w", id, err)
	}
	return nil
}

// Send delivers reply over SMTP with implicit TLS.
func (p *Provider) Send(ctx context.Context, reply mailbox.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := mailbox.BuildReply(p.address, reply)
	if err != nil {
		return err
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: smtpTimeout},
		Config: &tls.Config{
			ServerName: serverName(p.cfg.SMTPAddress),
			MinVersion: tls.VersionTLS12,
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", p.cfg.SMTPAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	deadline := time.Now().Add(smtpTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set SMTP deadline: %w", err)
	}
	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", p.address, p.cfg.AppPassword)); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := deliver(c, p.address, reply.To, raw); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"to":          reply.To,
		"in_reply_to": reply.InReplyTo,
	}).Info("Email sent")
	return nil
}

func deliver(c *smtp.Client, from, to string, raw []byte) error {
	if err := c.Mail(from, nil); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to send data command: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close() //nolint:errcheck
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	if err := c.Quit(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to quit: %w", err)
	}
	return nil
}

// Close logs out of the IMAP server.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.imap == nil {
		return nil
	}
	err := p.imap.Logout()
	p.imap = nil
	return err
}
