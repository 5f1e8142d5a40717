package imapmail

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-imap/server"
	"github.com/nalgeon/be"

	"github.com/bassamadnan/inboxpilot/config"
	"github.com/bassamadnan/inboxpilot/mailbox"
)

// startIMAP serves the in-memory backend, whose INBOX holds one seen message
// with UID 6, and appends plainMessage as unseen UID 7.
func startIMAP(t *testing.T) string {
	t.Helper()
	srv := server.New(memory.New())
	srv.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "127.0.0.1:0")
	be.Err(t, err, nil)
	go srv.Serve(l) //nolint:errcheck
	t.Cleanup(func() { srv.Close() })

	c, err := client.Dial(l.Addr().String())
	be.Err(t, err, nil)
	defer c.Logout() //nolint:errcheck
	be.Err(t, c.Login("username", "password"), nil)
	be.Err(t, c.Append(inbox, nil, time.Now(), bytes.NewBufferString(plainMessage)), nil)
	return l.Addr().String()
}

func newPlainProvider(addr string, dials *int) *Provider {
	p := NewProvider(config.IMAPConfig{IMAPAddress: addr, AppPassword: "password"}, "username", nil)
	p.dial = func() (*client.Client, error) {
		*dials++
		return client.Dial(addr)
	}
	return p
}

func TestReadAndMarkRead(t *testing.T) {
	ctx := context.Background()
	dials := 0
	p := newPlainProvider(startIMAP(t), &dials)
	defer p.Close()

	ids, err := p.ListUnread(ctx, 5)
	be.Err(t, err, nil)
	be.Equal(t, ids, []string{"7"})

	msg, err := p.FetchDetail(ctx, "7")
	be.Err(t, err, nil)
	be.Equal(t, msg.ID, "7")
	be.Equal(t, msg.Sender, "Bob Smith <bob@x.com>")
	be.Equal(t, msg.Subject, "Question")
	be.Equal(t, msg.MessageID, "<abc@x.com>")
	be.True(t, strings.Contains(msg.Body, "reset my password"))

	ids, err = p.ListUnread(ctx, 5)
	be.Err(t, err, nil)
	be.Equal(t, ids, []string{"7"})

	be.Err(t, p.MarkRead(ctx, "7"), nil)
	ids, err = p.ListUnread(ctx, 5)
	be.Err(t, err, nil)
	be.Equal(t, len(ids), 0)
	be.Equal(t, dials, 1)
}

func TestFetchMissingUID(t *testing.T) {
	dials := 0
	p := newPlainProvider(startIMAP(t), &dials)
	defer p.Close()

	_, err := p.FetchDetail(context.Background(), "99")
	be.Err(t, err, "not found")
}

func TestReconnectAfterBrokenConnection(t *testing.T) {
	ctx := context.Background()
	dials := 0
	p := newPlainProvider(startIMAP(t), &dials)
	defer p.Close()

	_, err := p.ListUnread(ctx, 5)
	be.Err(t, err, nil)
	be.Err(t, p.imap.Terminate(), nil)

	_, err = p.ListUnread(ctx, 5)
	be.Err(t, err)
	be.True(t, p.imap == nil)

	ids, err := p.ListUnread(ctx, 5)
	be.Err(t, err, nil)
	be.Equal(t, ids, []string{"7"})
	be.Equal(t, dials, 2)
}

func TestLoginFailure(t *testing.T) {
	addr := startIMAP(t)
	dials := 0
	p := newPlainProvider(addr, &dials)
	p.cfg.AppPassword = "wrong"

	_, err := p.ListUnread(context.Background(), 5)
	be.Err(t, err, "failed to login")
	be.True(t, p.imap == nil)
}

func TestSendHonorsContextDeadline(t *testing.T) {
	// Accepts TCP but never answers the TLS handshake.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	be.Err(t, err, nil)
	t.Cleanup(func() { l.Close() })

	p := NewProvider(config.IMAPConfig{SMTPAddress: l.Addr().String()}, "me@example.com", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = p.Send(ctx, mailbox.Reply{To: "bob@x.com", Subject: "Question", Body: "Sure!"})
	be.Err(t, err, "failed to connect to SMTP server")
	be.True(t, time.Since(start) < 5*time.Second)
}
