package imapmail

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/bassamadnan/inboxpilot/mailbox"
)

// parseRaw reads an RFC 5322 message into a mailbox.Message with the given
// provider id.
func parseRaw(id string, raw []byte) (mailbox.Message, error) {
	msg := mailbox.Message{ID: id}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return msg, fmt.Errorf("parsing message %s: %w", id, err)
	}
	defer mr.Close()

	msg.Sender = headerText(mr.Header, "From")
	msg.Subject = headerText(mr.Header, "Subject")
	msg.Date = mr.Header.Get("Date")
	msg.MessageID = strings.TrimSpace(mr.Header.Get("Message-Id"))

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep the headers; a broken part only costs the body.
			break
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		if ct != "" && !strings.EqualFold(ct, "text/plain") {
			continue
		}
		b, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		msg.Body = string(b)
		break
	}
	return msg, nil
}

// headerText decodes RFC 2047 words, falling back to the raw value.
func headerText(h mail.Header, key string) string {
	if v, err := h.Text(key); err == nil {
		return v
	}
	return h.Get(key)
}
