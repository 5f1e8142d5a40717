package gmail

import (
	"encoding/base64"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/bassamadnan/inboxpilot/mailbox"
)

// parseMessage maps a full-format Gmail message. Missing headers stay empty.
func parseMessage(msg *gmail.Message) mailbox.Message {
	email := mailbox.Message{ID: msg.Id, ThreadID: msg.ThreadId}
	if msg.Payload == nil {
		return email
	}
	for _, header := range msg.Payload.Headers {
		switch {
		case strings.EqualFold(header.Name, "Subject"):
			email.Subject = header.Value
		case strings.EqualFold(header.Name, "From"):
			email.Sender = header.Value
		case strings.EqualFold(header.Name, "Date"):
			email.Date = header.Value
		case strings.EqualFold(header.Name, "Message-ID"):
			email.MessageID = header.Value
		}
	}
	email.Body = getPlainTextBody(msg.Payload)
	return email
}

// getPlainTextBody returns the first text/plain part, depth first.
func getPlainTextBody(payload *gmail.MessagePart) string {
	if strings.EqualFold(payload.MimeType, "text/plain") && payload.Body != nil && payload.Body.Data != "" {
		if data, ok := decodeBody(payload.Body.Data); ok {
			return data
		}
	}
	for _, part := range payload.Parts {
		mimeType := strings.ToLower(part.MimeType)
		if strings.HasPrefix(mimeType, "text/") || strings.HasPrefix(mimeType, "multipart/") {
			if body := getPlainTextBody(part); body != "" {
				return body
			}
		}
	}
	return ""
}

// decodeBody accepts padded and unpadded base64url.
func decodeBody(data string) (string, bool) {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b), true
	}
	if b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "=")); err == nil {
		return string(b), true
	}
	return "", false
}
