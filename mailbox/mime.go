package mailbox

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
)

// BuildReply renders reply as an RFC 5322 text/plain message sent from "from".
func BuildReply(from string, reply Reply) ([]byte, error) {
	if strings.TrimSpace(reply.To) == "" {
		return nil, errors.New("building reply MIME: no recipient")
	}
	builder := enmime.Builder().
		From("", from).
		To("", reply.To).
		Subject(ReplySubject(reply.Subject)).
		Date(time.Now()).
		Text([]byte(reply.Body))

	if ref := normalizeMessageID(reply.MessageID); ref != "" {
		builder = builder.Header("In-Reply-To", ref).Header("References", ref)
	}

	part, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building reply MIME: %w", err)
	}
	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encoding reply MIME: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizeMessageID(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">") {
		return value
	}
	return "<" + strings.Trim(value, "<>") + ">"
}
