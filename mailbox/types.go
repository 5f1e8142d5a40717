package mailbox

// Message is one mailbox item as read from a Provider. Every field other than ID
// is the empty string when the provider has nothing for it.
type Message struct {
	ID        string // Provider id, stable for the message's lifetime
	ThreadID  string
	MessageID string // RFC 5322 Message-ID header, used for reply threading
	Sender    string // Raw From header, may carry a display name
	Subject   string
	Date      string // Raw Date header, informational only
	Body      string // Decoded text/plain body
}

// Reply is an outbound answer to a Message.
type Reply struct {
	To        string
	Subject   string // Subject of the original message; providers apply ReplySubject
	Body      string
	InReplyTo string // Provider id of the original message
	MessageID string // Original Message-ID header, may be empty
	ThreadID  string
}

// ReplyTo builds the Reply envelope for msg addressed to "to".
func ReplyTo(msg Message, to, body string) Reply {
	return Reply{
		To:        to,
		Subject:   msg.Subject,
		Body:      body,
		InReplyTo: msg.ID,
		MessageID: msg.MessageID,
		ThreadID:  msg.ThreadID,
	}
}
