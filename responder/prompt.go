package responder

import (
	"fmt"
	"strings"

	"github.com/bassamadnan/inboxpilot/mailbox"
)

func replyPrompt(msg mailbox.Message, opts Options) string {
	sender := msg.Sender
	if sender == "" {
		sender = "Unknown"
	}
	subject := msg.Subject
	if subject == "" {
		subject = "No Subject"
	}

	var b strings.Builder
	b.WriteString("You are a professional email assistant. Write a friendly, professional reply to the email below.\n\n")
	b.WriteString("INCOMING EMAIL:\n")
	fmt.Fprintf(&b, "From: %s\n", sender)
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Body: %s\n\n", msg.Body)
	b.WriteString("REPLY RULES:\n")
	fmt.Fprintf(&b, "1. Reply in %s\n", opts.Language)
	b.WriteString("2. Use a friendly and professional tone\n")
	b.WriteString("3. Respond to the content of the email\n")
	fmt.Fprintf(&b, "4. Keep it short and to the point (at most %d words)\n", opts.MaxWords)
	b.WriteString("5. Ask questions or request more information if needed\n")
	b.WriteString("6. Do not add a signature, write only the email body\n")
	b.WriteString("7. If the email contains a question, answer it as far as possible\n")
	b.WriteString("8. If the email contains a request, say how you can help\n\n")
	b.WriteString("REPLY:\n")
	return b.String()
}

func sentimentPrompt(msg mailbox.Message) string {
	return "Analyze the emotional tone of the email below and answer with a single word:\n" +
		"- positive\n- negative\n- neutral\n- urgent\n\n" +
		"Email body: " + msg.Body + "\n\n" +
		"Answer (one word only):\n"
}
