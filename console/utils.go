package console

import (
	"fmt"
	"strings"

	"github.com/bassamadnan/inboxpilot/pipeline"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// senderName drops the bracketed address from a From header.
func senderName(from string) string {
	name := from
	if idx := strings.Index(name, "<"); idx > 0 {
		name = strings.Trim(strings.TrimSpace(name[:idx]), `"`)
	}
	if name == "" {
		return "(Unknown Sender)"
	}
	return name
}

func header(key, val string) string {
	return fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render(key), HeaderValStyle.Render(val))
}

// renderReview draws the message headers and the current draft. width <= 0
// leaves lines unwrapped.
func renderReview(review pipeline.Review, width int) string {
	title := "Generated Response"
	if review.Edited {
		title = "Edited Response"
	}

	subject := review.Message.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	sentiment := string(review.Sentiment)
	if style, ok := SentimentStyles[sentiment]; ok {
		sentiment = style.Render(sentiment)
	}

	var b strings.Builder
	b.WriteString(header("From:", review.Message.Sender))
	b.WriteString(header("Subject:", subject))
	b.WriteString(header("Sentiment:", sentiment))

	sepWidth := 50
	if width > 0 && width/2 < sepWidth {
		sepWidth = width / 2
	}
	b.WriteString(strings.Repeat(Separator, sepWidth))
	b.WriteString(BodyStyle.Render(strings.ReplaceAll(review.Draft, "\r\n", "\n")))

	box := ContentBoxStyle
	if width > 0 {
		box = box.Width(width - ContentBoxStyle.GetHorizontalBorderSize())
	}
	return TitleStyle.Render(title) + "\n" + box.Render(b.String()) + "\n"
}

// outcomeLine describes how a message ended.
func outcomeLine(res pipeline.Result) string {
	var line string
	switch res.State {
	case pipeline.MarkedReadSkipped:
		switch {
		case res.Rejection != "":
			line = FailureStyle.Render(fmt.Sprintf("Skipping automated/invalid email (%s)", res.Rejection))
		case res.Draft == "":
			line = FailureStyle.Render("Failed to generate response")
		default:
			line = FailureStyle.Render("Response not sent")
		}
	case pipeline.MarkedReadSent:
		line = SuccessStyle.Render("Response sent successfully!")
	case pipeline.SkippedUnread:
		line = WarnStyle.Render("Email skipped")
	case pipeline.Failed:
		line = FailureStyle.Render("Failed to send response")
	case pipeline.Undeliverable:
		line = FailureStyle.Render("Could not extract sender email address")
	default:
		line = res.State.String()
	}
	if res.State.MarksRead() && !res.MarkedRead {
		line += "\n" + WarnStyle.Render("Could not mark the email as read; it will come back next check")
	}
	return line
}
