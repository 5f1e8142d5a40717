package responder

import (
	"strings"
	"unicode/utf8"

	"github.com/bassamadnan/inboxpilot/config"
	"github.com/bassamadnan/inboxpilot/mailbox"
)

// MinBodyLength is the shortest trimmed body, in characters, that still
// gets a reply.
const MinBodyLength = 10

// AutomatedKeywords mark system or bulk mail in a sender or subject.
var AutomatedKeywords = []string{
	"noreply", "no-reply", "donotreply", "automated",
	"auto-reply", "autoreply", "notification",
	"unsubscribe", "bounce", "delivery failure",
}

// Rejection names the rule that rejected a message.
type Rejection string

const (
	Accepted        Rejection = ""
	RejectOwnMail   Rejection = "own address"
	RejectAutomated Rejection = "automated sender or subject"
	RejectIgnored   Rejection = "operator ignore rule"
	RejectShortBody Rejection = "body too short"
)

// RuleSource supplies operator ignore rules. *config.FilterManager
// satisfies it.
type RuleSource interface {
	GetFilters() config.Filters
}

// Filter decides whether a message deserves an automated reply.
type Filter struct {
	address string
	rules   RuleSource
}

// NewFilter returns a filter for the mailbox owned by address. rules may be
// nil.
func NewFilter(address string, rules RuleSource) *Filter {
	return &Filter{address: strings.ToLower(strings.TrimSpace(address)), rules: rules}
}

// ShouldRespond reports whether msg passes every rule.
func (f *Filter) ShouldRespond(msg mailbox.Message) bool {
	return f.Reason(msg) == Accepted
}

// Reason returns the first rule that rejects msg, or Accepted.
func (f *Filter) Reason(msg mailbox.Message) Rejection {
	sender := strings.ToLower(msg.Sender)
	subject := strings.ToLower(msg.Subject)

	if f.address != "" && strings.Contains(sender, f.address) {
		return RejectOwnMail
	}

	for _, keyword := range AutomatedKeywords {
		if strings.Contains(sender, keyword) || strings.Contains(subject, keyword) {
			return RejectAutomated
		}
	}

	if f.rules != nil {
		rules := f.rules.GetFilters()
		if containsAny(sender, rules.IgnoreSenders) || containsAny(subject, rules.IgnoreKeywordsInSubject) {
			return RejectIgnored
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(msg.Body)) < MinBodyLength {
		return RejectShortBody
	}

	return Accepted
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
