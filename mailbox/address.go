package mailbox

import (
	"regexp"
	"strings"
)

var (
	bracketAddress = regexp.MustCompile(`<([^<>]+)>`)
	bareAddress    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// ExtractAddress pulls a reply address out of a raw From header. A bracketed
// "<addr>" wins when it looks like an address; otherwise the first bare
// local@domain token is used. ok is false when neither is present.
func ExtractAddress(from string) (addr string, ok bool) {
	for _, m := range bracketAddress.FindAllStringSubmatch(from, -1) {
		candidate := strings.TrimSpace(m[1])
		if candidate != "" && strings.Contains(candidate, "@") && !strings.ContainsAny(candidate, " \t") {
			return candidate, true
		}
	}
	if bare := bareAddress.FindString(from); bare != "" {
		return bare, true
	}
	return "", false
}

// ReplySubject prefixes subject with "Re: " unless it already starts with "Re:".
func ReplySubject(subject string) string {
	if strings.HasPrefix(subject, "Re:") {
		return subject
	}
	return "Re: " + subject
}
