package mailbox

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		from string
		want string
		ok   bool
	}{
		{"Jane Doe <jane@example.com>", "jane@example.com", true},
		{"jane@example.com", "jane@example.com", true},
		{"not-an-email", "", false},
		{"", "", false},
		{`"Bob" <bob@x.com>`, "bob@x.com", true},
		{"reply to jane@example.com or <team@example.org>", "team@example.org", true},
		{"Weird <not-an-email> jane@example.com", "jane@example.com", true},
		{"<  spaced@example.com  >", "spaced@example.com", true},
	}
	for _, tt := range tests {
		got, ok := ExtractAddress(tt.from)
		be.Equal(t, ok, tt.ok)
		be.Equal(t, got, tt.want)
	}
}

func TestReplySubject(t *testing.T) {
	be.Equal(t, ReplySubject("Question"), "Re: Question")
	be.Equal(t, ReplySubject("Re: Question"), "Re: Question")
	be.Equal(t, ReplySubject("Re:Question"), "Re:Question")
	be.Equal(t, ReplySubject(""), "Re: ")
}

func TestReplyTo(t *testing.T) {
	msg := Message{ID: "m1", ThreadID: "t1", MessageID: "<abc@x.com>", Sender: "Bob <bob@x.com>", Subject: "Question"}
	reply := ReplyTo(msg, "bob@x.com", "Sure.")
	be.Equal(t, reply, Reply{
		To:        "bob@x.com",
		Subject:   "Question",
		Body:      "Sure.",
		InReplyTo: "m1",
		MessageID: "<abc@x.com>",
		ThreadID:  "t1",
	})
}
