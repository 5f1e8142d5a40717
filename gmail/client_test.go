package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jhillyerd/enmime"
	"github.com/nalgeon/be"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"

	"github.com/bassamadnan/inboxpilot/mailbox"
)

type fakeGmail struct {
	mu       sync.Mutex
	status   int
	hits     int
	auth     string
	query    string
	max      string
	sent     map[string]string
	modified map[string][]string
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	f.auth = r.Header.Get("Authorization")
	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"fail"}}`, f.status)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/gmail/v1/users/me/messages")
	switch {
	case r.Method == http.MethodGet && path == "":
		f.query = r.URL.Query().Get("q")
		f.max = r.URL.Query().Get("maxResults")
		_, _ = w.Write([]byte(`{"messages":[{"id":"m2","threadId":"t2"},{"id":"m1","threadId":"t1"}]}`))
	case r.Method == http.MethodGet && path == "/m1":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "m1",
			"threadId": "t1",
			"payload": map[string]any{
				"mimeType": "text/plain",
				"headers": []map[string]string{
					{"name": "From", "value": "Bob <bob@x.com>"},
					{"name": "Subject", "value": "Question"},
				},
				"body": map[string]string{"data": b64("Can you help me?")},
			},
		})
	case r.Method == http.MethodPost && path == "/send":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.sent = body
		_, _ = w.Write([]byte(`{"id":"s1"}`))
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/modify"):
		var body struct {
			RemoveLabelIds []string `json:"removeLabelIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.modified == nil {
			f.modified = map[string][]string{}
		}
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/modify")
		f.modified[id] = body.RemoveLabelIds
		_, _ = w.Write([]byte(`{"id":"` + id + `"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
	}
}

func newTestProvider(t *testing.T, f *fakeGmail) *Provider {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	p, err := NewProviderWithOptions(context.Background(), "me@example.com", nil,
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	be.Err(t, err, nil)
	return p
}

func TestListUnread(t *testing.T) {
	f := &fakeGmail{}
	p := newTestProvider(t, f)

	ids, err := p.ListUnread(context.Background(), 5)
	be.Err(t, err, nil)
	be.Equal(t, ids, []string{"m2", "m1"})
	be.Equal(t, f.query, "is:unread")
	be.Equal(t, f.max, "5")
}

func TestFetchDetail(t *testing.T) {
	p := newTestProvider(t, &fakeGmail{})

	msg, err := p.FetchDetail(context.Background(), "m1")
	be.Err(t, err, nil)
	be.Equal(t, msg.Sender, "Bob <bob@x.com>")
	be.Equal(t, msg.Subject, "Question")
	be.Equal(t, msg.Body, "Can you help me?")

	_, err = p.FetchDetail(context.Background(), "missing")
	be.Err(t, err, "gmail get")
}

func TestSend(t *testing.T) {
	f := &fakeGmail{}
	p := newTestProvider(t, f)

	reply := mailbox.Reply{
		To: "bob@x.com", Subject: "Question", Body: "Sure!",
		InReplyTo: "m1", MessageID: "<q1@x.com>", ThreadID: "t1",
	}
	be.Err(t, p.Send(context.Background(), reply), nil)
	be.Equal(t, f.sent["threadId"], "t1")

	raw, err := base64.URLEncoding.DecodeString(f.sent["raw"])
	be.Err(t, err, nil)
	env, err := enmime.ReadEnvelope(strings.NewReader(string(raw)))
	be.Err(t, err, nil)
	be.Equal(t, env.GetHeader("Subject"), "Re: Question")
	be.Equal(t, env.GetHeader("In-Reply-To"), "<q1@x.com>")
	be.True(t, strings.Contains(env.GetHeader("From"), "me@example.com"))
	be.Equal(t, strings.TrimSpace(env.Text), "Sure!")
}

func TestMarkRead(t *testing.T) {
	f := &fakeGmail{}
	p := newTestProvider(t, f)

	be.Err(t, p.MarkRead(context.Background(), "m1"), nil)
	be.Equal(t, f.modified["m1"], []string{"UNREAD"})
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	f := &fakeGmail{status: http.StatusServiceUnavailable}
	p := newTestProvider(t, f)

	for i := 0; i < 5; i++ {
		_, err := p.ListUnread(context.Background(), 5)
		be.True(t, err != nil)
	}
	hits := f.hits

	_, err := p.ListUnread(context.Background(), 5)
	be.Err(t, err, gobreaker.ErrOpenState)
	be.Equal(t, f.hits, hits)
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	f := &fakeGmail{}
	p := newTestProvider(t, f)

	for i := 0; i < 8; i++ {
		_, err := p.FetchDetail(context.Background(), "missing")
		be.Err(t, err, "gmail get")
	}
	be.Equal(t, p.cb.State(), gobreaker.StateClosed)
}
