package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/bassamadnan/inboxpilot/config"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, status int, body string, got *capturedRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) config.GeneratorConfig {
	return config.GeneratorConfig{
		APIKey:         "AIzaSyA-0123456789abcdefghij",
		Model:          "gemini-test",
		BaseURL:        url + "/",
		TimeoutSeconds: 5,
	}
}

const okBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gemini-test",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Merhaba!"}}
  ]
}`

func TestGenerate(t *testing.T) {
	var req capturedRequest
	var auth string
	srv := completionServer(t, http.StatusOK, okBody, &req, &auth)

	c := NewClient(testConfig(srv.URL), nil, WithHTTPClient(srv.Client()))
	text, err := c.Generate(context.Background(), "say hello")
	be.Err(t, err, nil)
	be.Equal(t, text, "Merhaba!")

	be.Equal(t, req.Model, "gemini-test")
	be.Equal(t, len(req.Messages), 1)
	be.Equal(t, req.Messages[0].Role, "user")
	be.Equal(t, req.Messages[0].Content, "say hello")
	be.Equal(t, auth, "Bearer AIzaSyA-0123456789abcdefghij")
}

func TestGenerateNoChoices(t *testing.T) {
	body := `{"id":"x","object":"chat.completion","created":1,"model":"gemini-test","choices":[]}`
	srv := completionServer(t, http.StatusOK, body, nil, nil)

	c := NewClient(testConfig(srv.URL), nil, WithHTTPClient(srv.Client()))
	_, err := c.Generate(context.Background(), "hi")
	be.Err(t, err, ErrEmptyResponse)
}

func TestGenerateServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"backend down","type":"server_error"}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testConfig(srv.URL), nil, WithHTTPClient(srv.Client()))
	_, err := c.Generate(context.Background(), "hi")
	be.Err(t, err, "gemini-test")
	be.Equal(t, calls, 1)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(config.GeneratorConfig{APIKey: "k"}, nil)
	be.Equal(t, c.model, config.DefaultModel)
	be.Equal(t, c.temperature, 0.7)

	c = NewClient(config.GeneratorConfig{APIKey: "k"}, nil, WithTemperature(0.2))
	be.Equal(t, c.temperature, 0.2)
}
