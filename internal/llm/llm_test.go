package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, answer string, seen *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		choices := `[]`
		if answer != "" {
			choices = `[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` + mustJSON(t, answer) + `}}]`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"m","choices":` + choices + `}`))
	}))
}

func mustJSON(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func TestParseServiceKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ServiceKind
		wantErr bool
	}{
		{in: "GPT", want: GPT},
		{in: "", want: GPT},
		{in: "Kimi", want: Kimi},
		{in: " moonshot ", want: Kimi},
		{in: "claude", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseServiceKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownService)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceKindString(t *testing.T) {
	assert.Equal(t, "gpt", GPT.String())
	assert.Equal(t, "kimi", Kimi.String())
	assert.Equal(t, "ServiceKind(7)", ServiceKind(7).String())
}

func TestReplyReturnsFirstChoice(t *testing.T) {
	var seen chatRequest
	srv := completionServer(t, "你好，我是机器人", &seen)
	defer srv.Close()

	c, err := New(map[ServiceKind]Supplier{
		Kimi: {BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "moonshot-v1-8k", Prompt: "be brief"},
	})
	require.NoError(t, err)

	got, err := c.Reply(context.Background(), "hello", Kimi)
	require.NoError(t, err)
	assert.Equal(t, "你好，我是机器人", got)

	assert.Equal(t, "moonshot-v1-8k", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "be brief", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "hello", seen.Messages[1].Content)
}

func TestReplyEmptyChoices(t *testing.T) {
	srv := completionServer(t, "", nil)
	defer srv.Close()

	c, err := New(map[ServiceKind]Supplier{
		GPT: {BaseURL: srv.URL + "/v1", APIKey: "sk-test", Timeout: 5 * time.Second},
	})
	require.NoError(t, err)

	_, err = c.Reply(context.Background(), "hello", GPT)
	require.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestReplyUnconfiguredKind(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	_, err = c.Reply(context.Background(), "hello", Kimi)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewRejectsMissingKeyAndBadProxy(t *testing.T) {
	_, err := New(map[ServiceKind]Supplier{GPT: {}})
	require.Error(t, err)

	_, err = New(map[ServiceKind]Supplier{GPT: {APIKey: "k", Proxy: "://bad"}})
	require.Error(t, err)
}
