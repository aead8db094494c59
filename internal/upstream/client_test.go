package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/n0madic/go-codexclient/internal/config"
	"github.com/n0madic/go-codexclient/internal/prompt"
	"github.com/n0madic/go-codexclient/internal/stream"
	"github.com/n0madic/go-codexclient/internal/types"
)

func TestMergeIncludesDedupeAndReasoning(t *testing.T) {
	got := mergeIncludes([]string{"foo", "reasoning.encrypted_content", "foo", "bar"}, true)
	want := []string{"foo", "reasoning.encrypted_content", "bar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeIncludesNoReasoning(t *testing.T) {
	got := mergeIncludes([]string{"foo", "bar", "foo", " "}, false)
	want := []string{"foo", "bar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func testClient(url, token string) *Client {
	return NewClient(&config.Config{
		AccessToken:  token,
		ResponsesURL: url,
		AccountID:    "acct-1",
		StreamBuffer: 4,
	})
}

func testRequest() *types.ResponsesAPIRequest {
	p := &prompt.Prompt{Input: []types.ResponseItem{types.UserMessage("hi")}}
	return AssembleRequest(p, Assembly{Model: "gpt-4o", Instructions: "base", PromptCacheKey: "conv-1"})
}

func TestClientStreamDecodesEvents(t *testing.T) {
	var gotHeaders http.Header
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("x-codex-primary-used-percent", "12.5")
		io.WriteString(w, "data: {\"type\":\"response.created\",\"response\":{\"id\":\"resp_1\"}}\n\n")
		io.WriteString(w, "data: {\"type\":\"response.output_text.delta\",\"delta\":\"Hel\"}\n\n")
		io.WriteString(w, "data: {\"type\":\"response.output_item.done\",\"item\":{\"type\":\"message\",\"role\":\"assistant\",\"content\":[{\"type\":\"output_text\",\"text\":\"Hello\"}]}}\n\n")
		io.WriteString(w, "data: {\"type\":\"response.completed\",\"response\":{\"id\":\"resp_1\",\"usage\":{\"input_tokens\":3,\"output_tokens\":2,\"total_tokens\":5}}}\n\n")
	}))
	defer srv.Close()

	client := testClient(srv.URL, "tok")
	if client.RateLimits() != nil {
		t.Fatalf("no rate limits expected before the first response")
	}
	rs, err := client.Stream(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer rs.Close()

	if snap := client.RateLimits(); snap == nil || snap.Primary == nil || snap.Primary.UsedPercent != 12.5 {
		t.Fatalf("rate limits = %+v", snap)
	}

	var kinds []stream.EventKind
	var last stream.ResponseEvent
	for ev, err := range rs.All(context.Background()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kinds = append(kinds, ev.Kind)
		last = ev
	}

	want := []stream.EventKind{stream.EventCreated, stream.EventOutputTextDelta, stream.EventOutputItemDone, stream.EventCompleted}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if last.ResponseID != "resp_1" || last.TokenUsage == nil || last.TokenUsage.TotalTokens != 5 {
		t.Fatalf("unexpected completion: %+v", last)
	}

	if got := gotHeaders.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("authorization = %q", got)
	}
	if got := gotHeaders.Get("session_id"); got != "conv-1" {
		t.Fatalf("session_id = %q", got)
	}
	if got := gotHeaders.Get("chatgpt-account-id"); got != "acct-1" {
		t.Fatalf("chatgpt-account-id = %q", got)
	}
	if got := gotHeaders.Get("Accept"); got != "text/event-stream" {
		t.Fatalf("accept = %q", got)
	}
	if got := gotHeaders.Get("originator"); got == "" {
		t.Fatalf("originator header missing")
	}
	if got := gjson.Get(gotBody, "model").String(); got != "gpt-4o" {
		t.Fatalf("body model = %q", got)
	}
}

func TestClientStreamRejectedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-request-id", "req-9")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"slow down"}}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, "tok").Stream(context.Background(), testRequest())
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d", upErr.StatusCode)
	}
	if msg := upErr.Error(); !strings.Contains(msg, "slow down") || !strings.Contains(msg, "req-9") {
		t.Fatalf("error message = %q", msg)
	}
}

func TestClientStreamTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "data: {\"type\":\"response.created\",\"response\":{\"id\":\"resp_1\"}}\n\n")
	}))
	defer srv.Close()

	rs, err := testClient(srv.URL, "tok").Stream(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer rs.Close()

	if _, err := rs.Next(context.Background()); err != nil {
		t.Fatalf("first event: %v", err)
	}
	if _, err := rs.Next(context.Background()); !errors.Is(err, stream.ErrStreamIncomplete) {
		t.Fatalf("expected ErrStreamIncomplete, got %v", err)
	}
}

func TestClientStreamRequiresToken(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1", " ").Stream(context.Background(), testRequest())
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}
