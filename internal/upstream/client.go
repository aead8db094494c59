package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"

	"github.com/n0madic/go-codexclient/internal/config"
	"github.com/n0madic/go-codexclient/internal/limits"
	"github.com/n0madic/go-codexclient/internal/stream"
	"github.com/n0madic/go-codexclient/internal/types"
)

// upstreamHTTPTimeout is the maximum time allowed for the upstream SSE request.
// SSE streams can be long-lived, so we use a generous timeout.
const upstreamHTTPTimeout = 5 * time.Minute

// maxErrorBody caps how much of a rejected response body is kept.
const maxErrorBody = 64 * 1024

// Client sends turns to the Responses endpoint and streams the decoded events back.
type Client struct {
	ResponsesURL string
	AccountID    string
	// Capacity bounds the event queue of each stream.
	Capacity int
	Verbose  bool

	httpClient *http.Client
	hasToken   bool
	rateLimits atomic.Pointer[limits.Snapshot]
}

// NewClient creates an upstream client authenticating with a static bearer token.
func NewClient(cfg *config.Config) *Client {
	token := strings.TrimSpace(cfg.AccessToken)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.Background(), src)
	hc.Timeout = upstreamHTTPTimeout

	return &Client{
		ResponsesURL: cfg.ResponsesURL,
		AccountID:    cfg.AccountID,
		Capacity:     cfg.StreamBuffer,
		Verbose:      cfg.Verbose,
		httpClient:   hc,
		hasToken:     token != "",
	}
}

// Stream sends the request and returns the event stream of the response. The
// decoder runs in its own goroutine until response.completed, a failure, or the
// consumer closing the stream. Rejected requests return *UpstreamError.
func (c *Client) Stream(ctx context.Context, req *types.ResponsesAPIRequest) (*stream.ResponseStream, error) {
	if !c.hasToken {
		return nil, ErrNoCredentials
	}

	if c.Verbose {
		reasoningEffort := ""
		reasoningSummary := ""
		if req.Reasoning != nil {
			reasoningEffort = string(req.Reasoning.Effort)
			reasoningSummary = string(req.Reasoning.Summary)
		}
		slog.Info("upstream.request",
			"model", req.Model,
			"input_items", len(req.Input),
			"tools", len(req.Tools),
			"parallel_tool_calls", req.ParallelToolCalls,
			"include_count", len(req.Include),
			"store", req.Store,
			"reasoning_effort", reasoningEffort,
			"reasoning_summary", reasoningSummary,
			"instructions_chars", len(req.Instructions),
			"prompt_cache_key", req.PromptCacheKey,
		)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ResponsesURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	config.ApplyCodexDefaultHeaders(httpReq.Header)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("OpenAI-Beta", "responses=experimental")
	if c.AccountID != "" {
		httpReq.Header.Set("chatgpt-account-id", c.AccountID)
	}
	if req.PromptCacheKey != "" {
		httpReq.Header.Set("session_id", req.PromptCacheKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	if c.Verbose {
		attrs := []any{"status", resp.StatusCode}
		if requestID := upstreamRequestID(resp.Header); requestID != "" {
			attrs = append(attrs, "request_id", requestID)
		}
		slog.Info("upstream.response", attrs...)
	}
	if snap := limits.FromHeaders(resp.Header, time.Now().UTC()); snap != nil {
		c.rateLimits.Store(snap)
		if c.Verbose {
			slog.Info("upstream.rate_limits", snap.LogAttrs()...)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       errBody,
			Headers:    resp.Header,
		}
	}

	rs, tx := stream.New(c.Capacity)
	go func() {
		defer resp.Body.Close()
		err := stream.Decode(ctx, resp.Body, tx)
		if c.Verbose {
			if err != nil {
				slog.Info("upstream.stream.end", "error", err)
			} else {
				slog.Info("upstream.stream.end", "status", "completed")
			}
		}
	}()
	return rs, nil
}

// RateLimits returns the usage windows reported with the most recent response,
// or nil if none were reported yet.
func (c *Client) RateLimits() *limits.Snapshot {
	return c.rateLimits.Load()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func upstreamRequestID(headers http.Header) string {
	if headers == nil {
		return ""
	}
	return firstNonEmpty(
		headers.Get("x-request-id"),
		headers.Get("x-openai-request-id"),
		headers.Get("x-oai-request-id"),
		headers.Get("openai-request-id"),
		headers.Get("request-id"),
		headers.Get("cf-ray"),
	)
}
