// Package pipeline turns a prompt into one streamed model turn.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/n0madic/go-codexclient/internal/config"
	"github.com/n0madic/go-codexclient/internal/models"
	"github.com/n0madic/go-codexclient/internal/prompt"
	"github.com/n0madic/go-codexclient/internal/reasoning"
	"github.com/n0madic/go-codexclient/internal/session"
	"github.com/n0madic/go-codexclient/internal/stream"
	"github.com/n0madic/go-codexclient/internal/tools"
	"github.com/n0madic/go-codexclient/internal/types"
	"github.com/n0madic/go-codexclient/internal/upstream"
)

// Streamer sends an assembled request and returns its event stream.
// *upstream.Client implements it.
type Streamer interface {
	Stream(ctx context.Context, req *types.ResponsesAPIRequest) (*stream.ResponseStream, error)
}

// Pipeline orchestrates a turn through the
// compose → select → assemble → send flow.
type Pipeline struct {
	Config   *config.Config
	Upstream Streamer
	// Sessions derives prompt cache keys; nil uses the package-level cache.
	Sessions *session.Cache
	// SessionID is a caller-supplied prompt cache key that takes precedence.
	SessionID string
}

// Model returns the canonical model slug for the configured model name.
func (p *Pipeline) Model() string {
	return models.NormalizeModelName(p.Config.Model, "")
}

// NewPrompt builds the prompt for a turn from the conversation input. Configured
// user instructions are placed ahead of the input, and the built-in tools are
// offered when withTools is set.
func (p *Pipeline) NewPrompt(input []types.ResponseItem, withTools bool) *prompt.Prompt {
	items := make([]types.ResponseItem, 0, len(input)+1)
	if p.Config.UserInstructions != "" {
		items = append(items, prompt.FormatUserInstructions(p.Config.UserInstructions))
	}
	items = append(items, input...)

	pr := &prompt.Prompt{
		Input:                    items,
		Store:                    p.Config.Store,
		BaseInstructionsOverride: p.Config.BaseInstructionsOverride,
	}
	if withTools {
		pr.Tools = tools.Default(true)
	}
	return pr
}

// Build assembles the upstream request for a prompt and model family.
func (p *Pipeline) Build(pr *prompt.Prompt, family models.Family) (*types.ResponsesAPIRequest, error) {
	instructions := pr.FullInstructions(family)

	effort, summary := reasoning.Resolve(
		p.Config.ReasoningEffort,
		p.Config.ReasoningSummary,
		reasoning.ExtractFromModelName(p.Config.Model),
		"",
		family.Slug,
	)

	wireTools, err := tools.Serialize(pr.Tools)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize tools: %w", err)
	}

	var cacheKey string
	if p.Sessions != nil {
		cacheKey = p.Sessions.PromptCacheKey(instructions, pr.Input, p.SessionID)
	} else {
		cacheKey = session.PromptCacheKey(instructions, pr.Input, p.SessionID)
	}

	return upstream.AssembleRequest(pr, upstream.Assembly{
		Model:             family.Slug,
		Instructions:      instructions,
		Tools:             wireTools,
		Reasoning:         reasoning.ForRequest(family, effort, summary),
		ParallelToolCalls: family.ParallelToolCalls,
		PromptCacheKey:    cacheKey,
	}), nil
}

// Execute builds the request for the configured model and starts streaming it.
func (p *Pipeline) Execute(ctx context.Context, pr *prompt.Prompt) (*stream.ResponseStream, error) {
	family, known := models.FindFamily(p.Model())

	req, err := p.Build(pr, family)
	if err != nil {
		return nil, err
	}
	p.logTurn(req, known)

	return p.Upstream.Stream(ctx, req)
}

func (p *Pipeline) logTurn(req *types.ResponsesAPIRequest, knownFamily bool) {
	if !p.Config.Verbose {
		return
	}
	attrs := []any{
		"model", req.Model,
		"known_family", knownFamily,
		"input_items", len(req.Input),
		"tools", len(req.Tools),
		"store", req.Store,
		"instructions_chars", len(req.Instructions),
		"prompt_cache_key", req.PromptCacheKey,
	}
	if req.Reasoning != nil {
		attrs = append(attrs,
			"reasoning_effort", string(req.Reasoning.Effort),
			"reasoning_summary", string(req.Reasoning.Summary),
		)
	}
	slog.Info("turn.request", attrs...)
}
