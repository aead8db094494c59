package upstream

import (
	"encoding/json"
	"strings"

	"github.com/n0madic/go-codexclient/internal/prompt"
	"github.com/n0madic/go-codexclient/internal/types"
)

// ToolChoiceAuto is the fixed tool_choice policy of this client.
const ToolChoiceAuto = "auto"

// includeEncryptedReasoning asks the upstream to return reasoning items so they can
// be replayed on the next turn without server-side storage.
const includeEncryptedReasoning = "reasoning.encrypted_content"

// Assembly holds the per-turn values that complement a Prompt in the outgoing request.
type Assembly struct {
	Model        string
	Instructions string
	// Tools are the pre-serialized tool definitions, in the prompt's tool order.
	Tools             []json.RawMessage
	Reasoning         *types.Reasoning
	ParallelToolCalls bool
	// Include lists extra auxiliary content to request.
	Include []string
	// PromptCacheKey is omitted from the payload when empty.
	PromptCacheKey string
}

// AssembleRequest builds the Responses API payload for one streamed turn.
// Store mirrors the prompt verbatim and stream is always true.
func AssembleRequest(p *prompt.Prompt, a Assembly) *types.ResponsesAPIRequest {
	input := p.FormattedInput()
	if input == nil {
		input = []types.ResponseItem{}
	}
	tools := a.Tools
	if tools == nil {
		tools = []json.RawMessage{}
	}

	return &types.ResponsesAPIRequest{
		Model:             a.Model,
		Instructions:      a.Instructions,
		Input:             input,
		Tools:             tools,
		ToolChoice:        ToolChoiceAuto,
		ParallelToolCalls: a.ParallelToolCalls,
		Reasoning:         a.Reasoning,
		Store:             p.Store,
		Stream:            true,
		Include:           mergeIncludes(a.Include, a.Reasoning != nil),
		PromptCacheKey:    a.PromptCacheKey,
	}
}

func mergeIncludes(clientInclude []string, includeReasoning bool) []string {
	merged := []string{}
	seen := make(map[string]struct{})

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		merged = append(merged, v)
	}

	for _, v := range clientInclude {
		add(v)
	}
	if includeReasoning {
		add(includeEncryptedReasoning)
	}

	return merged
}
