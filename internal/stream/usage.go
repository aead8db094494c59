package stream

import (
	"github.com/tidwall/gjson"

	"github.com/n0madic/go-codexclient/internal/types"
)

// TokenUsageFromResponse extracts token usage from a response object.
// Returns nil if no usage data is present.
func TokenUsageFromResponse(resp gjson.Result) *types.TokenUsage {
	usage := resp.Get("usage")
	if !usage.IsObject() {
		return nil
	}
	in := usage.Get("input_tokens").Int()
	out := usage.Get("output_tokens").Int()
	total := usage.Get("total_tokens").Int()
	if total == 0 {
		total = in + out
	}
	return &types.TokenUsage{
		InputTokens:           in,
		CachedInputTokens:     usage.Get("input_tokens_details.cached_tokens").Int(),
		OutputTokens:          out,
		ReasoningOutputTokens: usage.Get("output_tokens_details.reasoning_tokens").Int(),
		TotalTokens:           total,
	}
}
