package reasoning

import (
	"strings"

	"github.com/openai/openai-go/v3/shared"

	"github.com/n0madic/go-codexclient/internal/models"
	"github.com/n0madic/go-codexclient/internal/types"
)

// SummaryNone disables reasoning summaries. The SDK has no constant for it.
const SummaryNone shared.ReasoningSummary = "none"

var validSummaries = map[string]bool{"auto": true, "concise": true, "detailed": true, "none": true}

// ForRequest returns the reasoning parameter for a turn: the requested effort and
// summary when the model family supports reasoning summaries, nil otherwise.
func ForRequest(family models.Family, effort shared.ReasoningEffort, summary shared.ReasoningSummary) *types.Reasoning {
	if !family.SupportsReasoningSummaries {
		return nil
	}
	return &types.Reasoning{Effort: effort, Summary: summary}
}

// Resolve picks the effort and summary for a request. Configured values are used
// unless a valid override is supplied; anything the model does not allow falls
// back to medium effort and auto summary.
func Resolve(baseEffort, baseSummary, effortOverride, summaryOverride, model string) (shared.ReasoningEffort, shared.ReasoningSummary) {
	effort := strings.ToLower(strings.TrimSpace(baseEffort))
	summary := strings.ToLower(strings.TrimSpace(baseSummary))

	validEfforts := models.AllowedEfforts(model)

	if e := strings.ToLower(strings.TrimSpace(effortOverride)); e != "" && validEfforts[e] {
		effort = e
	}
	if s := strings.ToLower(strings.TrimSpace(summaryOverride)); s != "" && validSummaries[s] {
		summary = s
	}

	if !validEfforts[effort] {
		effort = "medium"
	}
	if !validSummaries[summary] {
		summary = "auto"
	}
	return shared.ReasoningEffort(effort), shared.ReasoningSummary(summary)
}

// ExtractFromModelName infers an effort level from a model name suffix such as
// "gpt-5-high", "gpt-5_low" or "gpt-5:medium". Returns "" when there is none.
func ExtractFromModelName(model string) string {
	s := strings.ToLower(strings.TrimSpace(model))
	if s == "" {
		return ""
	}

	efforts := []string{"minimal", "low", "medium", "high", "xhigh"}

	// Colon separator is the Ollama convention.
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		maybe := strings.TrimSpace(s[idx+1:])
		for _, e := range efforts {
			if maybe == e {
				return e
			}
		}
	}

	for _, sep := range []string{"-", "_"} {
		for _, e := range efforts {
			if strings.HasSuffix(s, sep+e) {
				return e
			}
		}
	}
	return ""
}
