package models

import "strings"

// Family carries the static protocol capabilities of a model family. The zero
// value describes a model with no optional features.
type Family struct {
	// Slug is the model identifier the family was resolved from.
	Slug string
	// Family is the canonical family prefix, e.g. "o3" or "gpt-4.1".
	Family string

	// NeedsSpecialApplyPatchInstructions forces the apply_patch guidance into the
	// instructions even when an apply_patch tool is offered.
	NeedsSpecialApplyPatchInstructions bool
	// SupportsReasoningSummaries gates the reasoning request parameter.
	SupportsReasoningSummaries bool
	// ParallelToolCalls is the parallel_tool_calls policy sent for this family.
	ParallelToolCalls bool
}

type familyRule struct {
	prefix  string
	summary bool
	patch   bool
}

// Order matters: the first matching prefix wins.
var familyRules = []familyRule{
	{prefix: "o3", summary: true},
	{prefix: "o4-mini", summary: true},
	{prefix: "codex-mini-latest", summary: true},
	{prefix: "codex-", summary: true},
	{prefix: "gpt-4.1", patch: true},
	{prefix: "gpt-oss"},
	{prefix: "gpt-4o"},
	{prefix: "gpt-3.5"},
	{prefix: "gpt-5", summary: true},
}

// FindFamily resolves the capabilities for a model slug. The boolean is false for
// slugs that match no known family; the returned Family then only carries Slug.
func FindFamily(slug string) (Family, bool) {
	slug = strings.TrimSpace(slug)
	for _, r := range familyRules {
		if strings.HasPrefix(slug, r.prefix) {
			return Family{
				Slug:                               slug,
				Family:                             r.prefix,
				NeedsSpecialApplyPatchInstructions: r.patch,
				SupportsReasoningSummaries:         r.summary,
			}, true
		}
	}
	return Family{Slug: slug}, false
}
