// Package prompt composes the instructions and input of a single model turn.
package prompt

import (
	_ "embed"
	"slices"
	"strings"

	"github.com/n0madic/go-codexclient/internal/models"
	"github.com/n0madic/go-codexclient/internal/tools"
	"github.com/n0madic/go-codexclient/internal/types"
)

//go:embed prompt.md
var promptMD string

//go:embed apply_patch.md
var applyPatchMD string

// Loaded once at init and never mutated.
var (
	baseInstructions       = strings.TrimSpace(promptMD)
	applyPatchInstructions = strings.TrimSpace(applyPatchMD)
)

// Markers wrapping injected user instructions so the model can tell them apart
// from ordinary user turns.
const (
	UserInstructionsStart = "<user_instructions>\n\n"
	UserInstructionsEnd   = "\n\n</user_instructions>"
)

// Prompt is the request payload for a single model turn. It is built once by the
// caller and not modified afterwards.
type Prompt struct {
	// Input is the conversation context, in order.
	Input []types.ResponseItem
	// Store asks the upstream to retain the response. Callers holding a
	// "disable storage" setting invert it before building the prompt.
	Store bool
	// Tools offered to the model, in wire order.
	Tools []types.Tool
	// BaseInstructionsOverride replaces the built-in instructions entirely when non-empty.
	BaseInstructionsOverride string
}

// BaseInstructions returns the built-in instructions text.
func BaseInstructions() string {
	return baseInstructions
}

// ApplyPatchInstructions returns the apply_patch guidance block.
func ApplyPatchInstructions() string {
	return applyPatchInstructions
}

// FullInstructions returns the instructions string sent with the turn.
//
// An override is used verbatim. Otherwise the base instructions are followed by the
// apply_patch guidance when no apply_patch tool is offered or the model family asks
// for it explicitly. The result is deterministic since it feeds the prompt cache key.
func (p *Prompt) FullInstructions(family models.Family) string {
	if p.BaseInstructionsOverride != "" {
		return p.BaseInstructionsOverride
	}

	sections := []string{baseInstructions}
	if family.NeedsSpecialApplyPatchInstructions || !tools.HasTool(p.Tools, tools.ApplyPatchName) {
		sections = append(sections, applyPatchInstructions)
	}
	return strings.Join(sections, "\n")
}

// FormattedInput returns a copy of the input items that the caller may extend freely.
func (p *Prompt) FormattedInput() []types.ResponseItem {
	return slices.Clone(p.Input)
}

// FormatUserInstructions wraps free-form user instructions into a user message.
func FormatUserInstructions(text string) types.ResponseItem {
	return types.ResponseItem{
		Type: types.ItemTypeMessage,
		Role: "user",
		Content: []types.ContentItem{
			{Type: types.ContentInputText, Text: UserInstructionsStart + text + UserInstructionsEnd},
		},
	}
}
