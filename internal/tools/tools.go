package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n0madic/go-codexclient/internal/types"
)

// Tool names with special meaning to the client.
const (
	ApplyPatchName = "apply_patch"
	ShellName      = "shell"
)

// ErrUnknownToolType is returned by Serialize for tool types the Responses API does not accept.
var ErrUnknownToolType = errors.New("unknown tool type")

// HasTool reports whether a tool with exactly the given name is present.
func HasTool(ts []types.Tool, name string) bool {
	for _, t := range ts {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Default returns the built-in tool set: a shell tool and, when requested, the
// apply_patch tool.
func Default(withApplyPatch bool) []types.Tool {
	out := []types.Tool{shellTool()}
	if withApplyPatch {
		out = append(out, applyPatchTool())
	}
	return out
}

// Serialize converts tool descriptors into their wire form, preserving order.
func Serialize(ts []types.Tool) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(ts))
	for _, t := range ts {
		param, err := toSDK(t)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(param)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tool %q: %w", t.Name, err)
		}
		out = append(out, data)
	}
	return out, nil
}

func shellTool() types.Tool {
	strict := false
	return types.Tool{
		Type:        "function",
		Name:        ShellName,
		Description: "Runs a shell command and returns its output.",
		Strict:      &strict,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "The command to execute",
				},
				"workdir": map[string]any{
					"type":        "string",
					"description": "The working directory to execute the command in",
				},
				"timeout_ms": map[string]any{
					"type":        "number",
					"description": "The timeout for the command in milliseconds",
				},
			},
			"required":             []string{"command"},
			"additionalProperties": false,
		},
	}
}

func applyPatchTool() types.Tool {
	strict := false
	return types.Tool{
		Type:        "function",
		Name:        ApplyPatchName,
		Description: "Use the `apply_patch` tool to edit files.",
		Strict:      &strict,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"input": map[string]any{
					"type":        "string",
					"description": "The entire contents of the apply_patch command",
				},
			},
			"required":             []string{"input"},
			"additionalProperties": false,
		},
	}
}
