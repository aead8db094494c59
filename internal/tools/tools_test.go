package tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/n0madic/go-codexclient/internal/types"
)

func TestHasTool(t *testing.T) {
	ts := []types.Tool{
		{Type: "function", Name: "shell"},
		{Type: "custom", Name: "apply_patch"},
	}
	if !HasTool(ts, ApplyPatchName) {
		t.Error("expected apply_patch to be found")
	}
	if HasTool(ts, "apply_patch_v2") {
		t.Error("name match must be exact")
	}
	if HasTool(nil, ApplyPatchName) {
		t.Error("empty tool list must not contain apply_patch")
	}
}

func TestDefault(t *testing.T) {
	if got := Default(false); len(got) != 1 || got[0].Name != ShellName {
		t.Fatalf("Default(false) = %+v", got)
	}
	got := Default(true)
	if len(got) != 2 || got[1].Name != ApplyPatchName {
		t.Fatalf("Default(true) = %+v", got)
	}
}

func TestSerializePreservesOrderAndShape(t *testing.T) {
	strict := true
	ts := []types.Tool{
		{Type: "function", Name: "b_tool", Description: "second alphabetically", Strict: &strict,
			Parameters: map[string]any{"type": "object", "properties": map[string]any{}}},
		{Type: "custom", Name: "a_tool"},
		{Type: "web_search"},
	}
	raw, err := Serialize(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(raw))
	}

	var first map[string]any
	if err := json.Unmarshal(raw[0], &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["type"] != "function" || first["name"] != "b_tool" || first["strict"] != true {
		t.Errorf("unexpected function tool: %v", first)
	}
	if first["description"] != "second alphabetically" {
		t.Errorf("description = %v", first["description"])
	}

	var second map[string]any
	if err := json.Unmarshal(raw[1], &second); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if second["type"] != "custom" || second["name"] != "a_tool" {
		t.Errorf("unexpected custom tool: %v", second)
	}

	var third map[string]any
	if err := json.Unmarshal(raw[2], &third); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if third["type"] != "web_search" {
		t.Errorf("unexpected web_search tool: %v", third)
	}
}

func TestSerializeFunctionWithoutParameters(t *testing.T) {
	raw, err := Serialize([]types.Tool{{Type: "function", Name: "noop"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw[0], &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	params, ok := got["parameters"].(map[string]any)
	if !ok || params["type"] != "object" {
		t.Errorf("expected default object schema, got %v", got["parameters"])
	}
}

func TestSerializeUnknownType(t *testing.T) {
	_, err := Serialize([]types.Tool{{Type: "local_shell_v9", Name: "x"}})
	if !errors.Is(err, ErrUnknownToolType) {
		t.Fatalf("expected ErrUnknownToolType, got %v", err)
	}
}

func TestSerializeEmpty(t *testing.T) {
	raw, err := Serialize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw == nil || len(raw) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", raw)
	}
}
