package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserMessage builds a user message item with a single input_text part.
func UserMessage(text string) ResponseItem {
	return ResponseItem{
		Type:    ItemTypeMessage,
		Role:    "user",
		Content: []ContentItem{{Type: ContentInputText, Text: text}},
	}
}

// ParseInput decodes a Responses-style input value. A bare JSON string becomes a single
// user message; an array is decoded item by item, with string content promoted to a
// single text part and a missing type defaulted to "message".
func ParseInput(raw json.RawMessage) ([]ResponseItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("invalid input string: %w", err)
		}
		return []ResponseItem{UserMessage(text)}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("input must be a string or an array: %w", err)
	}

	items := make([]ResponseItem, 0, len(entries))
	for i, entry := range entries {
		item, err := parseInputItem(entry)
		if err != nil {
			return nil, fmt.Errorf("input[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseInputItem(raw json.RawMessage) (ResponseItem, error) {
	var loose struct {
		ResponseItem
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return ResponseItem{}, err
	}
	item := loose.ResponseItem
	if item.Type == "" {
		item.Type = ItemTypeMessage
	}

	content := bytes.TrimSpace(loose.Content)
	switch {
	case len(content) == 0 || bytes.Equal(content, []byte("null")):
	case content[0] == '"':
		var text string
		if err := json.Unmarshal(content, &text); err != nil {
			return ResponseItem{}, err
		}
		partType := ContentInputText
		if item.Role == "assistant" {
			partType = ContentOutputText
		}
		item.Content = []ContentItem{{Type: partType, Text: text}}
	default:
		if err := json.Unmarshal(content, &item.Content); err != nil {
			return ResponseItem{}, err
		}
	}
	return item, nil
}
